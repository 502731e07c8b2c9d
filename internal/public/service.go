// Package public serves published landing pages to visitors.
package public

import (
	"context"
	"encoding/json"

	"github.com/Kyz7/landing/internal/cache"
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/landing"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/sections"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Page is the visitor view of a published page. ID and CompanyID are kept
// for enquiry capture and never leave the server.
type Page struct {
	ID              uint            `json:"-"`
	CompanyID       uint            `json:"-"`
	Name            string          `json:"name"`
	Title           string          `json:"title"`
	URLSlug         string          `json:"url_slug"`
	URL             string          `json:"url"`
	MetaDescription string          `json:"meta_description"`
	Sections        json.RawMessage `json:"sections"`
}

// cachedPage mirrors Page with the identifiers serialised.
type cachedPage struct {
	ID              uint            `json:"id"`
	CompanyID       uint            `json:"company_id"`
	Name            string          `json:"name"`
	Title           string          `json:"title"`
	URLSlug         string          `json:"url_slug"`
	URL             string          `json:"url"`
	MetaDescription string          `json:"meta_description"`
	Sections        json.RawMessage `json:"sections"`
}

// Document decodes the hydrated section document of the page.
func (p *Page) Document() sections.SectionMap {
	doc, err := sections.Decode(p.Sections)
	if err != nil {
		return sections.DefaultSections()
	}
	return doc
}

// Model is the subset of the stored page enquiry capture needs.
func (p *Page) Model() *models.LandingPage {
	return &models.LandingPage{ID: p.ID, CompanyID: p.CompanyID, Name: p.Name, URLSlug: p.URLSlug}
}

// Lookup returns the published page for slug, from the cache when it holds
// one.
func Lookup(ctx context.Context, slug string) (*Page, error) {
	key := cache.PublicPageKey(slug)

	var cached cachedPage
	err := cache.Pages.Get(ctx, key, &cached)
	if err == nil {
		page := Page(cached)
		return &page, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Log.Warn("page cache read failed", zap.String("slug", slug), zap.Error(err))
	}

	stored, err := landing.FindPublished(slug)
	if err != nil {
		return nil, err
	}

	page := Page{
		ID:              stored.ID,
		CompanyID:       stored.CompanyID,
		Name:            stored.Name,
		Title:           stored.Title,
		URLSlug:         stored.URLSlug,
		URL:             landing.PublicURL(stored.URLSlug),
		MetaDescription: stored.MetaDescription,
		Sections:        json.RawMessage(sections.Encode(landing.LoadSections(stored))),
	}
	if err := cache.Pages.Set(ctx, key, cachedPage(page)); err != nil {
		logger.Log.Warn("page cache write failed", zap.String("slug", slug), zap.Error(err))
	}
	return &page, nil
}

// CountView adds one view to the page. Failures are logged only; a lost
// view never fails the request.
func CountView(ctx context.Context, pageID uint) {
	err := database.DB.WithContext(ctx).Model(&models.LandingPage{}).
		Where("id = ?", pageID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		logger.Log.Warn("view count failed", zap.Uint("landing_page_id", pageID), zap.Error(err))
	}
}
