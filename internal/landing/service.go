// Package landing manages landing pages and the editor API over their
// section documents.
package landing

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Kyz7/landing/internal/cache"
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/sections"
	"github.com/Kyz7/landing/internal/validation"
	"github.com/Kyz7/landing/internal/workflow"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = workflow.ErrPageNotFound
	ErrSlugTaken    = errors.New("url slug already in use")
	ErrInvalidSlug  = errors.New("url slug may contain only lowercase letters, digits and hyphens")
	ErrStaleVersion = errors.New("landing page was modified by someone else, reload and try again")
	ErrBadSections  = errors.New("sections must be a JSON object")
	ErrBadTemplate  = errors.New("unknown template")
)

// PublicBaseURL prefixes the public URL reported for a page.
var PublicBaseURL = ""

type CreateRequest struct {
	Name            string          `json:"name" validate:"required,max=255"`
	Title           string          `json:"title" validate:"max=255"`
	URLSlug         string          `json:"url_slug" validate:"omitempty,slug,max=255"`
	Template        string          `json:"template" validate:"omitempty,max=50"`
	MetaDescription string          `json:"meta_description" validate:"max=500"`
	Status          string          `json:"status" validate:"omitempty,oneof=draft published"`
	Sections        json.RawMessage `json:"sections"`
}

// UpdateRequest replaces whatever it carries. Version, when present, must
// match the stored version or the update is rejected.
type UpdateRequest struct {
	Name            *string         `json:"name" validate:"omitempty,min=1,max=255"`
	Title           *string         `json:"title" validate:"omitempty,max=255"`
	URLSlug         *string         `json:"url_slug" validate:"omitempty,slug,max=255"`
	MetaDescription *string         `json:"meta_description" validate:"omitempty,max=500"`
	Sections        json.RawMessage `json:"sections"`
	Version         *int            `json:"version"`
}

type ListFilter struct {
	Status string
	Search string
}

// PageDetail is the editor view of a page with its hydrated document.
type PageDetail struct {
	ID              uint                `json:"id"`
	Name            string              `json:"name"`
	Title           string              `json:"title"`
	URL             string              `json:"url"`
	URLSlug         string              `json:"url_slug"`
	Template        string              `json:"template"`
	MetaDescription string              `json:"meta_description"`
	Status          models.PageStatus   `json:"status"`
	Version         int                 `json:"version"`
	Views           int64               `json:"views"`
	Conversions     int64               `json:"conversions"`
	ConversionRate  float64             `json:"conversion_rate"`
	PublishedAt     *time.Time          `json:"published_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Sections        sections.SectionMap `json:"sections"`
}

func PublicURL(slug string) string {
	return PublicBaseURL + "/landing-page/" + slug
}

func Detail(page *models.LandingPage) PageDetail {
	return PageDetail{
		ID:              page.ID,
		Name:            page.Name,
		Title:           page.Title,
		URL:             PublicURL(page.URLSlug),
		URLSlug:         page.URLSlug,
		Template:        page.Template,
		MetaDescription: page.MetaDescription,
		Status:          page.Status,
		Version:         page.Version,
		Views:           page.Views,
		Conversions:     page.Conversions,
		ConversionRate:  page.ConversionRate,
		PublishedAt:     page.PublishedAt,
		CreatedAt:       page.CreatedAt,
		UpdatedAt:       page.UpdatedAt,
		Sections:        LoadSections(page),
	}
}

// LoadSections decodes and hydrates the stored document. A column that does
// not hold a JSON object yields the default skeleton.
func LoadSections(page *models.LandingPage) sections.SectionMap {
	doc, err := sections.Decode(page.Sections)
	if err != nil {
		logger.Log.Warn("unreadable section document",
			zap.Uint("landing_page_id", page.ID), zap.Error(err))
		return sections.DefaultSections()
	}
	return sections.Hydrate(doc)
}

// decodeRequestSections parses a client document. Absent or null means no
// change and is reported with ok false.
func decodeRequestSections(raw json.RawMessage) (doc sections.SectionMap, ok bool, err error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return sections.SectionMap{}, false, nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return sections.SectionMap{}, false, ErrBadSections
	}
	doc, err = sections.Decode(raw)
	if err != nil {
		return sections.SectionMap{}, false, errors.Wrap(ErrBadSections, err.Error())
	}
	return doc, true, nil
}

func List(companyID uint, filter ListFilter, offset, limit int) ([]models.LandingPage, int64, error) {
	query := database.DB.Model(&models.LandingPage{}).Where("company_id = ?", companyID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(title) LIKE ? OR url_slug LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count landing pages")
	}

	var pages []models.LandingPage
	err := query.Omit("sections").
		Order("updated_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&pages).Error
	return pages, total, errors.Wrap(err, "list landing pages")
}

func Get(companyID, id uint) (*models.LandingPage, error) {
	var page models.LandingPage
	err := database.DB.Where("id = ? AND company_id = ?", id, companyID).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load landing page")
	}
	return &page, nil
}

// FindPublished looks a page up by its public slug.
func FindPublished(slug string) (*models.LandingPage, error) {
	var page models.LandingPage
	err := database.DB.
		Where("url_slug = ? AND status = ?", slug, models.StatusPublished).
		Order("id").
		First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load landing page")
	}
	return &page, nil
}

func slugTaken(companyID uint, slug string, exceptID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.LandingPage{}).
		Where("company_id = ? AND url_slug = ? AND id <> ?", companyID, slug, exceptID).
		Count(&count).Error
	return count > 0, err
}

// Create stores a new page, a draft unless Status asks for published. Its
// document is the given sections, or the preset named by Template.
func Create(ctx context.Context, companyID, userID uint, req CreateRequest) (*models.LandingPage, error) {
	template := req.Template
	if template == "" {
		template = sections.PresetLeadCapture
	}
	if !sections.IsPreset(template) {
		return nil, ErrBadTemplate
	}

	slug := req.URLSlug
	if slug == "" {
		slug = validation.Slugify(req.Name)
	}
	if !validation.IsSlug(slug) {
		return nil, ErrInvalidSlug
	}
	taken, err := slugTaken(companyID, slug, 0)
	if err != nil {
		return nil, errors.Wrap(err, "check slug")
	}
	if taken {
		return nil, ErrSlugTaken
	}

	doc, ok, err := decodeRequestSections(req.Sections)
	if err != nil {
		return nil, err
	}
	if ok {
		doc = sections.Hydrate(doc)
	} else {
		doc, err = sections.Preset(template)
		if err != nil {
			return nil, errors.Wrap(err, "load preset")
		}
	}

	page := models.LandingPage{
		CompanyID:       companyID,
		Name:            validation.SanitizeString(req.Name),
		Title:           validation.SanitizeString(req.Title),
		URLSlug:         slug,
		Template:        template,
		MetaDescription: validation.SanitizeString(req.MetaDescription),
		Sections:        datatypes.JSON(sections.Encode(doc)),
		Status:          models.StatusDraft,
		Version:         1,
		CreatedBy:       userID,
	}
	publish := req.Status == string(models.StatusPublished)
	if publish {
		now := time.Now()
		page.Status = models.StatusPublished
		page.PublishedAt = &now
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&page).Error; err != nil {
			return errors.Wrap(err, "create landing page")
		}
		if !publish {
			return nil
		}
		return workflow.Record(tx, models.LandingPageHistory{
			LandingPageID: page.ID,
			Action:        models.ActionPublish,
			FromStatus:    models.StatusDraft,
			ToStatus:      models.StatusPublished,
			Version:       page.Version,
			ChangedBy:     userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Update applies metadata changes and, when sections are present, replaces
// the whole document through the same save path the editor uses.
func Update(ctx context.Context, companyID, userID, id uint, req UpdateRequest) (*models.LandingPage, error) {
	page, err := Get(companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != page.Version {
		return nil, ErrStaleVersion
	}

	doc, hasSections, err := decodeRequestSections(req.Sections)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = validation.SanitizeString(*req.Name)
	}
	if req.Title != nil {
		updates["title"] = validation.SanitizeString(*req.Title)
	}
	if req.MetaDescription != nil {
		updates["meta_description"] = validation.SanitizeString(*req.MetaDescription)
	}
	oldSlug := page.URLSlug
	if req.URLSlug != nil && *req.URLSlug != page.URLSlug {
		taken, err := slugTaken(companyID, *req.URLSlug, page.ID)
		if err != nil {
			return nil, errors.Wrap(err, "check slug")
		}
		if taken {
			return nil, ErrSlugTaken
		}
		updates["url_slug"] = *req.URLSlug
	}

	if hasSections {
		// Metadata is written in the same statement as the document.
		persister := dbPersister{companyID: companyID, userID: userID, columns: updates}
		store := sections.NewStore(page.ID, sections.Hydrate(doc), page.Version, persister)
		if err := store.Save(ctx); err != nil {
			return nil, err
		}
		if len(updates) > 0 {
			invalidate(ctx, oldSlug)
		}
	} else if len(updates) > 0 {
		if err := database.DB.WithContext(ctx).Model(&models.LandingPage{}).
			Where("id = ?", page.ID).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update landing page")
		}
		invalidate(ctx, oldSlug)
	}

	return Get(companyID, id)
}

// Delete removes the page and its history. Enquiries stay for the CRM.
func Delete(ctx context.Context, companyID, id uint) error {
	page, err := Get(companyID, id)
	if err != nil {
		return err
	}
	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("landing_page_id = ?", page.ID).Delete(&models.LandingPageHistory{}).Error; err != nil {
			return errors.Wrap(err, "delete history")
		}
		return errors.Wrap(tx.Unscoped().Delete(page).Error, "delete landing page")
	})
	if err != nil {
		return err
	}
	invalidate(ctx, page.URLSlug)
	return nil
}

// OpenEditor loads a page into a Store that saves through the database.
func OpenEditor(companyID, userID, id uint) (*sections.Store, *models.LandingPage, error) {
	page, err := Get(companyID, id)
	if err != nil {
		return nil, nil, err
	}
	store := sections.NewStore(page.ID, LoadSections(page), page.Version, Persister(companyID, userID))
	return store, page, nil
}

// Edit runs op against a freshly loaded Store and saves the result when op
// changed anything.
func Edit(ctx context.Context, companyID, userID, id uint, op func(*sections.Store) error) (*sections.Store, error) {
	store, _, err := OpenEditor(companyID, userID, id)
	if err != nil {
		return nil, err
	}
	if err := op(store); err != nil {
		return nil, err
	}
	if store.Dirty() {
		if err := store.Save(ctx); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func invalidate(ctx context.Context, slug string) {
	if err := cache.Pages.InvalidatePage(ctx, slug); err != nil {
		logger.Log.Warn("page cache invalidation failed", zap.String("slug", slug), zap.Error(err))
	}
}
