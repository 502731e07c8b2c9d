// Package workflow moves landing pages between draft and published and keeps
// their history.
package workflow

import (
	"context"
	"time"

	"github.com/Kyz7/landing/internal/cache"
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound      = errors.New("landing page not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// transitions maps an action to the status it requires and the status it
// produces.
var transitions = map[string][2]models.PageStatus{
	models.ActionPublish:   {models.StatusDraft, models.StatusPublished},
	models.ActionUnpublish: {models.StatusPublished, models.StatusDraft},
}

// ChangeStatus applies a publish or unpublish action and records it.
func ChangeStatus(ctx context.Context, pageID, companyID, userID uint, action, comment string) (*models.LandingPage, error) {
	step, ok := transitions[action]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidTransition, "unknown action %q", action)
	}

	var page models.LandingPage
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND company_id = ?", pageID, companyID).First(&page).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPageNotFound
			}
			return errors.Wrap(err, "load landing page")
		}

		from, to := step[0], step[1]
		if page.Status != from {
			return errors.Wrapf(ErrInvalidTransition, "cannot %s a %s page", action, page.Status)
		}

		updates := map[string]interface{}{"status": to}
		if to == models.StatusPublished {
			now := time.Now()
			updates["published_at"] = &now
			page.PublishedAt = &now
		}
		if err := tx.Model(&page).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update status")
		}
		page.Status = to

		return Record(tx, models.LandingPageHistory{
			LandingPageID: page.ID,
			Action:        action,
			FromStatus:    from,
			ToStatus:      to,
			Version:       page.Version,
			ChangedBy:     userID,
			Comment:       comment,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := cache.Pages.InvalidatePage(ctx, page.URLSlug); err != nil {
		logger.Log.Warn("page cache invalidation failed", zap.String("slug", page.URLSlug), zap.Error(err))
	}
	return &page, nil
}

func Publish(ctx context.Context, pageID, companyID, userID uint, comment string) (*models.LandingPage, error) {
	return ChangeStatus(ctx, pageID, companyID, userID, models.ActionPublish, comment)
}

func Unpublish(ctx context.Context, pageID, companyID, userID uint, comment string) (*models.LandingPage, error) {
	return ChangeStatus(ctx, pageID, companyID, userID, models.ActionUnpublish, comment)
}

// Record writes one history row inside tx.
func Record(tx *gorm.DB, entry models.LandingPageHistory) error {
	return errors.Wrap(tx.Create(&entry).Error, "record history")
}

// History lists a page's status changes and saves, newest first.
func History(pageID, companyID uint) ([]models.LandingPageHistory, error) {
	var count int64
	if err := database.DB.Model(&models.LandingPage{}).
		Where("id = ? AND company_id = ?", pageID, companyID).
		Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "load landing page")
	}
	if count == 0 {
		return nil, ErrPageNotFound
	}

	var history []models.LandingPageHistory
	err := database.DB.
		Where("landing_page_id = ?", pageID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&history).Error
	return history, errors.Wrap(err, "load history")
}
