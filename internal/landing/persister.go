package landing

import (
	"context"
	"time"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/metrics"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/sections"
	"github.com/Kyz7/landing/internal/workflow"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type dbPersister struct {
	companyID uint
	userID    uint
	// columns are written in the same statement as the document.
	columns map[string]interface{}
}

// Persister saves section documents for companyID on behalf of userID.
// A save only succeeds against the version it was loaded at.
func Persister(companyID, userID uint) sections.Persister {
	return dbPersister{companyID: companyID, userID: userID}
}

func (p dbPersister) SaveSections(ctx context.Context, pageID uint, doc sections.SectionMap, version int) (int, error) {
	started := time.Now()
	var slug string

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		for column, value := range p.columns {
			updates[column] = value
		}
		updates["sections"] = datatypes.JSON(sections.Encode(doc))
		updates["version"] = gorm.Expr("version + 1")

		result := tx.Model(&models.LandingPage{}).
			Where("id = ? AND company_id = ? AND version = ?", pageID, p.companyID, version).
			Updates(updates)
		if result.Error != nil {
			return errors.Wrap(result.Error, "save sections")
		}

		var page models.LandingPage
		err := tx.Select("id", "status", "url_slug", "version").
			Where("id = ? AND company_id = ?", pageID, p.companyID).
			First(&page).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return errors.Wrap(err, "reload landing page")
		}
		if result.RowsAffected == 0 {
			return ErrStaleVersion
		}
		slug = page.URLSlug

		return workflow.Record(tx, models.LandingPageHistory{
			LandingPageID: pageID,
			Action:        models.ActionSave,
			FromStatus:    page.Status,
			ToStatus:      page.Status,
			Version:       version + 1,
			ChangedBy:     p.userID,
		})
	})
	metrics.SectionsSaved(time.Since(started).Seconds(), err)
	if err != nil {
		return version, err
	}

	invalidate(ctx, slug)
	return version + 1, nil
}
