// Package enquiry captures visitor enquiries from public landing pages.
package enquiry

import (
	"context"
	"strings"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/metrics"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/validation"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Input is one submitted enquiry form.
type Input struct {
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Email       string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone" form:"phone" validate:"omitempty,max=50"`
	City        string `json:"city" form:"city" validate:"max=100"`
	Destination string `json:"destination" form:"destination" validate:"max=255"`
}

// ValidationError lists the rejected fields of an Input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid enquiry"
}

// Message is a single line suitable for a form notice.
func (e *ValidationError) Message() string {
	for _, key := range []string{"name", "contact", "email", "phone", "city", "destination"} {
		if msg, ok := e.Fields[key]; ok {
			if key == "contact" {
				return msg
			}
			return strings.ToUpper(key[:1]) + key[1:] + " " + msg
		}
	}
	return "Please check the form and try again"
}

// Normalize strips markup and surrounding space from every field.
func Normalize(in Input) Input {
	return Input{
		Name:        validation.SanitizeString(in.Name),
		Email:       strings.ToLower(validation.SanitizeString(in.Email)),
		Phone:       validation.SanitizeString(in.Phone),
		City:        validation.SanitizeString(in.City),
		Destination: validation.SanitizeString(in.Destination),
	}
}

// Validate requires a name and at least one way to reach the visitor.
func Validate(in Input) error {
	fields := map[string]string{}
	if err := validation.Struct(in); err != nil {
		fields = validation.FormatErrors(err)
	}
	if in.Email == "" && in.Phone == "" {
		fields["contact"] = "Email or phone is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ConversionRate is conversions per hundred views, zero without views.
func ConversionRate(conversions, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(conversions) / float64(views) * 100
}

// Submit validates and stores an enquiry for page and updates the page's
// conversion counters in the same transaction.
func Submit(ctx context.Context, page *models.LandingPage, in Input, ip, userAgent string) (*models.Enquiry, error) {
	in = Normalize(in)
	if err := Validate(in); err != nil {
		metrics.EnquiryReceived(err)
		return nil, err
	}

	if len(userAgent) > 500 {
		userAgent = userAgent[:500]
	}
	enquiry := models.Enquiry{
		LandingPageID: page.ID,
		CompanyID:     page.CompanyID,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		City:          in.City,
		Destination:   in.Destination,
		IP:            ip,
		UserAgent:     userAgent,
	}

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enquiry).Error; err != nil {
			return errors.Wrap(err, "store enquiry")
		}
		if err := tx.Model(&models.LandingPage{}).Where("id = ?", page.ID).
			UpdateColumn("conversions", gorm.Expr("conversions + 1")).Error; err != nil {
			return errors.Wrap(err, "count conversion")
		}

		var counts models.LandingPage
		if err := tx.Select("id", "views", "conversions").First(&counts, page.ID).Error; err != nil {
			return errors.Wrap(err, "reload counters")
		}
		rate := ConversionRate(counts.Conversions, counts.Views)
		page.Conversions, page.ConversionRate = counts.Conversions, rate
		return errors.Wrap(tx.Model(&models.LandingPage{}).Where("id = ?", page.ID).
			UpdateColumn("conversion_rate", rate).Error, "update conversion rate")
	})
	metrics.EnquiryReceived(err)
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// ListForPage returns a page's enquiries, newest first. The page must
// belong to companyID.
func ListForPage(companyID, pageID uint, offset, limit int) ([]models.Enquiry, int64, error) {
	query := database.DB.Model(&models.Enquiry{}).
		Where("company_id = ? AND landing_page_id = ?", companyID, pageID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var enquiries []models.Enquiry
	err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&enquiries).Error
	return enquiries, total, err
}
