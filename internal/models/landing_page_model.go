package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PageStatus string

const (
	StatusDraft     PageStatus = "draft"
	StatusPublished PageStatus = "published"
)

type LandingPage struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CompanyID       uint           `gorm:"uniqueIndex:idx_company_slug;not null" json:"company_id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Title           string         `gorm:"size:255" json:"title"`
	URLSlug         string         `gorm:"size:255;uniqueIndex:idx_company_slug;not null" json:"url_slug"`
	Template        string         `gorm:"size:50" json:"template"`
	MetaDescription string         `gorm:"type:text" json:"meta_description"`
	Sections        datatypes.JSON `json:"sections"`
	Status          PageStatus     `gorm:"size:20;default:'draft';index" json:"status"`
	Version         int            `gorm:"not null;default:1" json:"version"`
	Views           int64          `gorm:"default:0" json:"views"`
	Conversions     int64          `gorm:"default:0" json:"conversions"`
	ConversionRate  float64        `gorm:"default:0" json:"conversion_rate"`
	PublishedAt     *time.Time     `json:"published_at,omitempty"`
	CreatedBy       uint           `gorm:"index" json:"created_by,omitempty"`
	Creator         *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// History actions.
const (
	ActionSave      = "save"
	ActionPublish   = "publish"
	ActionUnpublish = "unpublish"
)

type LandingPageHistory struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	LandingPageID uint         `gorm:"index" json:"landing_page_id"`
	LandingPage   *LandingPage `gorm:"foreignKey:LandingPageID" json:"landing_page,omitempty"`
	Action        string       `gorm:"size:20" json:"action"`
	FromStatus    PageStatus   `gorm:"size:20" json:"from_status"`
	ToStatus      PageStatus   `gorm:"size:20" json:"to_status"`
	Version       int          `json:"version"`
	ChangedBy     uint         `json:"changed_by"`
	User          *User        `gorm:"foreignKey:ChangedBy" json:"user,omitempty"`
	Comment       string       `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time    `json:"created_at"`
}

type Enquiry struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	LandingPageID uint           `gorm:"index" json:"landing_page_id"`
	CompanyID     uint           `gorm:"index" json:"company_id"`
	Name          string         `gorm:"size:255" json:"name"`
	Email         string         `gorm:"size:255" json:"email"`
	Phone         string         `gorm:"size:50" json:"phone"`
	City          string         `gorm:"size:100" json:"city"`
	Destination   string         `gorm:"size:255" json:"destination"`
	IP            string         `gorm:"size:64" json:"ip"`
	UserAgent     string         `gorm:"size:500" json:"user_agent"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
