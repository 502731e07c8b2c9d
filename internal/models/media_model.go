package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MediaFile struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CompanyID  uint           `gorm:"index" json:"company_id"`
	FileName   string         `gorm:"size:255" json:"file_name"`
	StorageKey string         `gorm:"size:500" json:"-"`
	URL        string         `gorm:"size:500" json:"url"`
	Type       string         `gorm:"size:100;index" json:"type"`
	Size       int64          `json:"size"`
	Width      *int           `json:"width,omitempty"`
	Height     *int           `json:"height,omitempty"`
	Storage    string         `gorm:"size:20" json:"storage"`
	Tags       datatypes.JSON `json:"tags,omitempty"`
	UploadedBy uint           `gorm:"index" json:"uploaded_by"`
	Uploader   *User          `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
