package models

import (
	"time"

	"gorm.io/gorm"
)

type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;uniqueIndex" json:"name"`
	Description string         `json:"description"`
	Permissions []Permission   `gorm:"foreignKey:RoleID" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Permission struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RoleID    uint           `gorm:"index:idx_role_module_action" json:"role_id"`
	Module    string         `gorm:"size:50;index:idx_role_module_action" json:"module"` // LandingPage, Media, Enquiry
	Action    string         `gorm:"size:50;index:idx_role_module_action" json:"action"` // create, read, update, delete, publish
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
