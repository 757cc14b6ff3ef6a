package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WheelProject represents a spin-the-wheel review campaign
type WheelProject struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OwnerUsername  string         `gorm:"size:30;not null;index" json:"owner_username"`
	BusinessID     string         `gorm:"size:36;not null;index" json:"business_id"`
	Name           string         `gorm:"size:120;not null" json:"name"`
	Language       string         `gorm:"size:8;not null;default:en" json:"language"`
	NoGoogleReview bool           `gorm:"not null;default:false" json:"no_google_review"`
	Segments       datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"segments"`
	LogoURL        string         `gorm:"size:512" json:"logo_url,omitempty"`
	ReminderDelay  int            `gorm:"not null;default:2" json:"reminder_delay_days"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the WheelProject model
func (WheelProject) TableName() string {
	return "wheel_project"
}

// WheelSegment is one slice of the wheel as stored in the Segments JSONB column
type WheelSegment struct {
	Label  string `json:"label" binding:"required"`
	Prize  string `json:"prize" binding:"required"`
	Weight int    `json:"weight" binding:"required,min=1"`
}

// CreateWheelRequest represents the data needed to create a wheel project
type CreateWheelRequest struct {
	Name       string         `json:"name" binding:"required,max=120"`
	BusinessID string         `json:"business_id" binding:"required"`
	Language   string         `json:"language" binding:"omitempty,max=8"`
	Segments   []WheelSegment `json:"segments" binding:"required,min=1,dive"`
}

// UpdateWheelRequest represents a partial update to a wheel project
type UpdateWheelRequest struct {
	Name           *string         `json:"name" binding:"omitempty,max=120"`
	Language       *string         `json:"language" binding:"omitempty,max=8"`
	NoGoogleReview *bool           `json:"no_google_review"`
	ReminderDelay  *int            `json:"reminder_delay_days" binding:"omitempty,min=0,max=30"`
	Segments       *[]WheelSegment `json:"segments" binding:"omitempty,min=1,dive"`
}
