package models

import (
	"time"

	"gorm.io/gorm"
)

// BusinessProfile holds the business identity used to compose review emails:
// display name plus the Google review link derived from the Place ID.
type BusinessProfile struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	OwnerUsername    string         `gorm:"size:30;not null;index" json:"owner_username"`
	DisplayName      string         `gorm:"size:120;not null" json:"display_name"`
	PlaceID          string         `gorm:"size:128" json:"place_id,omitempty"`
	FormattedAddress string         `gorm:"size:255" json:"formatted_address,omitempty"`
	ReviewLink       string         `gorm:"size:512" json:"review_link,omitempty"`
	LogoURL          string         `gorm:"size:512" json:"logo_url,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the BusinessProfile model
func (BusinessProfile) TableName() string {
	return "business_profile"
}

// UpsertBusinessRequest represents the data needed to create or update a business profile
type UpsertBusinessRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=120"`
	PlaceID     string `json:"place_id" binding:"omitempty,max=128"`
	ReviewLink  string `json:"review_link" binding:"omitempty,url,max=512"`
}

// PlaceInfo is the standardized Google Place lookup result returned to the dashboard
type PlaceInfo struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
	ReviewLink       string `json:"review_link"`
}
