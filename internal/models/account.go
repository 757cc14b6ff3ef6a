package models

import (
	"time"

	"gorm.io/gorm"
)

// TrialDuration is the length of the free trial granted to new accounts
const TrialDuration = 14 * 24 * time.Hour

// Account represents a dashboard user (a business owner signing in with Google)
type Account struct {
	Username              string         `gorm:"primaryKey;size:30;not null" json:"username"`
	GoogleID              string         `gorm:"uniqueIndex;size:128;not null" json:"-"`
	Email                 string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	EmailVerified         bool           `gorm:"not null;default:false" json:"email_verified"`
	FullName              string         `gorm:"size:120" json:"full_name"`
	AvatarURL             string         `gorm:"size:512" json:"avatar_url,omitempty"`
	Locale                string         `gorm:"size:8" json:"locale,omitempty"`
	EncryptedRefreshToken string         `gorm:"type:text" json:"-"`
	TokenExpiry           time.Time      `json:"-"`
	TrialEndsAt           time.Time      `gorm:"not null;index" json:"trial_ends_at"`
	TrialReminderSentAt   *time.Time     `json:"-"`
	DateJoined            time.Time      `gorm:"not null" json:"date_joined"`
	LastLogin             time.Time      `gorm:"not null" json:"last_login"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook is called before creating a new account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	if a.DateJoined.IsZero() {
		a.DateJoined = now
	}
	if a.LastLogin.IsZero() {
		a.LastLogin = now
	}
	if a.TrialEndsAt.IsZero() {
		a.TrialEndsAt = now.Add(TrialDuration)
	}
	return nil
}

// BeforeSave hook is called before saving the account
func (a *Account) BeforeSave(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "account"
}

// CreateProfileRequest finalizes a temporary account after the first Google sign-in
type CreateProfileRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=30"`
}
