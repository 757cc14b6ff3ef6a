package models

import (
	"time"

	"gorm.io/gorm"
)

// RewardCode is a prize issued by a wheel spin. ClickedAt doubles as the
// click-through record: once set, the recipient has followed the review link
// and any pending reminder for the same (wheel, email) pair is redundant.
type RewardCode struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	WheelID    string     `gorm:"size:36;not null;index:idx_reward_wheel_email" json:"wheel_id"`
	BusinessID string     `gorm:"size:36;not null;index" json:"business_id"`
	UserEmail  string     `gorm:"size:255;not null;index:idx_reward_wheel_email" json:"user_email"`
	Code       string     `gorm:"uniqueIndex;size:16;not null" json:"code"`
	Prize      string     `gorm:"size:120;not null" json:"prize"`
	EmailedAt  *time.Time `json:"emailed_at,omitempty"`
	ClickedAt  *time.Time `gorm:"index" json:"clicked_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook fills in the creation timestamp
func (r *RewardCode) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the RewardCode model
func (RewardCode) TableName() string {
	return "reward_code"
}

// SpinRequest represents a completed wheel spin reported by the widget
type SpinRequest struct {
	WheelID   string `json:"wheel_id" binding:"required"`
	UserEmail string `json:"user_email" binding:"required,email"`
	Prize     string `json:"prize" binding:"required,max=120"`
}
