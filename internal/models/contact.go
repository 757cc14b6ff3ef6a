package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactMessage is a stored contact-form submission from the marketing site
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Subject   string    `gorm:"size:200" json:"subject,omitempty"`
	Message   string    `gorm:"type:text;not null;size:4000" json:"message"`
	SenderIP  string    `gorm:"size:45" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook fills in the creation timestamp
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the ContactMessage model
func (ContactMessage) TableName() string {
	return "contact_message"
}

// ContactRequest represents a contact-form submission payload
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"omitempty,max=200"`
	Message string `json:"message" binding:"required,max=4000"`
}
