package models

import (
	"time"

	"gorm.io/gorm"
)

// ReminderStatus represents the lifecycle state of a review reminder
type ReminderStatus string

const (
	ReminderPending  ReminderStatus = "pending"
	ReminderSent     ReminderStatus = "sent"
	ReminderCanceled ReminderStatus = "canceled"
	ReminderFailed   ReminderStatus = "failed"
)

// Cancellation reasons recorded on canceled reminders
const (
	CancelReasonOptOut       = "no_google_review"
	CancelReasonClickThrough = "already_clicked"
	CancelReasonNoReviewLink = "no_review_link"
	CancelReasonUnsubscribed = "unsubscribed"
)

// IsTerminal reports whether the status will never be processed again
func (s ReminderStatus) IsTerminal() bool {
	return s == ReminderSent || s == ReminderCanceled || s == ReminderFailed
}

// ReviewReminder represents a scheduled "please leave a review" follow-up email.
// At most one pending reminder exists per (wheel_id, user_email) pair; the
// scheduler enforces this with a lookup-then-upsert rather than a DB constraint.
type ReviewReminder struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	WheelID      string         `gorm:"size:36;not null;index:idx_reminder_wheel_email" json:"wheel_id"`
	BusinessID   string         `gorm:"size:36;not null;index" json:"business_id"`
	UserEmail    string         `gorm:"size:255;not null;index:idx_reminder_wheel_email" json:"user_email"`
	DueAt        time.Time      `gorm:"not null;index:idx_reminder_status_due,priority:2" json:"due_at"`
	Status       ReminderStatus `gorm:"size:16;not null;default:pending;index:idx_reminder_status_due,priority:1" json:"status"`
	LockedBy     string         `gorm:"size:64" json:"-"`
	LockedAt     *time.Time     `gorm:"index" json:"-"`
	Attempts     int            `gorm:"not null;default:0" json:"attempts"`
	LastError    string         `gorm:"type:text" json:"last_error,omitempty"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	CanceledAt   *time.Time     `json:"canceled_at,omitempty"`
	CancelReason string         `gorm:"size:32" json:"cancel_reason,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook fills in timestamps
func (r *ReviewReminder) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	if r.Status == "" {
		r.Status = ReminderPending
	}
	return nil
}

// TableName specifies the table name for the ReviewReminder model
func (ReviewReminder) TableName() string {
	return "review_reminder"
}

// ClaimedReminder is the denormalized row set returned by the atomic batch
// claim: just the fields the processor needs to work a single reminder.
type ClaimedReminder struct {
	ID         string `json:"id"`
	WheelID    string `json:"wheel_id"`
	BusinessID string `json:"business_id"`
	UserEmail  string `json:"user_email"`
}
