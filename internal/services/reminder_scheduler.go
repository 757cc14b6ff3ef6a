package services

import (
	"errors"
	"fmt"
	"time"

	"reviewloop/internal/models"
	"reviewloop/internal/utils"

	"github.com/google/uuid"
)

// DefaultReminderDelayDays is used when neither the request nor the wheel
// configuration specifies a delay
const DefaultReminderDelayDays = 2

// ErrInvalidInput marks scheduling requests the caller got wrong.
// Handlers map it to a 400; everything else is a storage failure.
var ErrInvalidInput = errors.New("invalid input")

// ReminderStore is the slice of persistence the reminder pipeline needs
type ReminderStore interface {
	FindPending(wheelID, userEmail string) (*models.ReviewReminder, error)
	Insert(reminder *models.ReviewReminder) error
	RescheduleDue(id string, dueAt time.Time) error
	ClaimDue(limit int, lockFor time.Duration, workerID string) ([]models.ClaimedReminder, error)
	MarkSent(id string, sentAt time.Time) error
	MarkCanceled(id string, canceledAt time.Time, reason string) error
	MarkFailed(id string, lastError string) error
}

// CampaignStore provides the read-only campaign/business lookups
type CampaignStore interface {
	GetWheel(id string) (*models.WheelProject, error)
	GetBusiness(id string) (*models.BusinessProfile, error)
	HasClickThrough(wheelID, userEmail string) (bool, error)
}

// ScheduleRequest asks for a review reminder after a wheel interaction
type ScheduleRequest struct {
	WheelID    string `json:"wheel_id"`
	BusinessID string `json:"business_id"`
	UserEmail  string `json:"user_email"`
	DelayDays  *int   `json:"delay_days,omitempty"`
	DueAt      string `json:"due_at,omitempty"` // RFC 3339, overrides DelayDays
}

// ScheduleResult reports what the scheduler did. Skipped is set (and ID
// empty) when the campaign opted out of review collection or is gone.
type ScheduleResult struct {
	ID      string    `json:"id,omitempty"`
	DueAt   time.Time `json:"due_at,omitempty"`
	Skipped string    `json:"skipped,omitempty"`
}

// ReminderScheduler idempotently registers future review reminders
type ReminderScheduler struct {
	reminders ReminderStore
	campaigns CampaignStore
	now       func() time.Time
}

func NewReminderScheduler(reminders ReminderStore, campaigns CampaignStore) *ReminderScheduler {
	return &ReminderScheduler{
		reminders: reminders,
		campaigns: campaigns,
		now:       time.Now,
	}
}

// Schedule validates the request and upserts a pending reminder. At most one
// pending row exists per (wheel, email): a second call moves the due
// timestamp instead of creating a duplicate.
func (s *ReminderScheduler) Schedule(req ScheduleRequest) (ScheduleResult, error) {
	if req.WheelID == "" || req.BusinessID == "" || req.UserEmail == "" {
		return ScheduleResult{}, fmt.Errorf("%w: wheel_id, business_id and user_email are required", ErrInvalidInput)
	}
	if !utils.ValidateEmail(req.UserEmail) {
		return ScheduleResult{}, fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}

	dueAt, err := s.resolveDueAt(req)
	if err != nil {
		return ScheduleResult{}, err
	}

	// Opted-out or vanished campaigns are a silent no-op, not an error
	wheel, err := s.campaigns.GetWheel(req.WheelID)
	if err != nil {
		return ScheduleResult{}, err
	}
	if wheel == nil || wheel.NoGoogleReview {
		return ScheduleResult{Skipped: models.CancelReasonOptOut}, nil
	}

	existing, err := s.reminders.FindPending(req.WheelID, req.UserEmail)
	if err != nil {
		return ScheduleResult{}, err
	}
	if existing != nil {
		if err := s.reminders.RescheduleDue(existing.ID, dueAt); err != nil {
			return ScheduleResult{}, err
		}
		return ScheduleResult{ID: existing.ID, DueAt: dueAt}, nil
	}

	reminder := &models.ReviewReminder{
		ID:         uuid.NewString(),
		WheelID:    req.WheelID,
		BusinessID: req.BusinessID,
		UserEmail:  req.UserEmail,
		DueAt:      dueAt,
		Status:     models.ReminderPending,
	}
	if err := s.reminders.Insert(reminder); err != nil {
		return ScheduleResult{}, err
	}
	return ScheduleResult{ID: reminder.ID, DueAt: dueAt}, nil
}

func (s *ReminderScheduler) resolveDueAt(req ScheduleRequest) (time.Time, error) {
	if req.DueAt != "" {
		dueAt, err := time.Parse(time.RFC3339, req.DueAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: due_at must be RFC 3339", ErrInvalidInput)
		}
		return dueAt, nil
	}

	delay := DefaultReminderDelayDays
	if req.DelayDays != nil {
		if *req.DelayDays < 0 {
			return time.Time{}, fmt.Errorf("%w: delay_days must not be negative", ErrInvalidInput)
		}
		delay = *req.DelayDays
	}
	return s.now().AddDate(0, 0, delay), nil
}
