package database

import (
	"errors"
	"fmt"
	"time"

	"reviewloop/internal/models"

	"gorm.io/gorm"
)

// Store is the gorm-backed persistence layer consumed by the reminder
// pipeline. The scheduler and processor only see the interfaces declared in
// internal/services, so tests can substitute in-memory fakes.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// claimQuery atomically locks a batch of due reminders for one worker.
// Only rows whose lock is absent or expired are eligible; SKIP LOCKED keeps
// two concurrent processor runs from ever claiming the same row.
const claimQuery = `
UPDATE review_reminder SET locked_by = ?, locked_at = NOW(), updated_at = NOW()
WHERE id IN (
	SELECT id FROM review_reminder
	WHERE status = 'pending'
	  AND due_at <= NOW()
	  AND (locked_at IS NULL OR locked_at < NOW() - (? * INTERVAL '1 second'))
	ORDER BY due_at
	LIMIT ?
	FOR UPDATE SKIP LOCKED
)
RETURNING id, wheel_id, business_id, user_email`

// ClaimDue locks and returns up to limit due reminders for the given worker
func (s *Store) ClaimDue(limit int, lockFor time.Duration, workerID string) ([]models.ClaimedReminder, error) {
	var claimed []models.ClaimedReminder
	if err := s.db.Raw(claimQuery, workerID, int(lockFor.Seconds()), limit).Scan(&claimed).Error; err != nil {
		return nil, fmt.Errorf("failed to claim due reminders: %w", err)
	}
	return claimed, nil
}

// FindPending returns the pending reminder for a (wheel, email) pair, or nil
func (s *Store) FindPending(wheelID, userEmail string) (*models.ReviewReminder, error) {
	var reminder models.ReviewReminder
	err := s.db.Where("wheel_id = ? AND user_email = ? AND status = ?",
		wheelID, userEmail, models.ReminderPending).First(&reminder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up pending reminder: %w", err)
	}
	return &reminder, nil
}

// Insert stores a new reminder row
func (s *Store) Insert(reminder *models.ReviewReminder) error {
	if err := s.db.Create(reminder).Error; err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// RescheduleDue moves an existing pending reminder's due timestamp
func (s *Store) RescheduleDue(id string, dueAt time.Time) error {
	err := s.db.Model(&models.ReviewReminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"due_at":     dueAt,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to reschedule reminder %s: %w", id, err)
	}
	return nil
}

// MarkSent records a successful send. Terminal status, send timestamp,
// attempt counter and lock release happen in a single row update.
func (s *Store) MarkSent(id string, sentAt time.Time) error {
	err := s.db.Model(&models.ReviewReminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.ReminderSent,
			"sent_at":    sentAt,
			"attempts":   gorm.Expr("attempts + 1"),
			"locked_by":  "",
			"locked_at":  nil,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark reminder %s sent: %w", id, err)
	}
	return nil
}

// MarkCanceled records a deliberate non-send and releases the lock
func (s *Store) MarkCanceled(id string, canceledAt time.Time, reason string) error {
	err := s.db.Model(&models.ReviewReminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.ReminderCanceled,
			"canceled_at":   canceledAt,
			"cancel_reason": reason,
			"locked_by":     "",
			"locked_at":     nil,
			"updated_at":    time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark reminder %s canceled: %w", id, err)
	}
	return nil
}

// MarkFailed records a failed processing attempt and releases the lock
func (s *Store) MarkFailed(id string, lastError string) error {
	err := s.db.Model(&models.ReviewReminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.ReminderFailed,
			"last_error": lastError,
			"attempts":   gorm.Expr("attempts + 1"),
			"locked_by":  "",
			"locked_at":  nil,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark reminder %s failed: %w", id, err)
	}
	return nil
}

// CancelPendingFor cancels every pending reminder for a (wheel, email) pair.
// Used by the unsubscribe handler; returns the number of rows touched.
func (s *Store) CancelPendingFor(wheelID, userEmail, reason string) (int64, error) {
	result := s.db.Model(&models.ReviewReminder{}).
		Where("wheel_id = ? AND user_email = ? AND status = ?",
			wheelID, userEmail, models.ReminderPending).
		Updates(map[string]interface{}{
			"status":        models.ReminderCanceled,
			"canceled_at":   time.Now(),
			"cancel_reason": reason,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cancel pending reminders: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetWheel returns a wheel project by ID, or nil when it does not exist
func (s *Store) GetWheel(id string) (*models.WheelProject, error) {
	var wheel models.WheelProject
	err := s.db.Where("id = ?", id).First(&wheel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up wheel %s: %w", id, err)
	}
	return &wheel, nil
}

// GetBusiness returns a business profile by ID, or nil when it does not exist
func (s *Store) GetBusiness(id string) (*models.BusinessProfile, error) {
	var business models.BusinessProfile
	err := s.db.Where("id = ?", id).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up business %s: %w", id, err)
	}
	return &business, nil
}

// HasClickThrough reports whether the recipient already followed a review
// link for this wheel, which makes a reminder redundant
func (s *Store) HasClickThrough(wheelID, userEmail string) (bool, error) {
	var count int64
	err := s.db.Model(&models.RewardCode{}).
		Where("wheel_id = ? AND user_email = ? AND clicked_at IS NOT NULL",
			wheelID, userEmail).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check click-through: %w", err)
	}
	return count > 0, nil
}
