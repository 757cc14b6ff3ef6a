package services

import (
	"fmt"
	"log"
	"time"

	"reviewloop/internal/models"
	"reviewloop/internal/utils"
)

// Processor defaults, overridable through ProcessorConfig
const (
	DefaultBatchSize    = 50
	DefaultLockDuration = 15 * time.Minute
	maxStoredErrorLen   = 500
)

// EmailSender dispatches a composed reminder email
type EmailSender interface {
	SendReviewReminder(toEmail string, email RenderedEmail) error
}

// UnsubscribeLinkFunc builds the opt-out link embedded in reminder emails
type UnsubscribeLinkFunc func(wheelID, userEmail string) (string, error)

// ProcessorConfig is resolved from the environment at the process boundary
// and injected here; business logic never reads env vars directly.
type ProcessorConfig struct {
	BatchSize    int
	LockDuration time.Duration
	WorkerID     string
}

func (c ProcessorConfig) withDefaults() ProcessorConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.LockDuration <= 0 {
		c.LockDuration = DefaultLockDuration
	}
	if c.WorkerID == "" {
		c.WorkerID = "processor"
	}
	return c
}

// ProcessStats aggregates one processor invocation
type ProcessStats struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Canceled  int `json:"canceled"`
	Failed    int `json:"failed"`
}

// ReminderProcessor converts due reminders into sent emails or cancellations.
// Correctness rests on the store's atomic claim: each claimed row is owned by
// exactly one invocation until its lock expires.
type ReminderProcessor struct {
	reminders ReminderStore
	campaigns CampaignStore
	sender    EmailSender
	unsubLink UnsubscribeLinkFunc
	cfg       ProcessorConfig
	now       func() time.Time
}

func NewReminderProcessor(reminders ReminderStore, campaigns CampaignStore, sender EmailSender, unsubLink UnsubscribeLinkFunc, cfg ProcessorConfig) *ReminderProcessor {
	return &ReminderProcessor{
		reminders: reminders,
		campaigns: campaigns,
		sender:    sender,
		unsubLink: unsubLink,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

// Run claims one batch of due reminders and works through it sequentially.
// A single reminder's failure never aborts the rest of the batch; only a
// failure of the claim itself surfaces as an error.
func (p *ReminderProcessor) Run() (ProcessStats, error) {
	var stats ProcessStats

	claimed, err := p.reminders.ClaimDue(p.cfg.BatchSize, p.cfg.LockDuration, p.cfg.WorkerID)
	if err != nil {
		return stats, err
	}
	if len(claimed) == 0 {
		return stats, nil
	}

	for _, item := range claimed {
		stats.Processed++
		outcome := p.processOne(item)
		switch outcome {
		case models.ReminderSent:
			stats.Sent++
		case models.ReminderCanceled:
			stats.Canceled++
		case models.ReminderFailed:
			stats.Failed++
		}
	}

	log.Printf("Reminder run: processed=%d sent=%d canceled=%d failed=%d",
		stats.Processed, stats.Sent, stats.Canceled, stats.Failed)
	return stats, nil
}

// processOne decides and records the terminal status for a single claimed
// reminder. Every branch ends in exactly one terminal transition.
func (p *ReminderProcessor) processOne(item models.ClaimedReminder) models.ReminderStatus {
	// Re-check the opt-out flag: it may have been set after scheduling
	wheel, err := p.campaigns.GetWheel(item.WheelID)
	if err != nil {
		return p.fail(item.ID, err)
	}
	if wheel == nil || wheel.NoGoogleReview {
		return p.cancel(item.ID, models.CancelReasonOptOut)
	}

	clicked, err := p.campaigns.HasClickThrough(item.WheelID, item.UserEmail)
	if err != nil {
		return p.fail(item.ID, err)
	}
	if clicked {
		return p.cancel(item.ID, models.CancelReasonClickThrough)
	}

	business, err := p.campaigns.GetBusiness(item.BusinessID)
	if err != nil {
		return p.fail(item.ID, err)
	}
	if business == nil || business.ReviewLink == "" {
		return p.cancel(item.ID, models.CancelReasonNoReviewLink)
	}

	reviewLink, err := TrackedReviewLink(business.ReviewLink, item.ID)
	if err != nil {
		return p.fail(item.ID, err)
	}
	unsubLink, err := p.unsubLink(item.WheelID, item.UserEmail)
	if err != nil {
		return p.fail(item.ID, err)
	}

	email := RenderReviewReminder(ParseLanguage(wheel.Language), business.DisplayName, reviewLink, unsubLink)
	if err := p.sender.SendReviewReminder(item.UserEmail, email); err != nil {
		return p.fail(item.ID, err)
	}

	if err := p.reminders.MarkSent(item.ID, p.now()); err != nil {
		log.Printf("Error: reminder %s was sent but could not be marked: %v", item.ID, err)
		return p.fail(item.ID, fmt.Errorf("sent but not recorded: %w", err))
	}
	return models.ReminderSent
}

func (p *ReminderProcessor) cancel(id, reason string) models.ReminderStatus {
	if err := p.reminders.MarkCanceled(id, p.now(), reason); err != nil {
		log.Printf("Error: failed to cancel reminder %s: %v", id, err)
		return models.ReminderFailed
	}
	return models.ReminderCanceled
}

func (p *ReminderProcessor) fail(id string, cause error) models.ReminderStatus {
	msg := utils.TruncateError(cause.Error(), maxStoredErrorLen)
	if err := p.reminders.MarkFailed(id, msg); err != nil {
		log.Printf("Error: failed to mark reminder %s failed: %v", id, err)
	}
	return models.ReminderFailed
}
