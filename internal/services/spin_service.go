package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"reviewloop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SpinService turns a completed wheel spin into a reward code email and a
// scheduled review reminder
type SpinService struct {
	db           *gorm.DB
	emailService *EmailService
	scheduler    *ReminderScheduler
}

func NewSpinService(db *gorm.DB, emailService *EmailService, scheduler *ReminderScheduler) *SpinService {
	return &SpinService{
		db:           db,
		emailService: emailService,
		scheduler:    scheduler,
	}
}

// RecordSpin issues a reward code for a spin result, emails it to the
// customer, and schedules the review follow-up
func (s *SpinService) RecordSpin(req models.SpinRequest) (*models.RewardCode, error) {
	var wheel models.WheelProject
	if err := s.db.Where("id = ?", req.WheelID).First(&wheel).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("wheel %s not found", req.WheelID)
		}
		return nil, fmt.Errorf("failed to look up wheel: %w", err)
	}

	var business models.BusinessProfile
	if err := s.db.Where("id = ?", wheel.BusinessID).First(&business).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("business %s not found", wheel.BusinessID)
		}
		return nil, fmt.Errorf("failed to look up business: %w", err)
	}

	reward := models.RewardCode{
		ID:         uuid.NewString(),
		WheelID:    wheel.ID,
		BusinessID: wheel.BusinessID,
		UserEmail:  req.UserEmail,
		Code:       newRewardCode(),
		Prize:      req.Prize,
	}
	if err := s.db.Create(&reward).Error; err != nil {
		return nil, fmt.Errorf("failed to create reward code: %w", err)
	}

	if err := s.emailService.SendRewardCode(req.UserEmail, business.DisplayName, reward.Prize, reward.Code); err != nil {
		log.Printf("Warning: failed to send reward email to %s: %v", req.UserEmail, err)
	} else {
		now := time.Now()
		if err := s.db.Model(&reward).Update("emailed_at", now).Error; err != nil {
			log.Printf("Warning: failed to stamp emailed_at on reward %s: %v", reward.ID, err)
		}
	}

	// Best effort: a skipped or failed reminder never blocks the reward
	delay := wheel.ReminderDelay
	result, err := s.scheduler.Schedule(ScheduleRequest{
		WheelID:    wheel.ID,
		BusinessID: wheel.BusinessID,
		UserEmail:  req.UserEmail,
		DelayDays:  &delay,
	})
	if err != nil {
		log.Printf("Warning: failed to schedule review reminder for %s: %v", req.UserEmail, err)
	} else if result.Skipped != "" {
		log.Printf("Review reminder skipped for wheel %s: %s", wheel.ID, result.Skipped)
	}

	return &reward, nil
}

// newRewardCode generates a short human-readable code for the reward email
func newRewardCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
