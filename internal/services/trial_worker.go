package services

import (
	"log"
	"time"

	"reviewloop/internal/database"
	"reviewloop/internal/models"

	"gorm.io/gorm"
)

// trialReminderWindow is how far ahead of trial expiry owners get warned
const trialReminderWindow = 72 * time.Hour

// TrialWorker emails account owners whose free trial is about to end
type TrialWorker struct {
	db           *gorm.DB
	emailService *EmailService
	interval     time.Duration
}

func NewTrialWorker(emailService *EmailService) *TrialWorker {
	return &TrialWorker{
		db:           database.GetDB(),
		emailService: emailService,
		interval:     time.Hour * 12, // Check twice a day
	}
}

func (w *TrialWorker) Start() {
	go w.run()
}

func (w *TrialWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		w.checkEndingTrials()
	}
}

func (w *TrialWorker) checkEndingTrials() {
	now := time.Now()

	// Accounts expiring within the window that haven't been warned yet
	var accounts []models.Account
	if err := w.db.
		Where("trial_ends_at > ? AND trial_ends_at <= ? AND trial_reminder_sent_at IS NULL",
			now, now.Add(trialReminderWindow)).
		Find(&accounts).Error; err != nil {
		log.Printf("Error: failed to query ending trials: %v", err)
		return
	}

	for _, account := range accounts {
		if err := w.emailService.SendTrialEnding(account.FullName, account.Email, account.TrialEndsAt); err != nil {
			log.Printf("Failed to send trial-ending email to %s: %v", account.Email, err)
			continue
		}

		if err := w.db.Model(&models.Account{}).
			Where("username = ?", account.Username).
			Update("trial_reminder_sent_at", now).Error; err != nil {
			log.Printf("Error: failed to record trial reminder for %s: %v", account.Username, err)
			continue
		}
		log.Printf("Sent trial-ending reminder to %s", account.Email)
	}
}
