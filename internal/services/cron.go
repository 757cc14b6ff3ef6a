package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// StartReminderCron runs the processor on a fixed cadence. In deployments
// where an external cron hits POST /internal/reminders/process instead, set
// REMINDER_CRON_DISABLED and skip this.
func StartReminderCron(processor *ReminderProcessor) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("*/5 * * * *", func() {
		if _, err := processor.Run(); err != nil {
			log.Printf("Error: reminder processor run failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("Error: failed to register reminder cron job: %v", err)
		return c
	}

	c.Start()
	log.Println("Reminder processor cron started (every 5 minutes)")
	return c
}
