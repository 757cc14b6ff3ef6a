package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"reviewloop/internal/auth"
	"reviewloop/internal/database"
	"reviewloop/internal/models"
	"reviewloop/internal/services"

	"github.com/gin-gonic/gin"
)

// ScheduleReminder registers a review reminder for a wheel interaction.
// Public endpoint called by the spin widget; open CORS.
func ScheduleReminder(c *gin.Context) {
	var req services.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid input: " + err.Error()})
		return
	}

	result, err := deps.Scheduler.Schedule(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to schedule reminder", err)
		return
	}

	if result.Skipped != "" {
		c.JSON(http.StatusOK, gin.H{"ok": true, "skipped": result.Skipped})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": result.ID, "due_at": result.DueAt})
}

// ProcessReminders drains one batch of due reminders. Intended to be hit by
// an external cron; requires the shared cron secret.
func ProcessReminders(c *gin.Context) {
	if deps.CronSecret != "" && c.GetHeader("X-Cron-Secret") != deps.CronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid cron secret"})
		return
	}

	stats, err := deps.Processor.Run()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to process reminders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"processed": stats.Processed,
		"sent":      stats.Sent,
		"canceled":  stats.Canceled,
		"failed":    stats.Failed,
	})
}

// ListReminders returns the signed-in owner's reminders, newest first,
// optionally filtered by wheel and status
func ListReminders(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	db := database.GetDB()
	query := db.Model(&models.ReviewReminder{}).
		Joins("JOIN wheel_project wp ON wp.id = review_reminder.wheel_id").
		Where("wp.owner_username = ?", username)

	if wheelID := c.Query("wheel_id"); wheelID != "" {
		query = query.Where("review_reminder.wheel_id = ?", wheelID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("review_reminder.status = ?", status)
	}

	var reminders []models.ReviewReminder
	if err := query.Order("review_reminder.created_at DESC").Limit(limit).Find(&reminders).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to list reminders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "count": len(reminders)})
}

// Unsubscribe cancels pending reminders for the (wheel, email) pair named by
// a signed opt-out token from a reminder email
func Unsubscribe(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token parameter is required"})
		return
	}

	claims, err := auth.ValidateUnsubscribeToken(tokenString)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired unsubscribe link"})
		return
	}

	canceled, err := deps.Store.CancelPendingFor(claims.WheelID, claims.UserEmail, models.CancelReasonUnsubscribed)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to unsubscribe", err)
		return
	}

	log.Printf("Unsubscribed %s from wheel %s (%d reminders canceled)", claims.UserEmail, claims.WheelID, canceled)
	c.String(http.StatusOK, "You will not receive further review reminders for this campaign.")
}
