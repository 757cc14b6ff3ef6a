package handlers

import (
	"fmt"
	"log"
	"net/http"

	"reviewloop/internal/database"
	"reviewloop/internal/models"
	"reviewloop/internal/utils"

	"github.com/gin-gonic/gin"
)

// SubmitContact stores a marketing-site contact form message and forwards it
// to the support inbox
func SubmitContact(c *gin.Context) {
	var request models.ContactRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	message := models.ContactMessage{
		Name:     request.Name,
		Email:    request.Email,
		Subject:  request.Subject,
		Message:  request.Message,
		SenderIP: utils.GetRealClientIP(c),
	}

	db := database.GetDB()
	if err := db.Create(&message).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save message", err)
		return
	}

	// Notification delivery is best effort; the submission is already stored
	if deps.SupportEmail != "" {
		if err := deps.Email.SendContactNotification(deps.SupportEmail, request.Name, request.Email, request.Subject, request.Message); err != nil {
			log.Printf("Warning: failed to forward contact message %d: %v", message.ID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Thanks, we'll get back to you soon."})
}
