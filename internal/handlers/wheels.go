package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"reviewloop/internal/database"
	"reviewloop/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateWheel handles the creation of a new wheel project
func CreateWheel(c *gin.Context) {
	var request models.CreateWheelRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		log.Printf("Error: Invalid input: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()

	// The wheel must hang off one of the caller's own businesses
	var business models.BusinessProfile
	if err := db.Where("id = ? AND owner_username = ?", request.BusinessID, username).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	segments, err := json.Marshal(request.Segments)
	if err != nil {
		handleError(c, http.StatusBadRequest, "Invalid segments", err)
		return
	}

	language := request.Language
	if language == "" {
		language = "en"
	}

	wheel := models.WheelProject{
		ID:            uuid.NewString(),
		OwnerUsername: username,
		BusinessID:    request.BusinessID,
		Name:          request.Name,
		Language:      language,
		Segments:      datatypes.JSON(segments),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := db.Create(&wheel).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create wheel", err)
		return
	}

	c.JSON(http.StatusCreated, wheel)
}

// GetWheels lists the signed-in owner's wheel projects
func GetWheels(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()
	var wheels []models.WheelProject
	if err := db.Where("owner_username = ?", username).Order("created_at DESC").Find(&wheels).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to list wheels", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wheels": wheels, "count": len(wheels)})
}

// GetWheel returns one of the owner's wheel projects
func GetWheel(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()
	var wheel models.WheelProject
	if err := db.Where("id = ? AND owner_username = ?", c.Param("id"), username).First(&wheel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wheel not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	c.JSON(http.StatusOK, wheel)
}

// UpdateWheel applies a partial update, including the review opt-out toggle
func UpdateWheel(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var request models.UpdateWheelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	db := database.GetDB()
	var wheel models.WheelProject
	if err := db.Where("id = ? AND owner_username = ?", c.Param("id"), username).First(&wheel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wheel not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	if request.Name != nil {
		wheel.Name = *request.Name
	}
	if request.Language != nil {
		wheel.Language = *request.Language
	}
	if request.NoGoogleReview != nil {
		wheel.NoGoogleReview = *request.NoGoogleReview
	}
	if request.ReminderDelay != nil {
		wheel.ReminderDelay = *request.ReminderDelay
	}
	if request.Segments != nil {
		segments, err := json.Marshal(*request.Segments)
		if err != nil {
			handleError(c, http.StatusBadRequest, "Invalid segments", err)
			return
		}
		wheel.Segments = datatypes.JSON(segments)
	}
	wheel.UpdatedAt = time.Now()

	if err := db.Save(&wheel).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update wheel", err)
		return
	}

	c.JSON(http.StatusOK, wheel)
}

// GetPublicWheel serves the spin widget's campaign config (no auth)
func GetPublicWheel(c *gin.Context) {
	db := database.GetDB()
	var wheel models.WheelProject
	if err := db.Where("id = ?", c.Param("id")).First(&wheel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wheel not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	// Only what the widget needs; owner details stay private
	c.JSON(http.StatusOK, gin.H{
		"id":       wheel.ID,
		"name":     wheel.Name,
		"language": wheel.Language,
		"segments": wheel.Segments,
		"logo_url": wheel.LogoURL,
	})
}
