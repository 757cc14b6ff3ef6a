package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"reviewloop/internal/database"
	"reviewloop/internal/models"
	"reviewloop/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxLogoSize bounds logo uploads (2MB)
const maxLogoSize = 2 * 1024 * 1024

// UpsertBusiness creates or updates the owner's business profile. When a
// Place ID is supplied the review link is derived from Google Place data.
func UpsertBusiness(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var request models.UpsertBusinessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	var place *models.PlaceInfo
	if request.PlaceID != "" {
		info, err := services.LookupPlace(request.PlaceID)
		if err != nil {
			log.Printf("Error validating place: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to validate place_id"})
			return
		}
		place = info
	}

	db := database.GetDB()
	var business models.BusinessProfile
	err := db.Where("owner_username = ?", username).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		business = models.BusinessProfile{
			ID:            uuid.NewString(),
			OwnerUsername: username,
			CreatedAt:     time.Now(),
		}
	} else if err != nil {
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	business.DisplayName = request.DisplayName
	if place != nil {
		business.PlaceID = place.PlaceID
		business.FormattedAddress = place.FormattedAddress
		business.ReviewLink = place.ReviewLink
	}
	if request.ReviewLink != "" {
		// Explicit link wins over the Place-derived one
		business.ReviewLink = request.ReviewLink
	}
	business.UpdatedAt = time.Now()

	if err := db.Save(&business).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save business profile", err)
		return
	}

	c.JSON(http.StatusOK, business)
}

// GetBusiness returns the owner's business profile
func GetBusiness(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()
	var business models.BusinessProfile
	if err := db.Where("owner_username = ?", username).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business profile not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	c.JSON(http.StatusOK, business)
}

// ValidatePlace validates a Google Place ID and returns standardized data
// including the derived review link
func ValidatePlace(c *gin.Context) {
	placeID := c.Query("place_id")
	if placeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "place_id parameter is required"})
		return
	}

	place, err := services.LookupPlace(placeID)
	if err != nil {
		log.Printf("Error validating place: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate place"})
		return
	}

	c.JSON(http.StatusOK, place)
}

// UploadLogo stores a business logo and records its URL on the profile
func UploadLogo(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if deps.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads are not configured"})
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}
	defer file.Close()

	if err := deps.Images.ValidateImageFile(file, maxLogoSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logoURL, err := deps.Images.UploadLogo(file, fileHeader.Filename, username)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to upload logo", err)
		return
	}

	db := database.GetDB()
	if err := db.Model(&models.BusinessProfile{}).
		Where("owner_username = ?", username).
		Updates(map[string]interface{}{"logo_url": logoURL, "updated_at": time.Now()}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save logo URL", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": logoURL})
}
