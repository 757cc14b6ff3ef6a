package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reviewloop/internal/auth"
	"reviewloop/internal/database"
	"reviewloop/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateProfile finalizes a temporary account created on first Google
// sign-in by claiming a permanent username
func CreateProfile(c *gin.Context) {
	var request models.CreateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	googleID := c.GetString("sub")
	if googleID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()

	var account models.Account
	if err := db.Where("google_id = ?", googleID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	if !strings.HasPrefix(account.Username, "temp-") {
		c.JSON(http.StatusConflict, gin.H{"error": "Profile already created"})
		return
	}

	// Username is the Account primary key, so claim it with an explicit check
	var existing models.Account
	if err := db.Where("username = ?", request.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	if err := db.Model(&models.Account{}).
		Where("google_id = ?", googleID).
		Updates(map[string]interface{}{
			"username":   request.Username,
			"updated_at": time.Now(),
		}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update username", err)
		return
	}

	// Point the live session at the new username
	if sessionID, err := c.Cookie(auth.SessionCookieName); err == nil {
		if err := auth.LinkSessionToUser(sessionID, request.Username); err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to update session", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile created", "username": request.Username})
}

// GetCurrentUser returns the currently authenticated user
func GetCurrentUser(c *gin.Context) {
	googleID := c.GetString("sub")
	if googleID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	db := database.GetDB()
	var account models.Account
	if err := db.Where("google_id = ?", googleID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "database error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":    account.Username,
		"email":       account.Email,
		"full_name":   account.FullName,
		"date_joined": account.DateJoined,
		"last_login":  account.LastLogin,
		"trial_ends":  account.TrialEndsAt,
		"avatar_url":  account.AvatarURL,
	})
}

// SearchCustomers answers dashboard lookups of a customer email across the
// owner's campaigns
func SearchCustomers(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	results, err := deps.Search.SearchCustomers(username, term, 20)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Search failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
