package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"reviewloop/internal/database"
	"reviewloop/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecordSpin handles a completed wheel spin reported by the public widget:
// issues a reward code, emails it, and schedules the review follow-up
func RecordSpin(c *gin.Context) {
	var req models.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	reward, err := deps.Spins.RecordSpin(req)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to record spin", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    reward.ID,
		"code":  reward.Code,
		"prize": reward.Prize,
	})
}

// RewardRedirect resolves a reward code to the business's review page,
// stamping the click-through on the way. The stamp is what suppresses a
// still-pending reminder for the same (wheel, email) pair.
func RewardRedirect(c *gin.Context) {
	code := c.Param("code")

	db := database.GetDB()
	var reward models.RewardCode
	if err := db.Where("code = ?", code).First(&reward).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown reward code"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to look up reward code", err)
		return
	}

	if reward.ClickedAt == nil {
		now := time.Now()
		if err := db.Model(&reward).Update("clicked_at", now).Error; err != nil {
			// The redirect matters more than the stamp
			log.Printf("Error: failed to record click for reward %s: %v", reward.ID, err)
		}
	}

	var business models.BusinessProfile
	if err := db.Where("id = ?", reward.BusinessID).First(&business).Error; err != nil || business.ReviewLink == "" {
		c.Redirect(http.StatusTemporaryRedirect, deps.BaseURL)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, business.ReviewLink)
}
