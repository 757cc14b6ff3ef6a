package handlers

import (
	"log"
	"net/http"

	"reviewloop/internal/auth"
	"reviewloop/internal/database"
	"reviewloop/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps carries the wired services handlers dispatch to. Populated once from
// main so env-derived configuration stays at the process boundary.
type Deps struct {
	Store        *database.Store
	Scheduler    *services.ReminderScheduler
	Processor    *services.ReminderProcessor
	Spins        *services.SpinService
	Email        *services.EmailService
	Search       *services.CustomerSearchService
	Images       *services.ImageService
	CronSecret   string
	SupportEmail string
	BaseURL      string
}

var deps Deps

// Init wires the handler package to its services
func Init(d Deps) {
	deps = d
}

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	log.Printf("Error: %v", err)
	c.JSON(status, gin.H{"error": message})
}

// HomeHandler handles requests to the root path "/"
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to Review to Revenue!")
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// LoginHandler redirects to Google OAuth login
func LoginHandler(c *gin.Context) {
	url, err := auth.GetLoginURL(c)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to generate login URL", err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallbackHandler processes the OAuth callback from Google
func GoogleCallbackHandler(c *gin.Context) {
	auth.HandleGoogleCallback(c)
}

// LogoutHandler handles user logout
func LogoutHandler(c *gin.Context) {
	auth.LogoutHandler(c)
}
