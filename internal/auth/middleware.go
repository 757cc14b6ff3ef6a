package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"reviewloop/internal/database"
	"reviewloop/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var (
	googleOAuthConfig *oauth2.Config
)

// InitOAuth initializes the Google OAuth configuration
func InitOAuth() error {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, and GOOGLE_REDIRECT_URL must be set")
	}

	googleOAuthConfig = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile", "openid"},
		Endpoint:     google.Endpoint,
	}

	return nil
}

// GetLoginURL returns the Google OAuth login URL with a secure state parameter
func GetLoginURL(c *gin.Context) (string, error) {
	state, err := SetOAuthState(c)
	if err != nil {
		return "", err
	}

	return googleOAuthConfig.AuthCodeURL(state,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	), nil
}

// HandleGoogleCallback processes the OAuth callback from Google
func HandleGoogleCallback(c *gin.Context) {
	// Verify state parameter (CSRF protection)
	state := c.Query("state")
	if !VerifyOAuthState(c, state) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state, possible CSRF attack"})
		c.Abort()
		return
	}

	code := c.Query("code")
	token, err := googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code exchange failed"})
		c.Abort()
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get id_token"})
		c.Abort()
		return
	}

	payload, err := verifyIDToken(rawIDToken, googleOAuthConfig.ClientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to verify id_token: %v", err)})
		c.Abort()
		return
	}

	userInfo, err := extractUserInfoFromPayload(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract user info from token"})
		c.Abort()
		return
	}

	// Returning user: refresh token bookkeeping and straight to the dashboard
	var existingAccount models.Account
	db := database.GetDB()
	if err := db.Where("google_id = ?", userInfo.Sub).First(&existingAccount).Error; err == nil {
		if err := SaveRefreshTokenToAccount(db, userInfo.Sub, token); err != nil {
			fmt.Printf("Warning: failed to save refresh token: %v\n", err)
		}
		if err := db.Model(&existingAccount).Update("last_login", time.Now()).Error; err != nil {
			fmt.Printf("Warning: failed to update last login: %v\n", err)
		}

		if err := CreateSession(c, token, userInfo, existingAccount.Username); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			c.Abort()
			return
		}

		c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
		return
	}

	// First sign-in: create a temporary account until the profile is completed
	randomID, err := GenerateRandomString(8)
	if err != nil {
		fmt.Printf("Warning: Failed to generate temporary username: %v\n", err)
		randomID = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	tempUsername := fmt.Sprintf("temp-%s", randomID)

	tempAccount := models.Account{
		GoogleID:      userInfo.Sub,
		Username:      tempUsername,
		Email:         userInfo.Email,
		EmailVerified: userInfo.EmailVerified,
		FullName:      userInfo.Name,
		AvatarURL:     userInfo.Picture,
		Locale:        userInfo.Locale,
		DateJoined:    time.Now(),
		LastLogin:     time.Now(),
	}

	if err := db.Create(&tempAccount).Error; err != nil {
		fmt.Printf("Warning: Failed to create temporary account: %v\n", err)
	}

	if err := SaveRefreshTokenToAccount(db, userInfo.Sub, token); err != nil {
		fmt.Printf("Warning: failed to save refresh token: %v\n", err)
	}

	if err := CreateSession(c, token, userInfo, tempUsername); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		c.Abort()
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, "/create-profile")
}

// verifyIDToken verifies the ID token using Google's official library
func verifyIDToken(idToken string, audience string) (*idtoken.Payload, error) {
	payload, err := idtoken.Validate(context.Background(), idToken, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to validate ID token: %w", err)
	}
	return payload, nil
}

// extractUserInfoFromPayload extracts user info from the verified token payload
func extractUserInfoFromPayload(payload *idtoken.Payload) (*UserInfo, error) {
	email, ok := payload.Claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("email claim missing from ID token")
	}

	userInfo := &UserInfo{
		Sub:   payload.Subject,
		Email: email,
	}

	if name, ok := payload.Claims["name"].(string); ok {
		userInfo.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		userInfo.Picture = picture
	}
	if givenName, ok := payload.Claims["given_name"].(string); ok {
		userInfo.GivenName = givenName
	}
	if familyName, ok := payload.Claims["family_name"].(string); ok {
		userInfo.FamilyName = familyName
	}
	if locale, ok := payload.Claims["locale"].(string); ok {
		userInfo.Locale = locale
	}
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok {
		userInfo.EmailVerified = emailVerified
	}

	return userInfo, nil
}

// AuthMiddleware validates the session
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		if session.IsExpired() {
			DeleteSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			c.Abort()
			return
		}

		// Keep the Google access token fresh; session auth itself does not
		// depend on it, so a failed refresh only gets logged
		if err := RefreshSessionToken(c, session); err != nil {
			fmt.Printf("Warning: failed to refresh access token for %s: %v\n", session.UserID, err)
		}

		// Store user info in context for handlers to use
		if session.Username != "" {
			c.Set("username", session.Username)
		}
		c.Set("sub", session.UserID)
		c.Set("email", session.Email)
		c.Set("name", session.Name)
		c.Set("picture", session.Picture)
		c.Set("locale", session.Locale)

		c.Next()
	}
}

// LogoutHandler handles user logout
func LogoutHandler(c *gin.Context) {
	DeleteSession(c)
	c.Redirect(http.StatusTemporaryRedirect, "/")
}
