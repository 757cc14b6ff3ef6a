package auth

import (
	"fmt"
	"time"

	"reviewloop/internal/models"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// SaveRefreshTokenToAccount encrypts and saves a refresh token to the user's account
func SaveRefreshTokenToAccount(db *gorm.DB, googleID string, token *oauth2.Token) error {
	if token == nil || token.RefreshToken == "" {
		return nil // No refresh token to save
	}

	encryptedToken, err := EncryptRefreshToken(token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	updates := map[string]interface{}{
		"encrypted_refresh_token": encryptedToken,
		"token_expiry":            token.Expiry,
	}

	if err := db.Model(&models.Account{}).
		Where("google_id = ?", googleID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to save refresh token to account: %w", err)
	}

	return nil
}

// GetRefreshTokenFromAccount retrieves and decrypts a refresh token from an account
func GetRefreshTokenFromAccount(db *gorm.DB, googleID string) (string, time.Time, error) {
	var account models.Account

	if err := db.Select("encrypted_refresh_token, token_expiry").
		Where("google_id = ?", googleID).
		First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", time.Time{}, fmt.Errorf("account not found")
		}
		return "", time.Time{}, fmt.Errorf("failed to retrieve account: %w", err)
	}

	refreshToken, err := DecryptRefreshToken(account.EncryptedRefreshToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}

	return refreshToken, account.TokenExpiry, nil
}
