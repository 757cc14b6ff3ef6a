package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UnsubscribeClaims identifies the (wheel, recipient) pair an opt-out link
// applies to. The token is embedded in every reminder email.
type UnsubscribeClaims struct {
	WheelID   string `json:"wheel_id"`
	UserEmail string `json:"user_email"`
	jwt.RegisteredClaims
}

// GenerateUnsubscribeToken creates a signed opt-out token for a reminder email
func GenerateUnsubscribeToken(wheelID, userEmail string) (string, error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable not set")
	}

	// Long-lived on purpose: the link must still work when the email is read weeks later
	expiryStr := os.Getenv("UNSUBSCRIBE_TOKEN_EXPIRY")
	if expiryStr == "" {
		expiryStr = "720h" // 30 days
	}

	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		return "", fmt.Errorf("invalid UNSUBSCRIBE_TOKEN_EXPIRY format: %w", err)
	}

	claims := UnsubscribeClaims{
		WheelID:   wheelID,
		UserEmail: userEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "reviewloop",
			Subject:   userEmail,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateUnsubscribeToken validates and parses an opt-out token
func ValidateUnsubscribeToken(tokenString string) (*UnsubscribeClaims, error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	token, err := jwt.ParseWithClaims(tokenString, &UnsubscribeClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UnsubscribeClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
