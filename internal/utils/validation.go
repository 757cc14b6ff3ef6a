package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks if an address has a basic email shape.
// Deliverability is the email provider's problem, not ours.
func ValidateEmail(email string) bool {
	cleaned := strings.TrimSpace(email)
	if len(cleaned) > 254 {
		return false
	}
	return emailPattern.MatchString(cleaned)
}

// TruncateError bounds an error message so it fits the last_error column.
// The cut lands on a rune boundary so a multi-byte character is never split.
func TruncateError(msg string, max int) string {
	if len(msg) <= max {
		return msg
	}
	for max > 0 && !utf8.RuneStart(msg[max]) {
		max--
	}
	return msg[:max]
}
