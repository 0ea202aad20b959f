// Package validation provides form-level input validation.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"warbler/internal/models"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername checks if a username meets requirements. Messages are
// user-facing; they end up in flashes.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return models.NewValidationError("Username must be at least 3 characters long")
	}

	if len(username) > 30 {
		return models.NewValidationError("Username must not exceed 30 characters")
	}

	// Only allow alphanumeric, underscores and hyphens
	if !usernameRe.MatchString(username) {
		return models.NewValidationError("Username can only contain letters, numbers, underscores, and hyphens")
	}

	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return models.NewValidationError("Username cannot start or end with underscore or hyphen")
	}

	return nil
}

// ValidateEmail checks that an email address is plausibly formed.
func ValidateEmail(email string) error {
	if email == "" {
		return models.NewValidationError("E-mail is required")
	}
	if len(email) > 254 {
		return models.NewValidationError("E-mail must not exceed 254 characters")
	}
	if !emailRe.MatchString(email) {
		return models.NewValidationError("E-mail is not a valid address")
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return models.NewValidationError("Password must be at least 6 characters long")
	}

	// Prevent unreasonable inputs
	if len(password) > 128 {
		return models.NewValidationError("Password must not exceed 128 characters")
	}

	return nil
}

// ValidateMessageText checks that message text is present and within bounds.
func ValidateMessageText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.NewValidationError("Message text is required")
	}
	// The bound is characters, not bytes; multibyte text counts by rune.
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return models.NewValidationError(fmt.Sprintf("Message must not exceed %d characters", models.MaxMessageLength))
	}
	return nil
}
