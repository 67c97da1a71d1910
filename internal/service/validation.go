package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aidar/task-tracker/internal/domain"
)

// Field limits
const (
	maxTaskDescriptionLength  = 1000
	minGroupNameLength        = 3
	maxGroupNameLength        = 120
	maxGroupDescriptionLength = 500
	minUsernameLength         = 3
	maxUsernameLength         = 80
	minPasswordLength         = 6
	maxPasswordLength         = 72 // bcrypt input limit, in bytes
)

func parseTaskDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, domain.NewValidationError("date", "date is required")
	}
	date, err := time.Parse(domain.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "date must be in YYYY-MM-DD format")
	}
	return date, nil
}

func validateTaskDescription(value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError("description", "description is required")
	}
	if utf8.RuneCountInString(value) > maxTaskDescriptionLength {
		return domain.NewValidationError("description", "description must be at most 1000 characters")
	}
	return nil
}

// ValidateGroupInput checks group fields outside the web flow, e.g. when seeding.
func ValidateGroupInput(in GroupInput) error {
	return validateGroupFields(in.Name, in.Description)
}

func validateGroupFields(name, description string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 {
		return domain.NewValidationError("name", "name is required")
	}
	if n < minGroupNameLength || n > maxGroupNameLength {
		return domain.NewValidationError("name", "name must be between 3 and 120 characters")
	}
	if utf8.RuneCountInString(description) > maxGroupDescriptionLength {
		return domain.NewValidationError("description", "description must be at most 500 characters")
	}
	return nil
}

// validateUserFields returns the trimmed username that should be stored.
func validateUserFields(username, password, confirmPassword string) (string, error) {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	if n == 0 {
		return "", domain.NewValidationError("username", "username is required")
	}
	if n < minUsernameLength || n > maxUsernameLength {
		return "", domain.NewValidationError("username", "username must be between 3 and 80 characters")
	}
	if password == "" {
		return "", domain.NewValidationError("password", "password is required")
	}
	if len(password) < minPasswordLength {
		return "", domain.NewValidationError("password", "password must be at least 6 characters")
	}
	if len(password) > maxPasswordLength {
		return "", domain.NewValidationError("password", "password must be at most 72 bytes")
	}
	if password != confirmPassword {
		return "", domain.NewValidationError("confirm_password", "passwords do not match")
	}
	return username, nil
}
