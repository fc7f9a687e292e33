package validation

import (
	"strings"

	"uid-intake-bot/internal/constants"
	apperrors "uid-intake-bot/internal/errors"
	"uid-intake-bot/internal/models"
)

// IsValidUID reports whether uid is exactly seven ASCII digits
func IsValidUID(uid string) bool {
	if len(uid) != constants.UIDLength {
		return false
	}

	for i := 0; i < len(uid); i++ {
		if uid[i] < '0' || uid[i] > '9' {
			return false
		}
	}

	return true
}

// ValidateUID validates a trading-account UID
func ValidateUID(uid string) error {
	if !IsValidUID(uid) {
		return &apperrors.ValidationError{Field: "uid", Message: "must be exactly 7 digits"}
	}
	return nil
}

// ParseStatus parses a submission status, rejecting unknown values
func ParseStatus(value string) (models.SubmissionStatus, error) {
	status := models.SubmissionStatus(value)
	if !status.Valid() {
		return "", &apperrors.ValidationError{Field: "status", Message: "must be one of Pending, Approved, Rejected"}
	}
	return status, nil
}

// ValidateMessage trims an operator-composed message and rejects blank input
func ValidateMessage(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", &apperrors.ValidationError{Field: "message", Message: "is required"}
	}
	return trimmed, nil
}
