package errors

import (
	"errors"
	"fmt"
)

// ErrSubmissionNotFound is returned when no submission matches the given id
var ErrSubmissionNotFound = errors.New("submission not found")

// ValidationError represents an error when validation fails
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// SchemaError represents a database schema that lacks a column or table the code expects
type SchemaError struct {
	Table  string
	Column string
	Code   string
	Err    error
}

// Error returns the error message
func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema error: column %s.%s is missing (code %s)", e.Table, e.Column, e.Code)
	}
	return fmt.Sprintf("schema error: table %s is missing (code %s)", e.Table, e.Code)
}

// Unwrap returns the underlying driver error
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// StorageAPIError represents an error from the object storage API
type StorageAPIError struct {
	Operation string
	Status    int
	Message   string
}

// Error returns the error message
func (e *StorageAPIError) Error() string {
	return fmt.Sprintf("storage API error during %s (status %d): %s", e.Operation, e.Status, e.Message)
}

// TelegramFileError represents a failure to resolve or download a Telegram file
type TelegramFileError struct {
	FileID  string
	Status  int
	Message string
}

// Error returns the error message
func (e *TelegramFileError) Error() string {
	return fmt.Sprintf("telegram file %s (status %d): %s", e.FileID, e.Status, e.Message)
}

// StateError represents an error related to user state
type StateError struct {
	UserID  int64
	State   string
	Message string
}

// Error returns the error message
func (e *StateError) Error() string {
	return fmt.Sprintf("state error for user %d in state %s: %s", e.UserID, e.State, e.Message)
}

// ConfigError represents an error related to configuration
type ConfigError struct {
	Section string
	Message string
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Section, e.Message)
}
