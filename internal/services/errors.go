package services

import (
	"errors"
	"fmt"

	apperrors "github.com/devcatalyst/intake-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Auth specific errors
	ErrInvalidCredentials = errors.New("invalid password")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionScope       = errors.New("session does not grant access to this area")

	// Intake specific errors
	ErrSheetNotFound = errors.New("target sheet not found")
	ErrUnknownTeam   = errors.New("unknown evaluation team")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ConfigurationError means a required deployment setting is missing. It is
// fatal for the request and never retried.
type ConfigurationError struct {
	Setting string `json:"setting"`
	Message string `json:"message"`
}

func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", ce.Setting, ce.Message)
}

// NotFoundError names the resource that was looked up.
type NotFoundError struct {
	Resource string `json:"resource"`
	Name     string `json:"name"`
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", nfe.Resource, nfe.Name)
}

func (nfe *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreError wraps a backing-store failure. Callers surface it as a generic
// try-again message; nothing retries it.
type StoreError struct {
	Op  string `json:"op"`
	Err error  `json:"-"`
}

func (se *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", se.Op, se.Err)
}

func (se *StoreError) Unwrap() error {
	return se.Err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// invalid wraps a single field failure as ValidationErrors.
func invalid(field, message string, value interface{}) error {
	return ValidationErrors{*NewValidationError(field, message, value)}
}

func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Message: message}
}

func NewNotFoundError(resource, name string) *NotFoundError {
	return &NotFoundError{Resource: resource, Name: name}
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrUnknownTeam)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrSessionScope)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConfiguration checks if error represents missing deployment settings
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsStore checks if error came from the backing store
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
