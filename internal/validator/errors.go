package validator

import (
	"github.com/devcatalyst/intake-service/internal/errors"
	"github.com/devcatalyst/intake-service/internal/models"
)

// Use shared validation errors from errors package
type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	return errors.ToValidationErrors(err)
}

// fieldError reports a failed rule on question q.
func fieldError(q models.Question, message, rule string, value any) *ValidationError {
	return errors.NewValidationErrorWithRule(q.ID, message, rule, value)
}

// Messages shared by every field kind.
const (
	MsgRequired = "This is a required question"
	MsgText     = "Expected a text answer"
	MsgList     = "Expected a list of options"
	MsgNumber   = "Expected a number"
	MsgOption   = "Select one of the listed options"
)

// Rule names reported alongside messages.
const (
	RuleRequired = "required"
	RuleType     = "type"
	RuleOption   = "option"
	RuleRange    = "range"
)
