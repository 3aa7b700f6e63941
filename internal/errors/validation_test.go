package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("test_field", "test message", "test_value")

	assert.Equal(t, "test_field", err.Field)
	assert.Equal(t, "test message", err.Message)
	assert.Equal(t, "test_value", err.Value)
	assert.Equal(t, "validation error on field 'test_field': test message", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("field1", "message1", nil))
	assert.Equal(t, "validation failed: field1 message1", errs.Error())

	errs = append(errs, *NewValidationError("field2", "message2", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestValidationErrors_FieldViews(t *testing.T) {
	errs := ValidationErrors{
		*NewValidationErrorWithRule("email", "Invalid email address", "email", "x"),
		*NewValidationErrorWithRule("phone", "This is a required question", "required", nil),
	}

	assert.Equal(t, map[string]string{
		"email": "Invalid email address",
		"phone": "This is a required question",
	}, errs.ByField())
	assert.Equal(t, "email", errs[0].Rule)
	assert.Equal(t, "validation error on field 'phone': This is a required question", errs[1].Error())
}

func TestToValidationErrors(t *testing.T) {
	type login struct {
		Password string `validate:"required"`
	}

	err := validator.New().Struct(login{})
	errs := ToValidationErrors(err)

	require.Len(t, errs, 1)
	assert.Equal(t, "Password", errs[0].Field)
	assert.Equal(t, "required", errs[0].Rule)
	assert.Equal(t, "is required", errs[0].Message)
}
