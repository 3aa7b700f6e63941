package validator

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/devcatalyst/intake-service/internal/models"
)

// Validator is the main validator instance that combines struct tag checks
// for request DTOs with schema-driven answer validation.
type Validator struct {
	structValidator *validator.Validate

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		patterns:        make(map[string]*regexp.Regexp),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Var validates a single value against a tag such as "email" or "url".
func (v *Validator) Var(value interface{}, tag string) error {
	return v.structValidator.Var(value, tag)
}

func (v *Validator) pattern(expr string) (*regexp.Regexp, error) {
	v.mu.RLock()
	re, ok := v.patterns[expr]
	v.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.patterns[expr] = re
	v.mu.Unlock()
	return re, nil
}

var rollNumberPattern = regexp.MustCompile(`^1608-\d{2}-\d{3}-\d{3}$`)

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("review_status", validateReviewStatus)
	validate.RegisterValidation("evaluation_team", validateEvaluationTeam)
	validate.RegisterValidation("roll_number", validateRollNumber)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateReviewStatus(fl validator.FieldLevel) bool {
	return models.ReviewStatus(fl.Field().String()).Valid()
}

func validateEvaluationTeam(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case models.TeamCore, models.TeamTech, models.TeamContent, models.TeamSocial, models.TeamOutreach:
		return true
	}
	return false
}

func validateRollNumber(fl validator.FieldLevel) bool {
	return rollNumberPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}
