package client

import (
	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/schema"
	"github.com/devcatalyst/intake-service/internal/validator"
)

// Draft is the in-progress state of one application form.
//
// Answers to questions in sections that become hidden are kept, so switching
// back to a track restores them, but they are left out of Payload.
type Draft struct {
	form      *models.FormSchema
	validator *validator.Validator
	answers   models.AnswerSet
	errors    map[string]string
}

func NewDraft(form *models.FormSchema, v *validator.Validator) *Draft {
	return &Draft{
		form:      form,
		validator: v,
		answers:   make(models.AnswerSet),
		errors:    make(map[string]string),
	}
}

// Set stores an answer and clears that field's error until the next Validate.
// Errors on questions whose section the new answer hides are dropped too.
func (d *Draft) Set(id string, value any) {
	d.answers[id] = value
	delete(d.errors, id)

	visible := make(map[string]bool)
	for _, section := range schema.VisibleSections(d.form, d.answers) {
		for _, q := range section.Questions {
			visible[q.ID] = true
		}
	}
	for field := range d.errors {
		if !visible[field] {
			delete(d.errors, field)
		}
	}
}

func (d *Draft) Get(id string) (any, bool) {
	v, ok := d.answers[id]
	return v, ok
}

// Validate recomputes every error from scratch and reports whether the
// draft can be submitted.
func (d *Draft) Validate() bool {
	errs := d.validator.ValidateAnswers(d.form, d.answers)
	d.errors = errs.ByField()
	return len(errs) == 0
}

// Errors returns the current field errors keyed by question id.
func (d *Draft) Errors() map[string]string {
	out := make(map[string]string, len(d.errors))
	for k, v := range d.errors {
		out[k] = v
	}
	return out
}

func (d *Draft) Visible() []models.Section {
	return schema.VisibleSections(d.form, d.answers)
}

// Payload returns the answers of visible sections only.
func (d *Draft) Payload() models.AnswerSet {
	return schema.VisibleAnswers(d.form, d.answers)
}
