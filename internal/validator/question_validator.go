package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/schema"
)

// SectionView is one section of the rendered form.
type SectionView struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Condition   *models.Condition `json:"condition,omitempty"`
	Fields      []FieldView       `json:"fields"`
}

// FormView is the renderer contract for a whole schema.
type FormView struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	TrackField string         `json:"track_field,omitempty"`
	Tracks     []models.Track `json:"tracks,omitempty"`
	Sections   []SectionView  `json:"sections"`
}

// Render describes every section and field so a client can draw the form.
func Render(s *models.FormSchema) FormView {
	view := FormView{
		ID:         s.ID,
		Title:      s.Title,
		TrackField: s.TrackField,
		Tracks:     s.Tracks,
		Sections:   make([]SectionView, 0, len(s.Sections)),
	}
	for _, section := range s.Sections {
		sv := SectionView{
			ID:          section.ID,
			Title:       section.Title,
			Description: section.Description,
			Condition:   section.Condition,
			Fields:      make([]FieldView, 0, len(section.Questions)),
		}
		for _, q := range section.Questions {
			if kind, ok := KindOf(q.Type); ok {
				sv.Fields = append(sv.Fields, kind.Render(q))
			}
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

// ValidateAnswers computes the full error set for an answer set. Hidden
// sections are skipped entirely, so their questions never carry errors. Each
// field reports at most one error: required first, then type, then the
// field kind's own check, then rules in declaration order.
func (v *Validator) ValidateAnswers(s *models.FormSchema, answers models.AnswerSet) ValidationErrors {
	var errs ValidationErrors
	for _, section := range schema.VisibleSections(s, answers) {
		for _, q := range section.Questions {
			if err := v.ValidateAnswer(q, answers[q.ID]); err != nil {
				errs = append(errs, *err)
			}
		}
	}
	return errs
}

// ValidateAnswer checks a single raw answer against its question.
func (v *Validator) ValidateAnswer(q models.Question, raw any) *ValidationError {
	if isEmptyRaw(raw) {
		if q.Required {
			return fieldError(q, MsgRequired, RuleRequired, nil)
		}
		return nil
	}

	kind, ok := KindOf(q.Type)
	if !ok {
		return fieldError(q, fmt.Sprintf("unsupported question type %q", q.Type), RuleType, nil)
	}

	value, err := kind.Parse(raw)
	if err != nil {
		var te typeError
		msg := err.Error()
		if errors.As(err, &te) {
			msg = te.msg
		}
		return fieldError(q, msg, RuleType, raw)
	}
	if value.IsEmpty() {
		if q.Required {
			return fieldError(q, MsgRequired, RuleRequired, nil)
		}
		return nil
	}

	if verr := kind.Validate(q, value); verr != nil {
		return verr
	}

	for _, rule := range q.Rules {
		if msg, failed := v.checkRule(rule, value); failed {
			return fieldError(q, msg, string(rule.Kind), value.String())
		}
	}
	return nil
}

// checkRule reports the rule's message when the value fails it.
func (v *Validator) checkRule(rule models.Rule, value models.Value) (string, bool) {
	text := strings.TrimSpace(value.String())
	message := func(fallback string) string {
		if rule.Message != "" {
			return rule.Message
		}
		return fallback
	}

	switch rule.Kind {
	case models.RulePattern:
		re, err := v.pattern(rule.Value)
		if err != nil || !re.MatchString(text) {
			return message("Invalid format"), true
		}
	case models.RuleEmail:
		if v.Var(text, "email") != nil {
			return message("Invalid email address"), true
		}
	case models.RuleURL:
		if v.Var(text, "url") != nil {
			return message("Invalid URL"), true
		}
	case models.RuleDigits:
		n, _ := strconv.Atoi(rule.Value)
		re, err := v.pattern(fmt.Sprintf(`^\d{%d}$`, n))
		if err != nil || !re.MatchString(text) {
			return message(fmt.Sprintf("Must be exactly %d digits", n)), true
		}
	case models.RuleMinLength:
		n, _ := strconv.Atoi(rule.Value)
		if utf8.RuneCountInString(text) < n {
			return message(fmt.Sprintf("Must be at least %d characters", n)), true
		}
	case models.RuleMaxLength:
		n, _ := strconv.Atoi(rule.Value)
		if utf8.RuneCountInString(text) > n {
			return message(fmt.Sprintf("Must be at most %d characters", n)), true
		}
	}
	return "", false
}

// isEmptyRaw treats nil, blank strings and empty lists as absent.
func isEmptyRaw(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}
