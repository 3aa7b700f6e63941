package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/devcatalyst/intake-service/internal/models"
)

// FieldView is what a renderer needs to draw one question.
type FieldView struct {
	ID          string              `json:"id"`
	Type        models.QuestionType `json:"type"`
	Widget      string              `json:"widget"`
	Text        string              `json:"text"`
	Description string              `json:"description,omitempty"`
	Placeholder string              `json:"placeholder,omitempty"`
	Required    bool                `json:"required"`
	Multiple    bool                `json:"multiple,omitempty"`
	Options     []string            `json:"options,omitempty"`
	Min         *float64            `json:"min,omitempty"`
	Max         *float64            `json:"max,omitempty"`
	MinLabel    string              `json:"min_label,omitempty"`
	MaxLabel    string              `json:"max_label,omitempty"`
}

// FieldKind is the behaviour attached to one question type.
type FieldKind interface {
	Render(q models.Question) FieldView
	// Parse converts a decoded JSON value. It is only called for non-empty values.
	Parse(raw any) (models.Value, error)
	// Validate runs the type's own checks, before any rules.
	Validate(q models.Question, v models.Value) *ValidationError
}

var kinds = map[models.QuestionType]FieldKind{
	models.QuestionText:     textKind{widget: "input"},
	models.QuestionTextarea: textKind{widget: "textarea"},
	models.QuestionRanking:  textKind{widget: "ranking"},
	models.QuestionRadio:    choiceKind{widget: "radio"},
	models.QuestionSelect:   choiceKind{widget: "select"},
	models.QuestionCheckbox: multiChoiceKind{},
	models.QuestionScale:    scaleKind{},
}

// KindOf returns the field kind for a question type.
func KindOf(t models.QuestionType) (FieldKind, bool) {
	k, ok := kinds[t]
	return k, ok
}

func baseView(q models.Question, widget string) FieldView {
	return FieldView{
		ID:          q.ID,
		Type:        q.Type,
		Widget:      widget,
		Text:        q.Text,
		Description: q.Description,
		Placeholder: q.Placeholder,
		Required:    q.Required,
	}
}

type typeError struct{ msg string }

func (e typeError) Error() string { return e.msg }

// textKind covers free text. Ranking answers are collected as free text too.
type textKind struct{ widget string }

func (k textKind) Render(q models.Question) FieldView { return baseView(q, k.widget) }

func (textKind) Parse(raw any) (models.Value, error) {
	s, ok := raw.(string)
	if !ok {
		return models.Value{}, typeError{MsgText}
	}
	return models.StringValue(s), nil
}

func (textKind) Validate(models.Question, models.Value) *ValidationError { return nil }

type choiceKind struct{ widget string }

func (k choiceKind) Render(q models.Question) FieldView {
	v := baseView(q, k.widget)
	v.Options = q.Options
	return v
}

func (choiceKind) Parse(raw any) (models.Value, error) {
	s, ok := raw.(string)
	if !ok {
		return models.Value{}, typeError{MsgText}
	}
	return models.StringValue(s), nil
}

func (choiceKind) Validate(q models.Question, v models.Value) *ValidationError {
	if !contains(q.Options, v.Str) {
		return fieldError(q, MsgOption, RuleOption, v.Str)
	}
	return nil
}

type multiChoiceKind struct{}

func (multiChoiceKind) Render(q models.Question) FieldView {
	v := baseView(q, "checkbox")
	v.Multiple = true
	v.Options = q.Options
	return v
}

func (multiChoiceKind) Parse(raw any) (models.Value, error) {
	switch items := raw.(type) {
	case []string:
		return models.ListValue(append([]string(nil), items...)), nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return models.Value{}, typeError{MsgList}
			}
			out = append(out, s)
		}
		return models.ListValue(out), nil
	default:
		return models.Value{}, typeError{MsgList}
	}
}

func (multiChoiceKind) Validate(q models.Question, v models.Value) *ValidationError {
	for _, item := range v.List {
		if !contains(q.Options, item) {
			return fieldError(q, MsgOption, RuleOption, item)
		}
	}
	return nil
}

type scaleKind struct{}

func (scaleKind) Render(q models.Question) FieldView {
	v := baseView(q, "scale")
	v.Min, v.Max = q.Min, q.Max
	v.MinLabel, v.MaxLabel = q.MinLabel, q.MaxLabel
	return v
}

func (scaleKind) Parse(raw any) (models.Value, error) {
	switch n := raw.(type) {
	case float64:
		return models.NumberValue(n), nil
	case int:
		return models.NumberValue(float64(n)), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return models.Value{}, typeError{MsgNumber}
		}
		return models.NumberValue(f), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return models.Value{}, typeError{MsgNumber}
		}
		return models.NumberValue(f), nil
	default:
		return models.Value{}, typeError{MsgNumber}
	}
}

func (scaleKind) Validate(q models.Question, v models.Value) *ValidationError {
	outOfRange := v.Num != math.Trunc(v.Num) ||
		(q.Min != nil && v.Num < *q.Min) ||
		(q.Max != nil && v.Num > *q.Max)
	if !outOfRange {
		return nil
	}
	msg := "Must be a whole number"
	if q.Min != nil && q.Max != nil {
		msg = fmt.Sprintf("Must be between %s and %s", formatNum(*q.Min), formatNum(*q.Max))
	}
	return fieldError(q, msg, RuleRange, v.Num)
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
