package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/schema"
)

func technicalAnswers() models.AnswerSet {
	return models.AnswerSet{
		"full_name":                "Asha Rao",
		"roll_number":              "1608-25-733-019",
		"branch":                   "CSE",
		"email":                    "asha@example.com",
		"phone":                    "9876543210",
		"why_join":                 "I want to build real projects with people who care about shipping them well.",
		"goals":                    "Ship two projects.",
		"prioritization_scenario":  "Study first, then help.",
		"time_commitment":          "5-7 hours",
		"team_failure_experience":  "Our demo broke, I fixed the build.",
		"event_experience":         "No",
		"event_experience_details": "Plan backwards from the date.",
		"crisis_management":        "2, 3, 1",
		"event_success_factors":    "Detailed planning",
		"selected_track":           "Technical Team",
		"tech_skills":              []any{"Web development", "AI/ML"},
		"github_link":              "https://github.com/asha",
		"learning_approach":        "Read docs, prototype, iterate.",
		"tech_struggle":            "A race condition, two days.",
		"tech_blocker":             "Rust, time.",
		"collaboration_style":      "Support others and fill gaps wherever needed",
		"culture_fit":              "Flexible/Adaptable",
		"conflict_resolution":      "Talk to them directly.",
		"honesty_check":            float64(6),
	}
}

func loadDefault(t *testing.T) *models.FormSchema {
	t.Helper()
	s, err := schema.Default()
	require.NoError(t, err)
	return s
}

func TestValidateAnswers_ValidTechnicalApplication(t *testing.T) {
	s := loadDefault(t)
	errs := New().ValidateAnswers(s, technicalAnswers())
	assert.Empty(t, errs)
}

func TestValidateAnswers_RollNumber(t *testing.T) {
	s := loadDefault(t)
	v := New()

	tests := []struct {
		name    string
		roll    string
		wantErr bool
	}{
		{"valid", "1608-25-733-019", false},
		{"one digit short", "1608-25-733-19", true},
		{"wrong college code", "1609-25-733-019", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := technicalAnswers()
			answers["roll_number"] = tt.roll

			errs := v.ValidateAnswers(s, answers)
			if !tt.wantErr {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, "roll_number", errs[0].Field)
			assert.Equal(t, string(models.RulePattern), errs[0].Rule)
			assert.Equal(t, "Format must be 1608-YY-XXX-XXX (e.g., 1608-25-733-019)", errs[0].Message)
		})
	}
}

func TestValidateAnswers_RequiredIsExclusive(t *testing.T) {
	s := loadDefault(t)
	v := New()

	tests := []struct {
		name  string
		field string
		value any
		drop  bool
	}{
		{"empty string", "email", "", false},
		{"whitespace", "roll_number", "   ", false},
		{"absent key", "phone", nil, true},
		{"empty array", "culture_fit", []any{}, false},
		{"null", "why_join", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := technicalAnswers()
			if tt.drop {
				delete(answers, tt.field)
			} else {
				answers[tt.field] = tt.value
			}

			errs := v.ValidateAnswers(s, answers)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, RuleRequired, errs[0].Rule)
			assert.Equal(t, MsgRequired, errs[0].Message)
		})
	}
}

func TestValidateAnswers_HiddenSectionDropsErrors(t *testing.T) {
	s := loadDefault(t)
	v := New()

	answers := technicalAnswers()
	answers["github_link"] = "not a url"
	delete(answers, "tech_struggle")

	errs := v.ValidateAnswers(s, answers)
	assert.Contains(t, errs.ByField(), "github_link")
	assert.Contains(t, errs.ByField(), "tech_struggle")

	// Switching track hides the technical section; its stale answers remain
	// in the set but no longer produce errors.
	answers["selected_track"] = "Outreach Team"
	answers["cold_outreach_exp"] = "Yes, it went fine."
	answers["email_writing_exercise"] = "Dear founder..."
	answers["sponsorship_strategy"] = "Start local."

	errs = v.ValidateAnswers(s, answers)
	assert.Empty(t, errs)
	assert.Equal(t, "not a url", answers["github_link"])
}

func TestValidateAnswer_FirstFailureWins(t *testing.T) {
	v := New()
	q := models.Question{
		ID:   "handle",
		Type: models.QuestionText,
		Rules: []models.Rule{
			{Kind: models.RuleMinLength, Value: "5", Message: "too short"},
			{Kind: models.RulePattern, Value: `^@`, Message: "must start with @"},
		},
	}

	err := v.ValidateAnswer(q, "abc")
	require.NotNil(t, err)
	assert.Equal(t, "too short", err.Message)

	err = v.ValidateAnswer(q, "abcdef")
	require.NotNil(t, err)
	assert.Equal(t, "must start with @", err.Message)

	assert.Nil(t, v.ValidateAnswer(q, "@abcdef"))
}

func TestValidateAnswer_Kinds(t *testing.T) {
	v := New()
	one, ten := 1.0, 10.0

	tests := []struct {
		name     string
		question models.Question
		raw      any
		wantRule string
	}{
		{"text rejects number", models.Question{ID: "q", Type: models.QuestionText}, 12.0, RuleType},
		{"radio option", models.Question{ID: "q", Type: models.QuestionRadio, Options: []string{"Yes", "No"}}, "Maybe", RuleOption},
		{"radio ok", models.Question{ID: "q", Type: models.QuestionRadio, Options: []string{"Yes", "No"}}, "Yes", ""},
		{"checkbox needs list", models.Question{ID: "q", Type: models.QuestionCheckbox, Options: []string{"A"}}, "A", RuleType},
		{"checkbox unknown option", models.Question{ID: "q", Type: models.QuestionCheckbox, Options: []string{"A"}}, []any{"A", "B"}, RuleOption},
		{"checkbox ok", models.Question{ID: "q", Type: models.QuestionCheckbox, Options: []string{"A", "B"}}, []string{"B", "A"}, ""},
		{"scale above max", models.Question{ID: "q", Type: models.QuestionScale, Min: &one, Max: &ten}, 11.0, RuleRange},
		{"scale fractional", models.Question{ID: "q", Type: models.QuestionScale, Min: &one, Max: &ten}, 2.5, RuleRange},
		{"scale numeric string", models.Question{ID: "q", Type: models.QuestionScale, Min: &one, Max: &ten}, "7", ""},
		{"scale not a number", models.Question{ID: "q", Type: models.QuestionScale, Min: &one, Max: &ten}, "lots", RuleType},
		{"email rule", models.Question{ID: "q", Type: models.QuestionText, Rules: []models.Rule{{Kind: models.RuleEmail}}}, "nope", string(models.RuleEmail)},
		{"digits rule", models.Question{ID: "q", Type: models.QuestionText, Rules: []models.Rule{{Kind: models.RuleDigits, Value: "10"}}}, "98765-4321", string(models.RuleDigits)},
		{"optional empty", models.Question{ID: "q", Type: models.QuestionText, Rules: []models.Rule{{Kind: models.RuleURL}}}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAnswer(tt.question, tt.raw)
			if tt.wantRule == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantRule, err.Rule)
		})
	}
}

func TestRender(t *testing.T) {
	s := loadDefault(t)
	view := Render(s)

	require.Len(t, view.Sections, len(s.Sections))
	var honesty FieldView
	for _, section := range view.Sections {
		for _, f := range section.Fields {
			if f.ID == "honesty_check" {
				honesty = f
			}
		}
	}
	assert.Equal(t, "scale", honesty.Widget)
	require.NotNil(t, honesty.Max)
	assert.Equal(t, 10.0, *honesty.Max)
}

func TestValidateStruct_CustomTags(t *testing.T) {
	type req struct {
		Status string `json:"status" validate:"review_status"`
		Team   string `json:"team" validate:"evaluation_team"`
		Roll   string `json:"roll_number" validate:"roll_number"`
	}
	v := New()

	assert.NoError(t, v.Validate(req{Status: "accepted", Team: "Tech", Roll: "1608-25-733-019"}))

	err := v.Validate(req{Status: "maybe", Team: "design", Roll: "1608"})
	require.Error(t, err)
	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, errs, 3)
	assert.Equal(t, "status", errs[0].Field)
}
