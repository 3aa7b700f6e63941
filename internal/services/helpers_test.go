package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devcatalyst/intake-service/internal/events"
	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/repositories/memory"
	"github.com/devcatalyst/intake-service/internal/schema"
	"github.com/devcatalyst/intake-service/internal/validator"
)

const primaryTitle = "Responses"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

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

type fixture struct {
	form      *models.FormSchema
	store     *memory.Store
	publisher *events.MockEventPublisher
	metrics   *metrics.Metrics
	validator *validator.Validator
}

func newFixture(t *testing.T, titles ...string) *fixture {
	t.Helper()
	form, err := schema.Default()
	require.NoError(t, err)
	return &fixture{
		form:      form,
		store:     memory.New(titles...),
		publisher: events.NewMockEventPublisher(testLogger()),
		metrics:   metrics.New(),
		validator: validator.New(),
	}
}

func (f *fixture) intake() IntakeService {
	return NewIntakeService(f.store, f.form, f.validator, f.publisher, f.metrics, testLogger(), IntakeOptions{
		PrimarySheet:          primaryTitle,
		SerializeHeaderWrites: true,
	})
}

func (f *fixture) aggregation() AggregationService {
	return NewAggregationService(f.store, f.form, f.metrics, testLogger(), primaryTitle)
}

func (f *fixture) evaluation() EvaluationService {
	return NewEvaluationService(f.store, f.validator, f.publisher, f.metrics, testLogger(), true)
}
