package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcatalyst/intake-service/internal/events"
	"github.com/devcatalyst/intake-service/internal/models"
)

func evaluationRequest() *models.EvaluationRequest {
	return &models.EvaluationRequest{
		Team:          "Technical Team",
		CandidateName: "Asha Rao",
		RollNumber:    "1608-25-733-019",
		Branch:        "CSE",
		Remarks:       "Strong fundamentals",
		Scores: []models.ParameterScore{
			{Name: "Problem Solving", Score: "8"},
			{Name: "Communication", Score: "7.5"},
			{Name: "Attitude", Score: "n/a"},
		},
	}
}

func TestTeamKeyword(t *testing.T) {
	tests := []struct {
		team string
		want string
		ok   bool
	}{
		{team: "core", want: models.TeamCore, ok: true},
		{team: "Technical Team", want: models.TeamTech, ok: true},
		{team: "CONTENT", want: models.TeamContent, ok: true},
		{team: "Social Media Team", want: models.TeamSocial, ok: true},
		{team: "outreach", want: models.TeamOutreach, ok: true},
		{team: "design", ok: false},
		{team: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.team, func(t *testing.T) {
			got, ok := TeamKeyword(tt.team)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluationService_Record(t *testing.T) {
	f := newFixture(t, primaryTitle, "Tech Evaluations")
	ctx := context.Background()

	evaluation, err := f.evaluation().Record(ctx, evaluationRequest())
	require.NoError(t, err)
	assert.Equal(t, "Tech Evaluations", evaluation.Sheet)
	assert.Equal(t, models.TeamTech, evaluation.Team)
	assert.Equal(t, 15.5, evaluation.Total)

	headers, err := f.store.HeaderRow(ctx, "Tech Evaluations")
	require.NoError(t, err)
	assert.Equal(t, []string{
		ColumnEvaluationTimestamp, ColumnEvaluator, ColumnCandidateName, ColumnRollNumber,
		ColumnBranch, ColumnRemarks, "Problem Solving", "Communication", "Attitude", ColumnScore,
	}, headers)

	rows, err := f.store.Rows(ctx, "Tech Evaluations")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AnonymousName, rows[0][ColumnEvaluator])
	assert.Equal(t, "15.5", rows[0][ColumnScore])
	assert.Equal(t, "n/a", rows[0]["Attitude"])

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventEvaluationRecorded, published[0].Type)
}

func TestEvaluationService_NewParameterExtendsHeader(t *testing.T) {
	f := newFixture(t, "tech")
	ctx := context.Background()
	svc := f.evaluation()

	_, err := svc.Record(ctx, evaluationRequest())
	require.NoError(t, err)

	req := evaluationRequest()
	req.Evaluator = "Meera"
	req.Scores = append(req.Scores, models.ParameterScore{Name: "Depth", Score: "4"})
	_, err = svc.Record(ctx, req)
	require.NoError(t, err)

	headers, err := f.store.HeaderRow(ctx, "tech")
	require.NoError(t, err)
	assert.Equal(t, "Depth", headers[len(headers)-1])
	assert.Equal(t, ColumnScore, headers[len(headers)-2], "existing columns never move")

	rows, err := f.store.Rows(ctx, "tech")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0]["Depth"])
	assert.Equal(t, "4", rows[1]["Depth"])
	assert.Equal(t, "Meera", rows[1][ColumnEvaluator])
}

func TestEvaluationService_RepeatedParameterKeepsLastValue(t *testing.T) {
	row, total := evaluationRow(&models.EvaluationRequest{
		CandidateName: "A",
		RollNumber:    "R",
		Scores: []models.ParameterScore{
			{Name: "Depth", Score: "2"},
			{Name: "Depth", Score: "5"},
		},
	}, mustTime(t))

	assert.Equal(t, 5.0, total)
	assert.Len(t, row, 8)
	value, ok := row.Get("Depth")
	assert.True(t, ok)
	assert.Equal(t, "5", value)
}

func TestEvaluationService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tabs   []string
		mutate func(*models.EvaluationRequest)
		check  func(error) bool
	}{
		{name: "missing tab", tabs: []string{primaryTitle}, check: IsNotFound},
		{name: "unknown team", tabs: []string{"design"}, mutate: func(r *models.EvaluationRequest) { r.Team = "design" }, check: IsNotFound},
		{name: "missing candidate", tabs: []string{"tech"}, mutate: func(r *models.EvaluationRequest) { r.CandidateName = "" }, check: IsValidation},
		{name: "unnamed parameter", tabs: []string{"tech"}, mutate: func(r *models.EvaluationRequest) { r.Scores[0].Name = "" }, check: IsValidation},
		{name: "reserved parameter", tabs: []string{"tech"}, mutate: func(r *models.EvaluationRequest) { r.Scores[0].Name = "Score" }, check: IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.tabs...)
			req := evaluationRequest()
			if tt.mutate != nil {
				tt.mutate(req)
			}
			_, err := f.evaluation().Record(context.Background(), req)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.Empty(t, f.publisher.GetPublishedEvents())
		})
	}
}
