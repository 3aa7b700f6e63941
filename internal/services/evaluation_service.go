package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/devcatalyst/intake-service/internal/events"
	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/repositories"
	"github.com/devcatalyst/intake-service/internal/validator"
)

// Fixed evaluation columns, in row order. Parameter columns follow, then ColumnScore.
const (
	ColumnEvaluationTimestamp = "Evaluation Timestamp"
	ColumnEvaluator           = "Evaluator"
	ColumnCandidateName       = "Candidate Name"
	ColumnRollNumber          = "Roll Number"
	ColumnBranch              = "Branch"
	ColumnRemarks             = "Remarks"
	ColumnScore               = "Score"
)

var reservedEvaluationColumns = map[string]bool{
	ColumnEvaluationTimestamp: true,
	ColumnEvaluator:           true,
	ColumnCandidateName:       true,
	ColumnRollNumber:          true,
	ColumnBranch:              true,
	ColumnRemarks:             true,
	ColumnScore:               true,
}

// teamKeywords is checked in order; the first keyword contained in the team
// name selects the tab.
var teamKeywords = []string{
	models.TeamCore,
	models.TeamTech,
	models.TeamContent,
	models.TeamSocial,
	models.TeamOutreach,
}

// TeamKeyword maps a team name to its tab keyword.
func TeamKeyword(team string) (string, bool) {
	team = strings.ToLower(strings.TrimSpace(team))
	if team == "" {
		return "", false
	}
	for _, keyword := range teamKeywords {
		if strings.Contains(team, keyword) {
			return keyword, true
		}
	}
	return "", false
}

type evaluationService struct {
	store     repositories.TabularStore
	validator *validator.Validator
	publisher events.EventPublisher
	metrics   *metrics.Metrics
	logger    *ServiceLogger
	writer    *sheetWriter
	now       func() time.Time
}

func NewEvaluationService(
	store repositories.TabularStore,
	v *validator.Validator,
	publisher events.EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	serializeHeaderWrites bool,
) EvaluationService {
	return &evaluationService{
		store:     store,
		validator: v,
		publisher: publisher,
		metrics:   m,
		logger:    NewServiceLogger(logger, LogConfig{Service: "intake-service", Component: "evaluation"}),
		writer:    &sheetWriter{store: store, locks: newSheetLocks(serializeHeaderWrites), metrics: m},
		now:       time.Now,
	}
}

func (s *evaluationService) Record(ctx context.Context, req *models.EvaluationRequest) (*models.Evaluation, error) {
	op := s.logger.WithOperation(ctx, "record_evaluation")

	evaluation, err := s.record(ctx, req)

	team, _ := TeamKeyword(req.Team)
	if team == "" {
		team = "unknown"
	}
	s.metrics.Evaluations.WithLabelValues(team, outcome(err)).Inc()
	op.LogResult(req.RollNumber, err)
	return evaluation, err
}

func (s *evaluationService) record(ctx context.Context, req *models.EvaluationRequest) (*models.Evaluation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	for _, p := range req.Scores {
		if reservedEvaluationColumns[strings.TrimSpace(p.Name)] {
			return nil, invalid("scores", fmt.Sprintf("%q is a reserved column name", p.Name), p.Name)
		}
	}

	keyword, ok := TeamKeyword(req.Team)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, req.Team)
	}
	if s.store == nil {
		return nil, NewConfigurationError("STORE_BACKEND", "tabular store credentials are not configured")
	}

	sheets, err := s.store.ListSheets(ctx)
	if err != nil {
		return nil, NewStoreError("list sheets", err)
	}
	sheet, ok := repositories.FindSheet(sheets, keyword)
	if !ok {
		return nil, NewNotFoundError("sheet", keyword)
	}

	recordedAt := s.now().UTC()
	row, total := evaluationRow(req, recordedAt)
	if err := s.writer.Append(ctx, sheet, row); err != nil {
		return nil, err
	}

	evaluation := &models.Evaluation{
		Team:       keyword,
		Sheet:      sheet.Title,
		RecordedAt: recordedAt,
		Total:      total,
		Row:        row,
	}

	if s.publisher != nil {
		event := events.NewEvaluationRecordedEvent(events.EvaluationRecordedEvent{
			Team:       keyword,
			Sheet:      sheet.Title,
			RollNumber: req.RollNumber,
			Evaluator:  row[1].Value,
			Total:      total,
			RecordedAt: recordedAt,
		})
		if err := s.publisher.PublishIntakeEvent(ctx, event); err != nil {
			s.logger.Logger().WarnContext(ctx, "Failed to publish evaluation event", "error", err)
		}
	}
	return evaluation, nil
}

// evaluationRow builds the flat row and the sum of numeric parameter scores.
// A repeated parameter keeps its first position and its last value.
func evaluationRow(req *models.EvaluationRequest, recordedAt time.Time) (models.Row, float64) {
	evaluator := strings.TrimSpace(req.Evaluator)
	if evaluator == "" {
		evaluator = models.AnonymousName
	}

	fixed := models.Row{
		{Column: ColumnEvaluationTimestamp, Value: recordedAt.Format(time.RFC3339)},
		{Column: ColumnEvaluator, Value: evaluator},
		{Column: ColumnCandidateName, Value: strings.TrimSpace(req.CandidateName)},
		{Column: ColumnRollNumber, Value: strings.TrimSpace(req.RollNumber)},
		{Column: ColumnBranch, Value: strings.TrimSpace(req.Branch)},
		{Column: ColumnRemarks, Value: req.Remarks},
	}
	row := fixed

	position := make(map[string]int, len(req.Scores))
	for _, p := range req.Scores {
		name := strings.TrimSpace(p.Name)
		value := strings.TrimSpace(p.Score)
		if i, ok := position[name]; ok {
			row[i].Value = value
			continue
		}
		position[name] = len(row)
		row = append(row, models.Cell{Column: name, Value: value})
	}

	var total float64
	for _, cell := range row[len(fixed):] {
		if n, err := strconv.ParseFloat(cell.Value, 64); err == nil {
			total += n
		}
	}
	row = append(row, models.Cell{Column: ColumnScore, Value: strconv.FormatFloat(total, 'f', -1, 64)})
	return row, total
}
