package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devcatalyst/intake-service/internal/events"
	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/repositories"
	"github.com/devcatalyst/intake-service/internal/schema"
	"github.com/devcatalyst/intake-service/internal/validator"
)

// IntakeOptions carries the intake settings taken from config.Config.
type IntakeOptions struct {
	PrimarySheet          string
	SerializeHeaderWrites bool
}

type intakeService struct {
	store     repositories.TabularStore
	form      *models.FormSchema
	validator *validator.Validator
	publisher events.EventPublisher
	metrics   *metrics.Metrics
	logger    *ServiceLogger
	writer    *sheetWriter
	primary   string
	now       func() time.Time
}

// NewIntakeService builds the intake service. A nil store is allowed: every
// write then fails with a ConfigurationError.
func NewIntakeService(
	store repositories.TabularStore,
	form *models.FormSchema,
	v *validator.Validator,
	publisher events.EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts IntakeOptions,
) IntakeService {
	return &intakeService{
		store:     store,
		form:      form,
		validator: v,
		publisher: publisher,
		metrics:   m,
		logger:    NewServiceLogger(logger, LogConfig{Service: "intake-service", Component: "intake"}),
		writer:    &sheetWriter{store: store, locks: newSheetLocks(opts.SerializeHeaderWrites), metrics: m},
		primary:   opts.PrimarySheet,
		now:       time.Now,
	}
}

func (s *intakeService) Form() *models.FormSchema {
	return s.form
}

func (s *intakeService) Submit(ctx context.Context, answers models.AnswerSet, submissionID string) (*models.Submission, error) {
	return s.submit(ctx, "", answers, submissionID)
}

func (s *intakeService) SubmitToTrack(ctx context.Context, track string, answers models.AnswerSet, submissionID string) (*models.Submission, error) {
	if strings.TrimSpace(track) == "" {
		return nil, invalid("track", "track is required", track)
	}
	return s.submit(ctx, track, answers, submissionID)
}

func (s *intakeService) submit(ctx context.Context, track string, answers models.AnswerSet, submissionID string) (*models.Submission, error) {
	op := s.logger.WithOperation(ctx, "submit")

	sub, err := s.write(ctx, track, answers, submissionID)
	s.metrics.Submissions.WithLabelValues(outcome(err)).Inc()

	resource := s.primary
	if sub != nil {
		resource = sub.ID
	}
	op.LogResult(resource, err)
	return sub, err
}

func (s *intakeService) write(ctx context.Context, track string, answers models.AnswerSet, submissionID string) (*models.Submission, error) {
	if s.store == nil {
		return nil, NewConfigurationError("STORE_BACKEND", "tabular store credentials are not configured")
	}

	if errs := s.validator.ValidateAnswers(s.form, answers); len(errs) > 0 {
		for _, e := range errs {
			s.metrics.ValidationFails.WithLabelValues(e.Field).Inc()
		}
		s.logger.LogValidationError(ctx, "submit", errs)
		return nil, errs
	}

	sheets, err := s.store.ListSheets(ctx)
	if err != nil {
		return nil, NewStoreError("list sheets", err)
	}

	var target repositories.SheetInfo
	if track == "" {
		sheet, ok := resolvePrimary(sheets, s.primary)
		if !ok {
			return nil, NewNotFoundError("sheet", s.primary)
		}
		target = sheet
	} else {
		t, ok := s.form.TrackByName(track)
		if !ok {
			return nil, NewNotFoundError("track", track)
		}
		if err := s.checkSelectedTrack(t, answers); err != nil {
			s.metrics.ValidationFails.WithLabelValues("track").Inc()
			return nil, err
		}
		sheet, ok := repositories.FindSheet(sheets, t.Keyword)
		if !ok {
			return nil, NewNotFoundError("sheet", t.Keyword)
		}
		target = sheet
	}

	if submissionID = strings.TrimSpace(submissionID); submissionID == "" {
		submissionID = uuid.NewString()
	}
	submittedAt := s.now().UTC()
	row := schema.Flatten(s.form, answers, submittedAt, submissionID)

	if err := s.writer.Append(ctx, target, row); err != nil {
		return nil, err
	}

	sub := &models.Submission{
		ID:          submissionID,
		SubmittedAt: submittedAt,
		RollNumber:  strings.TrimSpace(answers.Raw(models.FieldRollNumber)),
		Row:         row,
	}
	if s.form.TrackField != "" {
		sub.Track = strings.TrimSpace(answers.Raw(s.form.TrackField))
	}

	s.publish(ctx, events.NewSubmissionReceivedEvent(events.SubmissionReceivedEvent{
		SubmissionID: sub.ID,
		Sheet:        target.Title,
		Track:        sub.Track,
		RollNumber:   sub.RollNumber,
		Columns:      len(row),
		ReceivedAt:   submittedAt,
	}))
	return sub, nil
}

// checkSelectedTrack rejects a track tab that disagrees with the track the
// applicant actually picked.
func (s *intakeService) checkSelectedTrack(target models.Track, answers models.AnswerSet) error {
	if s.form.TrackField == "" {
		return nil
	}
	selected := strings.TrimSpace(answers.Raw(s.form.TrackField))
	picked, ok := s.form.TrackByName(selected)
	if !ok || picked.Key != target.Key {
		return invalid("track", fmt.Sprintf("track %q does not match %s %q", target.Name, s.form.TrackField, selected), target.Name)
	}
	return nil
}

func (s *intakeService) CheckRollNumber(ctx context.Context, rollNumber string) (bool, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber == "" {
		return false, invalid(models.FieldRollNumber, "roll number is required", rollNumber)
	}
	if s.store == nil {
		return false, NewConfigurationError("STORE_BACKEND", "tabular store credentials are not configured")
	}

	sheets, err := s.store.ListSheets(ctx)
	if err != nil {
		return false, NewStoreError("list sheets", err)
	}
	sheet, ok := resolvePrimary(sheets, s.primary)
	if !ok {
		return false, nil
	}

	rows, err := s.store.Rows(ctx, sheet.Title)
	if err != nil {
		return false, NewStoreError("read rows", err)
	}

	column := models.FieldRollNumber
	if q, ok := s.form.Question(models.FieldRollNumber); ok {
		column = q.ColumnLabel()
	}
	for _, row := range rows {
		if strings.EqualFold(strings.TrimSpace(row[column]), rollNumber) {
			return true, nil
		}
	}
	return false, nil
}

// publish is best-effort; a failed publish never fails the write that caused it.
func (s *intakeService) publish(ctx context.Context, event *events.IntakeEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishIntakeEvent(ctx, event); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to publish intake event",
			"event_type", event.Type,
			"error", err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsValidation(err):
		return "invalid"
	case IsNotFound(err):
		return "not_found"
	case IsConfiguration(err):
		return "misconfigured"
	default:
		return "error"
	}
}
