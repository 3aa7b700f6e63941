package services

import (
	"context"
	"io"

	"github.com/devcatalyst/intake-service/internal/models"
)

// ===== SERVICE INTERFACES =====

type IntakeService interface {
	// Submit validates, flattens and appends an application to the primary sheet.
	Submit(ctx context.Context, answers models.AnswerSet, submissionID string) (*models.Submission, error)
	// SubmitToTrack appends to the tab matching a track's keyword. The tab is never created.
	SubmitToTrack(ctx context.Context, track string, answers models.AnswerSet, submissionID string) (*models.Submission, error)
	// CheckRollNumber reports whether the primary sheet already holds the roll number.
	CheckRollNumber(ctx context.Context, rollNumber string) (bool, error)
	Form() *models.FormSchema
}

type AggregationService interface {
	Aggregate(ctx context.Context) ([]models.CandidateAggregate, error)
	// Export writes the aggregate set as an xlsx workbook.
	Export(ctx context.Context, w io.Writer) error
}

type EvaluationService interface {
	Record(ctx context.Context, req *models.EvaluationRequest) (*models.Evaluation, error)
}

type SessionService interface {
	Login(ctx context.Context, password string) (*models.Session, error)
	LoginEvaluation(ctx context.Context, team, password string) (*models.Session, error)
	Validate(ctx context.Context, token string, scope models.SessionScope) (*models.Session, error)
	Logout(ctx context.Context, token string) error
}

// ServiceManager groups the services the HTTP layer depends on.
type ServiceManager interface {
	Intake() IntakeService
	Aggregation() AggregationService
	Evaluation() EvaluationService
	Session() SessionService
}

type serviceManager struct {
	intake      IntakeService
	aggregation AggregationService
	evaluation  EvaluationService
	session     SessionService
}

func NewServiceManager(intake IntakeService, aggregation AggregationService, evaluation EvaluationService, session SessionService) ServiceManager {
	return &serviceManager{
		intake:      intake,
		aggregation: aggregation,
		evaluation:  evaluation,
		session:     session,
	}
}

func (m *serviceManager) Intake() IntakeService           { return m.intake }
func (m *serviceManager) Aggregation() AggregationService { return m.aggregation }
func (m *serviceManager) Evaluation() EvaluationService   { return m.evaluation }
func (m *serviceManager) Session() SessionService         { return m.session }
