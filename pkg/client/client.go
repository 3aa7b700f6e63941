package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devcatalyst/intake-service/internal/models"
)

// Failure reasons reported by SubmitError.
const (
	ReasonNetwork = "network"
	ReasonServer  = "server"
)

// SubmitError is returned when a request does not complete with a 2xx status.
type SubmitError struct {
	Reason  string
	Status  int
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Reason == ReasonNetwork {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Ack is the server's acknowledgement of a stored application.
type Ack struct {
	SubmissionID string `json:"submission_id"`
	Message      string `json:"message"`
}

// Session is a dashboard or evaluation session token.
type Session struct {
	Token     string    `json:"token"`
	Track     string    `json:"track,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Client talks to the intake service API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	journal    Journal
	logger     *slog.Logger
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithJournal records every submission locally before it is sent.
func WithJournal(journal Journal) Option {
	return func(c *Client) {
		c.journal = journal
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithToken authenticates requests with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a new intake service client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Token returns the session token in use, if any.
func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Submit journals the answers, then posts them once. There is no retry:
// resubmitting after a failure may store a duplicate row.
func (c *Client) Submit(ctx context.Context, answers models.AnswerSet) (*Ack, error) {
	submissionID := uuid.NewString()

	if c.journal != nil {
		err := c.journal.Append(ctx, JournalEntry{
			SubmissionID: submissionID,
			Answers:      answers,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			c.logger.WarnContext(ctx, "Failed to journal submission", "submission_id", submissionID, "error", err)
		}
	}

	body, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/submit", bytes.NewReader(body), map[string]string{
		"X-Submission-ID": submissionID,
	})
	if err != nil {
		return nil, err
	}

	ack := &Ack{SubmissionID: submissionID, Message: resp.Message}
	if len(resp.Data) > 0 {
		var data struct {
			SubmissionID string `json:"submission_id"`
		}
		if err := json.Unmarshal(resp.Data, &data); err == nil && data.SubmissionID != "" {
			ack.SubmissionID = data.SubmissionID
		}
	}
	return ack, nil
}

// Login exchanges the dashboard password for a session and keeps its token.
func (c *Client) Login(ctx context.Context, password string) (*Session, error) {
	return c.login(ctx, "/api/v1/auth/check", map[string]string{"password": password})
}

// LoginEvaluation exchanges a team password for a team-scoped session.
func (c *Client) LoginEvaluation(ctx context.Context, team, password string) (*Session, error) {
	return c.login(ctx, "/api/v1/auth/evaluation", map[string]string{"team": team, "password": password})
}

func (c *Client) login(ctx context.Context, path string, req map[string]string) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), nil)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	c.token = session.Token
	return &session, nil
}

// FetchResponses returns the aggregated candidate records. Requires a dashboard session.
func (c *Client) FetchResponses(ctx context.Context) ([]models.CandidateAggregate, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/responses", nil, nil)
	if err != nil {
		return nil, err
	}

	var records []models.CandidateAggregate
	if err := json.Unmarshal(resp.Data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return records, nil
}

// CheckRollNumber reports whether an application already exists for the roll number.
func (c *Client) CheckRollNumber(ctx context.Context, rollNumber string) (bool, error) {
	body, err := json.Marshal(map[string]string{"roll_number": rollNumber})
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/api/v1/check-roll-number", bytes.NewReader(body), nil)
	if err != nil {
		return false, err
	}

	var result struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Exists, nil
}

// RecordEvaluation submits evaluator scores. Requires an evaluation session for the team.
func (c *Client) RecordEvaluation(ctx context.Context, req models.EvaluationRequest) (*models.Evaluation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/evaluations", bytes.NewReader(body), nil)
	if err != nil {
		return nil, err
	}

	var evaluation models.Evaluation
	if err := json.Unmarshal(resp.Data, &evaluation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &evaluation, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*envelope, error) {
	raw, err := c.do(ctx, method, path, body, headers)
	if err != nil {
		return nil, err
	}

	var resp envelope
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SubmitError{Reason: ReasonNetwork, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SubmitError{Reason: ReasonNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure envelope
		_ = json.Unmarshal(respBody, &failure)
		return nil, &SubmitError{Reason: ReasonServer, Status: resp.StatusCode, Message: failure.Message}
	}

	return respBody, nil
}
