package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of intake events
type EventType string

const (
	EventSubmissionReceived EventType = "submission.received"
	EventEvaluationRecorded EventType = "evaluation.recorded"
)

const (
	eventSource  = "intake-service"
	eventVersion = "1.0"
)

// IntakeEvent is the envelope for every published event
type IntakeEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// SubmissionReceivedEvent carries identifying fields only, never free-text answers.
type SubmissionReceivedEvent struct {
	SubmissionID string    `json:"submission_id"`
	Sheet        string    `json:"sheet"`
	Track        string    `json:"track,omitempty"`
	RollNumber   string    `json:"roll_number,omitempty"`
	Columns      int       `json:"columns"`
	ReceivedAt   time.Time `json:"received_at"`
}

type EvaluationRecordedEvent struct {
	Team       string    `json:"team"`
	Sheet      string    `json:"sheet"`
	RollNumber string    `json:"roll_number"`
	Evaluator  string    `json:"evaluator"`
	Total      float64   `json:"total"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Event factory functions

func NewSubmissionReceivedEvent(data SubmissionReceivedEvent) *IntakeEvent {
	return newEvent(EventSubmissionReceived, data)
}

func NewEvaluationRecordedEvent(data EvaluationRecordedEvent) *IntakeEvent {
	return newEvent(EventEvaluationRecorded, data)
}

func newEvent(t EventType, data interface{}) *IntakeEvent {
	return &IntakeEvent{
		ID:        GenerateEventID(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// GenerateEventID returns a random event id
func GenerateEventID() string {
	return uuid.NewString()
}
