package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewMessage(t *testing.T) {
	event := NewSubmissionReceivedEvent(SubmissionReceivedEvent{
		SubmissionID: "sub-1",
		Sheet:        "Responses",
		Track:        "Technical Team",
		Columns:      60,
		ReceivedAt:   time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
	})

	msg, err := NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.ID, msg.UUID)
	assert.Equal(t, "submission.received", msg.Metadata.Get("event_type"))
	assert.Equal(t, "intake-service", msg.Metadata.Get("source"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	data := decoded["data"].(map[string]interface{})
	assert.Equal(t, "sub-1", data["submission_id"])
	assert.Equal(t, "Technical Team", data["track"])
}

func TestMockEventPublisher(t *testing.T) {
	ctx := context.Background()
	p := NewMockEventPublisher(testLogger())

	require.NoError(t, p.PublishIntakeEvent(ctx, NewEvaluationRecordedEvent(EvaluationRecordedEvent{Team: "tech", RollNumber: "R1", Total: 8})))
	events := p.GetPublishedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventEvaluationRecorded, events[0].Type)

	p.ClearEvents()
	assert.Empty(t, p.GetPublishedEvents())

	p.Err = errors.New("broker down")
	assert.Error(t, p.PublishIntakeEvent(ctx, NewSubmissionReceivedEvent(SubmissionReceivedEvent{})))
}

func TestGenerateEventID(t *testing.T) {
	assert.NotEqual(t, GenerateEventID(), GenerateEventID())
}
