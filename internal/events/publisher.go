package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher defines the interface for publishing intake events
type EventPublisher interface {
	PublishIntakeEvent(ctx context.Context, event *IntakeEvent) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Watermill with Kafka
type KafkaEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the event publisher
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaEventPublisher creates a new Kafka-based event publisher using Watermill
func NewKafkaEventPublisher(config PublisherConfig) (*KafkaEventPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisherConfig := kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, nil
}

// NewMessage encodes an event as a Watermill message with metadata headers.
func NewMessage(event *IntakeEvent) (*message.Message, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intake event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	return msg, nil
}

// PublishIntakeEvent publishes an intake event to Kafka
func (p *KafkaEventPublisher) PublishIntakeEvent(ctx context.Context, event *IntakeEvent) error {
	msg, err := NewMessage(event)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish intake event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish intake event: %w", err)
	}

	p.logger.Info("Published intake event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

// Close closes the publisher and releases resources
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher keeps events in memory; it backs the disabled mode and tests
type MockEventPublisher struct {
	mu     sync.Mutex
	events []IntakeEvent
	Logger *slog.Logger
	// Err, when set, is returned from every publish.
	Err error
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]IntakeEvent, 0),
		Logger: logger,
	}
}

// PublishIntakeEvent stores the event in memory
func (m *MockEventPublisher) PublishIntakeEvent(ctx context.Context, event *IntakeEvent) error {
	if m.Err != nil {
		return m.Err
	}
	if _, err := NewMessage(event); err != nil {
		return err
	}

	m.mu.Lock()
	m.events = append(m.events, *event)
	m.mu.Unlock()

	m.Logger.Debug("Mock: Published intake event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of all published events
func (m *MockEventPublisher) GetPublishedEvents() []IntakeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]IntakeEvent(nil), m.events...)
}

// ClearEvents clears all published events
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	m.events = make([]IntakeEvent, 0)
	m.mu.Unlock()
}
