package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Topics other systems subscribe to.
const (
	TopicSurveyPublished   = "survey.published"
	TopicResponseSubmitted = "response.submitted"
)

// SurveyPublishedEvent announces a survey going live.
type SurveyPublishedEvent struct {
	SurveyID    uint      `json:"survey_id"`
	OwnerID     string    `json:"owner_id"`
	PublishedAt time.Time `json:"published_at"`
}

// ResponseSubmittedEvent announces one accepted submission.
type ResponseSubmittedEvent struct {
	SurveyID    uint      `json:"survey_id"`
	ResponseID  uint      `json:"response_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// eventService publishes domain events through a watermill publisher.
// Publishing is best-effort: failures are logged and never reach the request
// path, so a broker outage cannot block saves or submissions.
type eventService struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func NewEventService(publisher message.Publisher, logger *slog.Logger) EventService {
	return &eventService{
		publisher: publisher,
		logger:    logger,
	}
}

// NewKafkaPublisher builds the Kafka-backed publisher used in production.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (message.Publisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return publisher, nil
}

func (s *eventService) SurveyPublished(ctx context.Context, surveyID uint, ownerID string) {
	s.publish(TopicSurveyPublished, SurveyPublishedEvent{
		SurveyID:    surveyID,
		OwnerID:     ownerID,
		PublishedAt: time.Now(),
	})
}

func (s *eventService) ResponseSubmitted(ctx context.Context, surveyID, responseID uint) {
	s.publish(TopicResponseSubmitted, ResponseSubmittedEvent{
		SurveyID:    surveyID,
		ResponseID:  responseID,
		SubmittedAt: time.Now(),
	})
}

func (s *eventService) publish(topic string, event interface{}) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal event", "topic", topic, "error", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.publisher.Publish(topic, msg); err != nil {
		s.logger.Error("Failed to publish event", "topic", topic, "error", err)
		return
	}

	s.logger.Debug("Event published", "topic", topic)
}

func (s *eventService) Close() error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Close()
}
