package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

func newTestPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	t.Cleanup(func() { pubSub.Close() })
	return pubSub
}

func TestEventService_SurveyPublished(t *testing.T) {
	ctx := context.Background()
	pubSub := newTestPubSub(t)

	messages, err := pubSub.Subscribe(ctx, TopicSurveyPublished)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	svc := NewEventService(pubSub, logger)

	svc.SurveyPublished(ctx, 42, "user-1")

	select {
	case msg := <-messages:
		var event SurveyPublishedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			t.Fatalf("failed to unmarshal event: %v", err)
		}
		if event.SurveyID != 42 || event.OwnerID != "user-1" {
			t.Errorf("unexpected event: %+v", event)
		}
		if event.PublishedAt.IsZero() {
			t.Error("published_at not set")
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestEventService_ResponseSubmitted(t *testing.T) {
	ctx := context.Background()
	pubSub := newTestPubSub(t)

	messages, err := pubSub.Subscribe(ctx, TopicResponseSubmitted)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	svc := NewEventService(pubSub, logger)

	svc.ResponseSubmitted(ctx, 7, 1001)

	select {
	case msg := <-messages:
		var event ResponseSubmittedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			t.Fatalf("failed to unmarshal event: %v", err)
		}
		if event.SurveyID != 7 || event.ResponseID != 1001 {
			t.Errorf("unexpected event: %+v", event)
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestEventService_NilPublisherIsSafe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	svc := NewEventService(nil, logger)

	// Must not panic and must not block.
	svc.SurveyPublished(context.Background(), 1, "user-1")
	svc.ResponseSubmitted(context.Background(), 1, 2)

	if err := svc.Close(); err != nil {
		t.Errorf("close on nil publisher should succeed, got %v", err)
	}
}
