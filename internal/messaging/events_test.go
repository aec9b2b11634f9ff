package messaging_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/serroba/eightbin/internal/analytics"
	"github.com/serroba/eightbin/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// eventSink is an analytics.Store that hands events to the test.
type eventSink struct {
	links chan *analytics.LinkCreatedEvent
	files chan *analytics.FileUploadedEvent
}

func newEventSink() *eventSink {
	return &eventSink{
		links: make(chan *analytics.LinkCreatedEvent, 1),
		files: make(chan *analytics.FileUploadedEvent, 1),
	}
}

func (s *eventSink) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	s.links <- event

	return nil
}

func (s *eventSink) SaveFileUploaded(_ context.Context, event *analytics.FileUploadedEvent) error {
	s.files <- event

	return nil
}

func receive[T any](t *testing.T, ch <-chan *T) *T {
	t.Helper()

	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")

		return nil
	}
}

func TestAnalyticsEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{Persistent: true},
		messaging.NewZapLogger(zap.NewNop()),
	)
	sink := newEventSink()

	group := messaging.NewConsumerGroup(pubSub, zap.NewNop())
	analytics.RegisterConsumers(group, sink, zap.NewNop())

	require.NoError(t, group.Start(context.Background()))
	t.Cleanup(func() { _ = group.Shutdown() })

	createdAt := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("link.created reaches the store", func(t *testing.T) {
		publish := messaging.NewPublishFunc[analytics.LinkCreatedEvent](pubSub, analytics.TopicLinkCreated)

		require.NoError(t, publish(context.Background(), &analytics.LinkCreatedEvent{
			Code:      "aB3xY9",
			Target:    "http://example.org",
			CreatedAt: createdAt,
			RequestID: "req-1",
			ClientIP:  "203.0.113.7",
		}))

		got := receive(t, sink.links)
		assert.Equal(t, "aB3xY9", got.Code)
		assert.Equal(t, "http://example.org", got.Target)
		assert.True(t, createdAt.Equal(got.CreatedAt))
		assert.Equal(t, "req-1", got.RequestID)
	})

	t.Run("file.uploaded reaches the store", func(t *testing.T) {
		publish := messaging.NewPublishFunc[analytics.FileUploadedEvent](pubSub, analytics.TopicFileUploaded)

		require.NoError(t, publish(context.Background(), &analytics.FileUploadedEvent{
			Name:        "report.pdf",
			ContentType: "application/pdf",
			Size:        8,
			Alias:       true,
			ContentHash: analytics.ContentHash([]byte("%PDF-1.7")),
			UploadedAt:  createdAt,
		}))

		got := receive(t, sink.files)
		assert.Equal(t, "report.pdf", got.Name)
		assert.Equal(t, "application/pdf", got.ContentType)
		assert.Equal(t, 8, got.Size)
		assert.True(t, got.Alias)
		assert.Len(t, got.ContentHash, 16)
	})
}

func TestConsumerGroup_AnalyticsTopics(t *testing.T) {
	t.Run("names the topic that failed to subscribe", func(t *testing.T) {
		sub := &mockSubscriber{subscribeErr: errors.New("NOGROUP no such consumer group")}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		analytics.RegisterConsumers(group, newEventSink(), zap.NewNop())

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), analytics.TopicLinkCreated)
		assert.Contains(t, err.Error(), "NOGROUP")
	})

	t.Run("shutdown closes the shared subscriber once", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		analytics.RegisterConsumers(group, newEventSink(), zap.NewNop())

		require.NoError(t, group.Start(context.Background()))
		require.NoError(t, group.Shutdown())

		sub.mu.Lock()
		defer sub.mu.Unlock()

		assert.True(t, sub.closed)
	})
}
