package analytics

import (
	"context"

	"github.com/serroba/eightbin/internal/messaging"
	"go.uber.org/zap"
)

// Store persists analytics events.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveFileUploaded(ctx context.Context, event *FileUploadedEvent) error
}

// RegisterConsumers adds one consumer per topic to group, all writing to store.
func RegisterConsumers(group *messaging.ConsumerGroup, store Store, logger *zap.Logger) {
	group.Add(messaging.NewConsumer(group.Subscriber(), TopicLinkCreated, store.SaveLinkCreated, logger))
	group.Add(messaging.NewConsumer(group.Subscriber(), TopicFileUploaded, store.SaveFileUploaded, logger))
}
