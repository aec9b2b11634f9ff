// Package store holds analytics.Store implementations.
package store

import (
	"context"

	"github.com/serroba/eightbin/internal/analytics"
	"go.uber.org/zap"
)

// Noop logs events instead of persisting them.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	n.logger.Info("link created",
		zap.String("code", event.Code),
		zap.String("target", event.Target),
		zap.Time("createdAt", event.CreatedAt),
		zap.String("requestId", event.RequestID),
	)

	return nil
}

func (n *Noop) SaveFileUploaded(_ context.Context, event *analytics.FileUploadedEvent) error {
	n.logger.Info("file uploaded",
		zap.String("name", event.Name),
		zap.String("contentType", event.ContentType),
		zap.Int("size", event.Size),
		zap.Bool("alias", event.Alias),
		zap.String("contentHash", event.ContentHash),
		zap.String("requestId", event.RequestID),
	)

	return nil
}

var _ analytics.Store = (*Noop)(nil)
