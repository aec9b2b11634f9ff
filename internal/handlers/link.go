// Package handlers binds the link and file services to HTTP operations.
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/serroba/eightbin/internal/analytics"
	"github.com/serroba/eightbin/internal/messaging"
	"github.com/serroba/eightbin/internal/metrics"
	"github.com/serroba/eightbin/internal/shortener"
	"go.uber.org/zap"
)

// LinkHandler handles POST /shorten.
type LinkHandler struct {
	service *shortener.LinkService
	baseURL string
	publish messaging.Publish[analytics.LinkCreatedEvent]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewLinkHandler creates a link handler. baseURL is the public bucket website
// address that short codes are appended to.
func NewLinkHandler(
	service *shortener.LinkService,
	baseURL string,
	publish messaging.Publish[analytics.LinkCreatedEvent],
	m *metrics.Metrics,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service: service,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		publish: publish,
		metrics: m,
		logger:  logger,
	}
}

func (h *LinkHandler) Shorten(ctx context.Context, req *ShortenRequest) (*URLResponse, error) {
	link, err := h.service.Shorten(ctx, string(req.RawBody))
	if err != nil {
		f := classify(err, "failed to shorten url")
		h.metrics.RequestFailed("shorten", f.kind)
		h.logger.Error("shorten failed",
			zap.String("kind", f.kind),
			zap.String("namespace", shortener.NamespaceLinks.Label()),
			zap.Error(err),
		)

		return nil, NewAPIError(f.status, f.message)
	}

	h.metrics.LinksCreated.Inc()

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Code:      link.Code,
		Target:    link.Target,
		CreatedAt: time.Now().UTC(),
		RequestID: meta.RequestID,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publish(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("key", link.Key()),
			zap.Error(err),
		)
	}

	return newURLResponse(h.baseURL, link.Key()), nil
}
