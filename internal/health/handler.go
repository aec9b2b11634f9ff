// Package health serves the liveness and dependency report of the API.
package health

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/eightbin/internal/ratelimit"
	"go.uber.org/zap"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler reports the state of each named dependency.
type Handler struct {
	checks map[string]Checker
	logger *zap.Logger
}

// NewHandler creates a new health handler.
func NewHandler(checks map[string]Checker, logger *zap.Logger) *Handler {
	return &Handler{checks: checks, logger: logger}
}

// Response is the response for health check endpoint.
type Response struct {
	Status int
	Body   struct {
		Status string            `json:"status" enum:"ok,degraded"`
		Checks map[string]string `json:"checks"`
	}
}

// Check pings every dependency. Any failure marks the service degraded and
// answers 503 so load balancers stop routing to it.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{Status: http.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Checks = make(map[string]string, len(h.checks))

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Body.Checks[name] = "unhealthy"
			resp.Body.Status = "degraded"
			resp.Status = http.StatusServiceUnavailable

			continue
		}

		resp.Body.Checks[name] = "healthy"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes. Health probes are never rate limited.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Dependency health",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Check)
}
