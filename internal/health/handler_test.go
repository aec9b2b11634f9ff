package health_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/eightbin/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(_ context.Context) error {
	return m.err
}

func TestHandler_Check(t *testing.T) {
	t.Run("returns ok when all dependencies are healthy", func(t *testing.T) {
		handler := health.NewHandler(map[string]health.Checker{
			"objectStore": &mockChecker{},
			"redis":       &mockChecker{},
		}, zap.NewNop())

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, map[string]string{"objectStore": "healthy", "redis": "healthy"}, resp.Body.Checks)
	})

	t.Run("returns degraded when one dependency fails", func(t *testing.T) {
		handler := health.NewHandler(map[string]health.Checker{
			"objectStore": &mockChecker{err: errors.New("access denied")},
			"redis":       &mockChecker{},
		}, zap.NewNop())

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Checks["objectStore"])
		assert.Equal(t, "healthy", resp.Body.Checks["redis"])
	})

	t.Run("no dependencies is ok", func(t *testing.T) {
		handler := health.NewHandler(nil, zap.NewNop())

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Empty(t, resp.Body.Checks)
	})
}

func TestRegisterRoutes(t *testing.T) {
	_, api := humatest.New(t)
	health.RegisterRoutes(api, health.NewHandler(map[string]health.Checker{
		"objectStore": &mockChecker{err: errors.New("down")},
	}, zap.NewNop()))

	resp := api.Get("/health")

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), `"degraded"`)
}

func TestRedisChecker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	t.Run("Ping returns nil when redis is available", func(t *testing.T) {
		checker := health.NewRedisChecker(client)

		assert.NoError(t, checker.Ping(context.Background()))
	})
}
