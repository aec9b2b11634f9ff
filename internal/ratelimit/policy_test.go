package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/eightbin/internal/ratelimit"
	"github.com/serroba/eightbin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Record(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func TestParseLimits(t *testing.T) {
	t.Run("parses a list", func(t *testing.T) {
		limits, err := ratelimit.ParseLimits("30/1m, 500/1h")

		require.NoError(t, err)
		assert.Equal(t, []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 30},
			{Window: time.Hour, Max: 500},
		}, limits)
	})

	t.Run("empty string disables", func(t *testing.T) {
		limits, err := ratelimit.ParseLimits("")

		require.NoError(t, err)
		assert.Empty(t, limits)
	})

	for _, bad := range []string{"30", "x/1m", "0/1m", "30/soon", "30/-1s"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ratelimit.ParseLimits(bad)

			assert.Error(t, err)
		})
	}
}

func TestPolicyBuilder(t *testing.T) {
	policy := ratelimit.NewPolicyBuilder().
		AddLimit(ratelimit.ScopeGlobal, 100, time.Minute).
		AddLimit(ratelimit.ScopeWrite, 0, time.Minute).
		AddLimits(ratelimit.ScopeWrite, []ratelimit.LimitConfig{{Window: time.Hour, Max: 50}}).
		Build()

	assert.Len(t, policy.Limits[ratelimit.ScopeGlobal], 1)
	assert.Equal(t, []ratelimit.LimitConfig{{Window: time.Hour, Max: 50}}, policy.Limits[ratelimit.ScopeWrite],
		"zero max is ignored")
}

func TestPolicyLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("allows until the limit", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().AddLimit(ratelimit.ScopeWrite, 2, time.Minute).Build()
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)
		scopes := []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite}

		for range 2 {
			exceeded, err := limiter.Allow(ctx, "client", scopes)
			require.NoError(t, err)
			assert.Nil(t, exceeded)
		}

		exceeded, err := limiter.Allow(ctx, "client", scopes)
		require.NoError(t, err)
		require.NotNil(t, exceeded)
		assert.Equal(t, ratelimit.ScopeWrite, exceeded.Scope)
		assert.Equal(t, int64(3), exceeded.Count)
		assert.Equal(t, "write scope, 3/2 requests in 1m0s", exceeded.String())
	})

	t.Run("clients are tracked separately", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().AddLimit(ratelimit.ScopeGlobal, 1, time.Minute).Build()
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)
		scopes := []ratelimit.Scope{ratelimit.ScopeGlobal}

		_, _ = limiter.Allow(ctx, "a", scopes)
		exceeded, err := limiter.Allow(ctx, "b", scopes)

		require.NoError(t, err)
		assert.Nil(t, exceeded)
	})

	t.Run("scopes without limits pass", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), ratelimit.NewPolicyBuilder().Build())

		exceeded, err := limiter.Allow(ctx, "a", []ratelimit.Scope{ratelimit.ScopeRead})

		require.NoError(t, err)
		assert.Nil(t, exceeded)
	})

	t.Run("store errors are returned", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().AddLimit(ratelimit.ScopeGlobal, 1, time.Minute).Build()
		limiter := ratelimit.NewPolicyLimiter(failingStore{}, policy)

		exceeded, err := limiter.Allow(ctx, "a", []ratelimit.Scope{ratelimit.ScopeGlobal})

		require.Error(t, err)
		assert.Nil(t, exceeded)
	})
}

func TestPolicyLimiter_AllowRoute(t *testing.T) {
	ctx := context.Background()
	limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), ratelimit.NewPolicyBuilder().Build())
	limits := []ratelimit.LimitConfig{{Window: time.Minute, Max: 1}}

	exceeded, err := limiter.AllowRoute(ctx, "a", "/upload", limits)
	require.NoError(t, err)
	assert.Nil(t, exceeded)

	exceeded, err = limiter.AllowRoute(ctx, "a", "/upload", limits)
	require.NoError(t, err)
	require.NotNil(t, exceeded)
	assert.Equal(t, "2/1 requests in 1m0s", exceeded.String())

	exceeded, err = limiter.AllowRoute(ctx, "a", "/shorten", limits)
	require.NoError(t, err)
	assert.Nil(t, exceeded, "routes have separate counters")
}
