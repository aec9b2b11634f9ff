package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serroba/eightbin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestRateLimitMemoryStore(t *testing.T) {
	t.Run("records and counts requests", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for want := int64(1); want <= 3; want++ {
			count, err := s.Record(context.Background(), "key1", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, _ = s.Record(context.Background(), "key1", time.Minute)
		_, _ = s.Record(context.Background(), "key1", time.Minute)

		count, err := s.Record(context.Background(), "key2", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "key2 should have its own counter")
	})

	t.Run("prunes expired entries", func(t *testing.T) {
		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		s := store.NewRateLimitMemoryStore(store.WithClock(clock.Now))

		_, _ = s.Record(context.Background(), "key1", time.Second)
		_, _ = s.Record(context.Background(), "key1", time.Second)

		clock.Advance(1100 * time.Millisecond)

		count, err := s.Record(context.Background(), "key1", time.Second)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "expired entries should be pruned")
	})

	t.Run("window slides instead of resetting", func(t *testing.T) {
		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		s := store.NewRateLimitMemoryStore(store.WithClock(clock.Now))

		_, _ = s.Record(context.Background(), "key1", time.Second)
		clock.Advance(600 * time.Millisecond)
		_, _ = s.Record(context.Background(), "key1", time.Second)
		clock.Advance(600 * time.Millisecond)

		count, err := s.Record(context.Background(), "key1", time.Second)

		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "only the first request left the window")
	})

	t.Run("drops keys once their window has passed", func(t *testing.T) {
		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		s := store.NewRateLimitMemoryStore(
			store.WithClock(clock.Now),
			store.WithSweepInterval(time.Second),
		)

		for _, key := range []string{"a", "b", "c"} {
			_, _ = s.Record(context.Background(), key, time.Second)
		}

		_, _ = s.Record(context.Background(), "hourly", time.Hour)
		require.Equal(t, 4, s.Len())

		clock.Advance(2 * time.Second)

		count, err := s.Record(context.Background(), "d", time.Second)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, 2, s.Len(), "only hourly and d remain")
	})

	t.Run("keeps keys between sweeps", func(t *testing.T) {
		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		s := store.NewRateLimitMemoryStore(store.WithClock(clock.Now))

		_, _ = s.Record(context.Background(), "a", time.Second)
		clock.Advance(2 * time.Second)
		_, _ = s.Record(context.Background(), "b", time.Second)

		assert.Equal(t, 2, s.Len())
	})
}
