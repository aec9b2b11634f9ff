package store

import (
	"context"
	"sync"
	"time"
)

const defaultSweepInterval = time.Minute

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
// Keys whose requests have all left their window are dropped on a periodic
// sweep, so the map only holds clients seen within the longest window.
type RateLimitMemoryStore struct {
	mu            sync.Mutex
	requests      map[string]*requestLog
	now           func() time.Time
	sweepInterval time.Duration
	lastSweep     time.Time
}

type requestLog struct {
	timestamps []time.Time
	window     time.Duration
}

// RateLimitMemoryOption configures a RateLimitMemoryStore.
type RateLimitMemoryOption func(*RateLimitMemoryStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) RateLimitMemoryOption {
	return func(s *RateLimitMemoryStore) {
		s.now = now
	}
}

// WithSweepInterval sets how often idle keys are dropped.
func WithSweepInterval(d time.Duration) RateLimitMemoryOption {
	return func(s *RateLimitMemoryStore) {
		s.sweepInterval = d
	}
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore(opts ...RateLimitMemoryOption) *RateLimitMemoryStore {
	s := &RateLimitMemoryStore{
		requests:      make(map[string]*requestLog),
		now:           time.Now,
		sweepInterval: defaultSweepInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.lastSweep = s.now()

	return s
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.sweepInterval {
		s.sweep(now)
	}

	entry, ok := s.requests[key]
	if !ok {
		entry = &requestLog{}
		s.requests[key] = entry
	}

	entry.window = window
	entry.timestamps = append(prune(entry.timestamps, now.Add(-window)), now)

	return int64(len(entry.timestamps)), nil
}

// Len reports how many keys are tracked.
func (s *RateLimitMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

func (s *RateLimitMemoryStore) sweep(now time.Time) {
	for key, entry := range s.requests {
		entry.timestamps = prune(entry.timestamps, now.Add(-entry.window))
		if len(entry.timestamps) == 0 {
			delete(s.requests, key)
		}
	}

	s.lastSweep = now
}

// prune keeps the timestamps after cutoff. Timestamps are appended in order.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	for i, ts := range timestamps {
		if ts.After(cutoff) {
			return append([]time.Time(nil), timestamps[i:]...)
		}
	}

	return nil
}
