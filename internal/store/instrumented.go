package store

import (
	"context"
	"time"

	"github.com/serroba/eightbin/internal/metrics"
	"github.com/serroba/eightbin/internal/shortener"
)

// Backend is an object store that can also report its own health.
type Backend interface {
	shortener.ObjectStore
	Ping(ctx context.Context) error
}

// InstrumentedStore bounds every call of the wrapped backend by a timeout and
// records its latency.
type InstrumentedStore struct {
	next    Backend
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewInstrumentedStore wraps next. A zero timeout leaves the caller's deadline
// untouched; a nil metrics skips observation.
func NewInstrumentedStore(next Backend, timeout time.Duration, m *metrics.Metrics) *InstrumentedStore {
	return &InstrumentedStore{
		next:    next,
		timeout: timeout,
		metrics: m,
	}
}

func (s *InstrumentedStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool

	err := s.call(ctx, "exists", func(ctx context.Context) error {
		var err error

		exists, err = s.next.Exists(ctx, key)

		return err
	})

	return exists, err
}

func (s *InstrumentedStore) Put(ctx context.Context, obj *shortener.Object) error {
	return s.call(ctx, "put", func(ctx context.Context) error {
		return s.next.Put(ctx, obj)
	})
}

func (s *InstrumentedStore) Count(ctx context.Context, prefix string) (int, error) {
	var count int

	err := s.call(ctx, "count", func(ctx context.Context) error {
		var err error

		count, err = s.next.Count(ctx, prefix)

		return err
	})

	return count, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.call(ctx, "ping", s.next.Ping)
}

func (s *InstrumentedStore) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	err := fn(ctx)

	if s.metrics != nil {
		s.metrics.ObserveStore(operation, started, err)
	}

	return err
}

var _ Backend = (*InstrumentedStore)(nil)
