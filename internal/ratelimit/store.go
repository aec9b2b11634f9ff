package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key over a sliding window.
type Store interface {
	// Record adds one request at the current time and returns how many
	// requests for key fall inside the trailing window, this one included.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
