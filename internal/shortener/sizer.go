package shortener

import (
	"context"
	"fmt"
)

const (
	// MinLength is the shortest identifier the sizer recommends.
	MinLength = 2
	// MaxLength is used once the namespace outgrows the capacity table.
	MaxLength = 8
)

// capacities[i] is the number of multisets of size i+MinLength drawn from the
// 36-symbol alphabet: (n+r-1)! / (r! (n-1)!).
var capacities = [...]int{666, 8436, 82251, 658008, 4496388, 26978328}

// RecommendedLength returns the smallest length whose capacity is at least
// twice the current occupancy, keeping the namespace under half full.
func RecommendedLength(count int) int {
	for i, capacity := range capacities {
		if 2*count <= capacity {
			return i + MinLength
		}
	}

	return MaxLength
}

// Sizer picks identifier lengths from the live occupancy of a namespace.
type Sizer struct {
	store ObjectStore
}

// NewSizer creates a sizer reading occupancy from store.
func NewSizer(store ObjectStore) *Sizer {
	return &Sizer{store: store}
}

// Length counts the objects in ns and returns the recommended identifier length.
func (s *Sizer) Length(ctx context.Context, ns Namespace) (int, error) {
	count, err := s.store.Count(ctx, ns.Prefix())
	if err != nil {
		return 0, fmt.Errorf("%w: count %q: %w", ErrStoreRead, ns.Prefix(), err)
	}

	return RecommendedLength(count), nil
}
