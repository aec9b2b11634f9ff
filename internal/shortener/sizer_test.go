package shortener_test

import (
	"context"
	"testing"

	"github.com/serroba/eightbin/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendedLength(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected int
	}{
		{name: "empty namespace", count: 0, expected: 2},
		{name: "exactly half of length 2 capacity", count: 333, expected: 2},
		{name: "just over half of length 2 capacity", count: 334, expected: 3},
		{name: "half of length 3 capacity", count: 4218, expected: 3},
		{name: "odd capacity rounds down", count: 41125, expected: 4},
		{name: "one over odd capacity half", count: 41126, expected: 5},
		{name: "half of length 7 capacity", count: 13489164, expected: 7},
		{name: "beyond the table", count: 13489165, expected: 8},
		{name: "far beyond the table", count: 100000000, expected: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shortener.RecommendedLength(tt.count))
		})
	}
}

func TestRecommendedLength_IsSmallestFittingLength(t *testing.T) {
	capacities := []int{666, 8436, 82251, 658008, 4496388, 26978328}

	for _, count := range []int{0, 1, 100, 5000, 50000, 400000, 3000000, 20000000} {
		length := shortener.RecommendedLength(count)

		if length < shortener.MaxLength {
			assert.GreaterOrEqual(t, capacities[length-2], 2*count)
		}

		for l := shortener.MinLength; l < length; l++ {
			assert.Less(t, capacities[l-2], 2*count, "length %d would already fit %d", l, count)
		}
	}
}

func TestSizer_Length(t *testing.T) {
	t.Run("uses namespace occupancy", func(t *testing.T) {
		sizer := shortener.NewSizer(&mockStore{count: 5000})

		length, err := sizer.Length(context.Background(), shortener.NamespaceLinks)

		require.NoError(t, err)
		assert.Equal(t, 4, length)
	})

	t.Run("wraps count failures as store read errors", func(t *testing.T) {
		sizer := shortener.NewSizer(&mockStore{countErr: errMock})

		_, err := sizer.Length(context.Background(), shortener.NamespaceFiles)

		require.ErrorIs(t, err, shortener.ErrStoreRead)
		assert.ErrorIs(t, err, errMock)
	})
}
