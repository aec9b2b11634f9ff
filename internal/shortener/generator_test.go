package shortener_test

import (
	"context"
	"strings"
	"testing"

	"github.com/serroba/eightbin/internal/shortener"
	"github.com/serroba/eightbin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNanoidSource(t *testing.T) {
	gen, err := shortener.NanoidSource(8)
	require.NoError(t, err)

	for range 50 {
		code := gen()

		assert.Len(t, code, 8)

		for _, c := range code {
			assert.True(t, strings.ContainsRune(shortener.Alphabet, c), "unexpected symbol %q", c)
		}
	}
}

func TestGenerator_Unique(t *testing.T) {
	t.Run("retries past existing keys", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		_ = memStore.Put(context.Background(), &shortener.Object{Key: "aa"})
		_ = memStore.Put(context.Background(), &shortener.Object{Key: "bb"})

		var collisions int

		gen := shortener.NewGenerator(memStore,
			shortener.WithCodeSource(sequence("aa", "bb", "cc")),
			shortener.WithCollisionHook(func(_ shortener.Namespace) { collisions++ }),
		)

		name, err := gen.Unique(context.Background(), shortener.NamespaceLinks, 2, "")

		require.NoError(t, err)
		assert.Equal(t, "cc", name)
		assert.Equal(t, 2, collisions)
	})

	t.Run("probes inside the namespace with suffix", func(t *testing.T) {
		mock := &mockStore{taken: map[string]bool{"f/aaaaaaaa.pdf": true}}
		gen := shortener.NewGenerator(mock, shortener.WithCodeSource(sequence("aaaaaaaa", "bbbbbbbb")))

		name, err := gen.Unique(context.Background(), shortener.NamespaceFiles, 8, ".pdf")

		require.NoError(t, err)
		assert.Equal(t, "bbbbbbbb.pdf", name)
		assert.Equal(t, []string{"f/aaaaaaaa.pdf", "f/bbbbbbbb.pdf"}, mock.probed)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		mock := &mockStore{taken: map[string]bool{"zz": true}}
		gen := shortener.NewGenerator(mock,
			shortener.WithCodeSource(sequence("zz")),
			shortener.WithMaxAttempts(3),
		)

		_, err := gen.Unique(context.Background(), shortener.NamespaceLinks, 2, "")

		require.ErrorIs(t, err, shortener.ErrNamespaceExhausted)
		assert.Len(t, mock.probed, 3)
	})

	t.Run("wraps probe failures as store read errors", func(t *testing.T) {
		gen := shortener.NewGenerator(&mockStore{existsErr: errMock})

		_, err := gen.Unique(context.Background(), shortener.NamespaceLinks, 4, "")

		require.ErrorIs(t, err, shortener.ErrStoreRead)
		assert.ErrorIs(t, err, errMock)
	})

	t.Run("rejects invalid length", func(t *testing.T) {
		gen := shortener.NewGenerator(&mockStore{})

		_, err := gen.Unique(context.Background(), shortener.NamespaceLinks, 0, "")

		assert.Error(t, err)
	})

	t.Run("ignores non-positive max attempts", func(t *testing.T) {
		gen := shortener.NewGenerator(&mockStore{}, shortener.WithMaxAttempts(0))

		assert.Equal(t, shortener.DefaultMaxAttempts, gen.MaxAttempts())
	})
}
