package shortener_test

import (
	"context"
	"errors"

	"github.com/serroba/eightbin/internal/shortener"
)

var errMock = errors.New("mock error")

// mockStore is a test double for ObjectStore that can be configured to return errors.
type mockStore struct {
	existsErr error
	putErr    error
	countErr  error
	count     int
	taken     map[string]bool
	probed    []string
	puts      []*shortener.Object
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	m.probed = append(m.probed, key)
	if m.existsErr != nil {
		return false, m.existsErr
	}

	return m.taken[key], nil
}

func (m *mockStore) Put(_ context.Context, obj *shortener.Object) error {
	if m.putErr != nil {
		return m.putErr
	}

	m.puts = append(m.puts, obj)

	return nil
}

func (m *mockStore) Count(_ context.Context, _ string) (int, error) {
	return m.count, m.countErr
}

// sequence returns a code source that yields codes in order, then repeats the last one.
func sequence(codes ...string) shortener.CodeSource {
	return func(_ int) (shortener.CodeGenerator, error) {
		i := 0

		return func() string {
			code := codes[min(i, len(codes)-1)]
			i++

			return code
		}, nil
	}
}
