package store

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/serroba/eightbin/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.ObjectStore.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]shortener.Object
}

// NewMemoryStore creates a new in-memory object store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]shortener.Object),
	}
}

func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[key]

	return ok, nil
}

func (m *MemoryStore) Put(_ context.Context, obj *shortener.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[obj.Key]; ok && obj.IfAbsent {
		return shortener.ErrKeyTaken
	}

	stored := *obj
	stored.Body = append([]byte(nil), obj.Body...)
	stored.Tags = maps.Clone(obj.Tags)
	stored.IfAbsent = false
	m.objects[obj.Key] = stored

	return nil
}

// Count returns the number of keys directly under prefix, mirroring a
// delimiter listing: "f/abc" is not counted under the root prefix.
func (m *MemoryStore) Count(_ context.Context, prefix string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0

	for key := range m.objects {
		rest, ok := strings.CutPrefix(key, prefix)
		if ok && rest != "" && !strings.Contains(rest, "/") {
			count++
		}
	}

	return count, nil
}

// Get returns a copy of the stored object.
func (m *MemoryStore) Get(_ context.Context, key string) (shortener.Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]

	return obj, ok
}

// Len returns the total number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

var _ shortener.ObjectStore = (*MemoryStore)(nil)
