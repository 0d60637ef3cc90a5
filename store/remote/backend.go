package remote

import (
	"bytes"
	"context"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/lexgo"
)

// Backend is an object store holding immutable segment files.
// Implementations must be safe for concurrent use and report missing
// objects with an error satisfying errors.Is(err, lexgo.ErrNotFound).
type Backend interface {
	// Get opens the object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put stores the object. size is -1 when the length is not known upfront.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the sorted keys starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// MemoryBackend is an in-memory Backend for tests.
type MemoryBackend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{objects: make(map[string][]byte)}
}

// Get implements Backend.
func (m *MemoryBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, lexgo.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Put implements Backend.
func (m *MemoryBackend) Put(ctx context.Context, key string, r io.Reader, _ int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return nil
}

// Delete implements Backend.
func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// List implements Backend.
func (m *MemoryBackend) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(m.objects))
	return slices.DeleteFunc(keys, func(k string) bool {
		return !strings.HasPrefix(k, prefix)
	}), nil
}

// Object returns the stored bytes of key, as written by Put.
func (m *MemoryBackend) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	return data, ok
}
