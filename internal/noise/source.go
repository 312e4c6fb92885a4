package noise

import (
	"context"
	"errors"
	"sync"

	"github.com/san-kum/wavesim/internal/monitoring"
)

// ErrNotFound is returned by a Store that has no field under a name.
var ErrNotFound = errors.New("noise: field not found")

// Store persists noise fields as opaque blobs keyed by name.
type Store interface {
	Load(ctx context.Context, name string, size int) (*Field, error)
	Save(ctx context.Context, name string, f *Field) error
}

// Source hands out one field per resolution for the life of the process.
type Source struct {
	seed  int64
	store Store

	mu    sync.RWMutex
	cache map[int]*Field
}

// NewSource creates a source. store may be nil.
func NewSource(seed int64, store Store) *Source {
	return &Source{seed: seed, store: store, cache: make(map[int]*Field)}
}

// Get returns the cached field for size, loading or generating it on first use.
func (s *Source) Get(ctx context.Context, size int) (*Field, error) {
	s.mu.RLock()
	f, ok := s.cache[size]
	s.mu.RUnlock()
	if ok {
		return f, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.cache[size]; ok {
		return f, nil
	}

	f, err := s.load(ctx, size)
	if err != nil {
		return nil, err
	}
	s.cache[size] = f
	return f, nil
}

func (s *Source) load(ctx context.Context, size int) (*Field, error) {
	name := Name(size)
	if s.store != nil {
		f, err := s.store.Load(ctx, name, size)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, ErrNotFound) {
			monitoring.Logf("noise: load %s: %v", name, err)
		}
	}

	f, err := Generate(size, DeriveSeed(s.seed, size))
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Save(ctx, name, f); err != nil {
			monitoring.Logf("noise: save %s: %v", name, err)
		}
	}
	return f, nil
}

// Cached reports the resolutions currently held.
func (s *Source) Cached() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sizes := make([]int, 0, len(s.cache))
	for size := range s.cache {
		sizes = append(sizes, size)
	}
	return sizes
}

// MemoryStore keeps fields in a map.
type MemoryStore struct {
	mu     sync.Mutex
	fields map[string]*Field
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{fields: make(map[string]*Field)}
}

func (m *MemoryStore) Load(_ context.Context, name string, size int) (*Field, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fields[name]
	if !ok || f.Size != size {
		return nil, ErrNotFound
	}
	return f, nil
}

func (m *MemoryStore) Save(_ context.Context, name string, f *Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[name] = f
	return nil
}
