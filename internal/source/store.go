package source

import (
	"sort"
	"sync"

	"github.com/n-orlov/textsearch/internal/cache"
	apperrors "github.com/n-orlov/textsearch/pkg/errors"
)

// Store is the registry of sources, keyed by name. Callers outside this
// package serialize writes via the engine's own lock; Store's own mutex
// guards the map itself against that same discipline being violated by a
// future caller.
type Store struct {
	mu            sync.RWMutex
	sources       map[string]*Source
	loadLimit     int64
	indexLimit    int64
	contentCache  *cache.LRU[string, string]
}

// NewStore creates an empty Store applying the given byte-size policies to
// every future registration.
func NewStore(loadLimit, indexLimit int64, cacheCapacity int) *Store {
	return &Store{
		sources:      make(map[string]*Source),
		loadLimit:    loadLimit,
		indexLimit:   indexLimit,
		contentCache: cache.NewLRU[string, string](cacheCapacity),
	}
}

// Register adds a new source. Returns ErrDuplicateSource if the name is
// already taken, ErrEmptySource if the opener reports zero bytes.
func (st *Store) Register(name string, opener Opener) (*Source, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, exists := st.sources[name]; exists {
		return nil, apperrors.Newf(apperrors.ErrDuplicateSource, "source %q", name)
	}
	src, err := newSource(name, opener, st.loadLimit, st.indexLimit, st.contentCache)
	if err != nil {
		return nil, err
	}
	st.sources[name] = src
	return src, nil
}

// Get returns the named source, or false if unknown.
func (st *Store) Get(name string) (*Source, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	src, ok := st.sources[name]
	return src, ok
}

// List returns every registered source, for fan-out scans.
func (st *Store) List() []*Source {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Source, 0, len(st.sources))
	for _, src := range st.sources {
		out = append(out, src)
	}
	return out
}

// Names returns a sorted snapshot of every registered source name.
func (st *Store) Names() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	names := make([]string, 0, len(st.sources))
	for name := range st.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
