// Package engine is the facade the rest of the world calls: it wires the
// source store, word index, query planner, and query cache together behind
// a single reader/writer lock, the way the indexing engine this is
// grounded on wires its memory index, segment writer, and readers together.
package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/n-orlov/textsearch/internal/cache"
	"github.com/n-orlov/textsearch/internal/planner"
	"github.com/n-orlov/textsearch/internal/source"
	"github.com/n-orlov/textsearch/internal/wordindex"
	"github.com/n-orlov/textsearch/pkg/config"
	"github.com/n-orlov/textsearch/pkg/metrics"
	"github.com/n-orlov/textsearch/pkg/resilience"
)

// registrationTimeout bounds how long a single AddSource call -- open plus
// tokenize -- may take before it's abandoned as stuck.
const registrationTimeout = 30 * time.Second

// Engine is the in-process search engine. Construct one explicitly with
// New; there is no ambient default instance.
type Engine struct {
	mu         sync.RWMutex
	store      *source.Store
	index      *wordindex.Index
	queryCache *cache.QueryCache
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New constructs an Engine from cfg. metrics may be nil to disable
// Prometheus instrumentation entirely.
func New(cfg *config.Config, m *metrics.Metrics) *Engine {
	return &Engine{
		store:      source.NewStore(cfg.Engine.LoadToMemoryLimit, cfg.Engine.BuildIndexLimit, cfg.Cache.Size),
		index:      wordindex.New(),
		queryCache: cache.New(cfg.Cache.Size, cfg.Cache.Enabled),
		metrics:    m,
		logger:     slog.Default().With("component", "engine"),
	}
}

// AddSource registers a new named source and, if it qualifies under the
// configured index-size policy, tokenizes and merges it into the word
// index. Invalidates the query-result cache on success, since a new source
// can change the answer to any previously cached query.
func (e *Engine) AddSource(name string, opener source.Opener) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	var src *source.Source
	var indexed int
	err := resilience.WithTimeout(context.Background(), registrationTimeout, "add-source:"+name, func(ctx context.Context) error {
		var regErr error
		src, regErr = e.store.Register(name, opener)
		if regErr != nil {
			return regErr
		}
		if !src.Indexable {
			return nil
		}
		rs, closer, ioErr := src.Runes()
		if ioErr != nil {
			e.logger.Error("failed to open source for indexing, leaving it unindexed", "source", name, "error", ioErr)
			return nil
		}
		local := wordindex.Build(name, rs)
		closer.Close()
		for _, records := range local {
			indexed += len(records)
		}
		e.index.AddBatch(local)
		return nil
	})
	if err != nil {
		e.logger.Warn("source registration failed", "source", name, "error", err)
		return err
	}

	e.queryCache.InvalidateAll()
	if e.metrics != nil {
		e.metrics.SourcesRegisteredTotal.Inc()
		e.metrics.SourceBytesTotal.Add(float64(src.ByteLen))
		e.metrics.WordsIndexedTotal.Add(float64(indexed))
	}
	e.logger.Info("source registered",
		"source", name,
		"bytes", src.ByteLen,
		"loadable", src.Loadable,
		"indexable", src.Indexable,
		"words_indexed", indexed,
		"elapsed", time.Since(start),
	)
	return nil
}

// Search returns every verbatim match of query across every registered
// source. Never errors: a too-short or unmatched query yields an empty map.
func (e *Engine) Search(query string) map[string][]int {
	start := time.Now()
	hitsBefore, _ := e.queryCache.Stats()
	result := e.queryCache.GetOrCompute(query, func(q string) map[string][]int {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return planner.New(e.store, e.index).Search(q)
	})
	if e.metrics != nil {
		e.metrics.SearchQueriesTotal.WithLabelValues(planner.Mode(query)).Inc()
		hitsAfter, _ := e.queryCache.Stats()
		status := "miss"
		if hitsAfter > hitsBefore {
			status = "hit"
			e.metrics.CacheHitsTotal.Inc()
		} else {
			e.metrics.CacheMissesTotal.Inc()
		}
		e.metrics.SearchLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
		e.metrics.SearchResultsCount.Observe(float64(len(result)))
	}
	return result
}

// GetSlice returns the character range [from, from+length) of a source's
// decoded content. ok is false if the source is unknown.
func (e *Engine) GetSlice(name string, from, length int) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	src, ok := e.store.Get(name)
	if !ok {
		return "", false
	}
	slice, err := src.Slice(from, length)
	if err != nil {
		return "", false
	}
	return slice, true
}

// GetSource returns a fresh reader over a source's raw bytes. ok is false
// if the source is unknown. The caller owns the returned ReadCloser.
func (e *Engine) GetSource(name string) (io.ReadCloser, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	src, ok := e.store.Get(name)
	if !ok {
		return nil, false
	}
	rc, err := src.Reader()
	if err != nil {
		return nil, false
	}
	return rc, true
}

// ListNames returns a sorted snapshot of every registered source name.
func (e *Engine) ListNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Names()
}
