// Package integration exercises the source store, word index, query
// planner, and query cache wired together through the engine facade, the
// way the platform this is grounded on tests its components with real
// wiring rather than mocks.
//
// Run with:
//
//	go test ./test/integration/...
package integration

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/n-orlov/textsearch/internal/engine"
	"github.com/n-orlov/textsearch/internal/source"
	"github.com/n-orlov/textsearch/pkg/config"
)

type stringReadCloser struct {
	io.Reader
}

func (stringReadCloser) Close() error { return nil }

func openerFor(content string) source.Opener {
	return func() (io.ReadCloser, int64, error) {
		return stringReadCloser{strings.NewReader(content)}, int64(len(content)), nil
	}
}

func newTestEngine(loadLimit, indexLimit int64) *engine.Engine {
	cfg := &config.Config{
		Engine: config.EngineConfig{LoadToMemoryLimit: loadLimit, BuildIndexLimit: indexLimit},
		Cache:  config.CacheConfig{Enabled: true, Size: 64},
	}
	return engine.New(cfg, nil)
}

// TestMultiSourceHybridSearch registers several sources of mixed size and
// confirms a three-word query returns correct per-source offsets for every
// source, indexed or not.
func TestMultiSourceHybridSearch(t *testing.T) {
	// indexLimit chosen so "big" falls outside it and must be full-scanned
	// even for a hybrid-mode query.
	e := newTestEngine(1<<20, 200)

	small := "the quick brown fox jumps over the lazy dog"
	big := strings.Repeat("filler ", 100) + "the quick brown fox runs"

	if err := e.AddSource("small", openerFor(small)); err != nil {
		t.Fatalf("AddSource(small): %v", err)
	}
	if err := e.AddSource("big", openerFor(big)); err != nil {
		t.Fatalf("AddSource(big): %v", err)
	}

	got := e.Search("the quick brown")
	if len(got["small"]) == 0 {
		t.Errorf("expected a match in small, got %v", got)
	}
	if len(got["big"]) == 0 {
		t.Errorf("expected a match in non-indexable big, got %v", got)
	}
}

// TestConcurrentAddSourceAndSearch registers sources from multiple
// goroutines while queries run concurrently, verifying the engine's lock
// discipline never corrupts the store or index.
func TestConcurrentAddSourceAndSearch(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("source%d", i)
			content := fmt.Sprintf("needle%d is hidden somewhere in this haystack", i)
			if err := e.AddSource(name, openerFor(content)); err != nil {
				t.Errorf("AddSource(%s): %v", name, err)
			}
		}(i)
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Search("haystack")
		}()
	}
	wg.Wait()

	names := e.ListNames()
	if len(names) != n {
		t.Fatalf("expected %d registered sources, got %d: %v", n, len(names), names)
	}

	results := e.Search("hidden somewhere in")
	if len(results) != n {
		t.Fatalf("expected all %d sources to match, got %d: %v", n, len(results), results)
	}
}

// TestCacheInvalidationIsGlobal verifies that adding a source drops a cached
// negative result, so the new source's match surfaces on the next identical
// query instead of the stale empty answer.
func TestCacheInvalidationIsGlobal(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	e.AddSource("a", openerFor("apples and oranges"))

	miss := e.Search("bananas and grapes")
	if len(miss) != 0 {
		t.Fatalf("expected no matches before source b exists, got %v", miss)
	}

	e.AddSource("b", openerFor("bananas and grapes for everyone"))

	hit := e.Search("bananas and grapes")
	if _, ok := hit["b"]; !ok {
		t.Fatalf("expected cache invalidation to surface source b, got %v", hit)
	}
}

// TestGetSliceAndGetSourceAgreeWithSearch verifies that the offsets Search
// returns can be fed straight into GetSlice to recover the matched text,
// and that GetSource's raw bytes decode back to the same content.
func TestGetSliceAndGetSourceAgreeWithSearch(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	content := "find the needle in this haystack of needles"
	if err := e.AddSource("s", openerFor(content)); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	query := "needle"
	positions := e.Search(query)["s"]
	if len(positions) == 0 {
		t.Fatal("expected at least one match")
	}
	for _, pos := range positions {
		slice, ok := e.GetSlice("s", pos, len([]rune(query)))
		if !ok {
			t.Fatalf("GetSlice(%d) not found", pos)
		}
		if !strings.HasPrefix(slice, "needle") {
			t.Errorf("GetSlice(%d) = %q, want prefix %q", pos, slice, "needle")
		}
	}

	rc, ok := e.GetSource("s")
	if !ok {
		t.Fatal("GetSource not found")
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading source: %v", err)
	}
	if string(raw) != content {
		t.Errorf("GetSource content = %q, want %q", raw, content)
	}
}

// TestNonIndexableSourceStillFullyScanned verifies a source above the
// build-index limit but below the load-to-memory limit is excluded from the
// word index yet still produces correct matches via the full scan leg.
func TestNonIndexableSourceStillFullyScanned(t *testing.T) {
	e := newTestEngine(1<<20, 10)
	content := "this source is too large to index but still searchable end to end"
	if err := e.AddSource("s", openerFor(content)); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	got := e.Search("searchable end to end")
	wantOffset := len([]rune(content[:strings.Index(content, "searchable")]))
	if !reflect.DeepEqual(got["s"], []int{wantOffset}) {
		t.Fatalf("got %v, want [%d]", got["s"], wantOffset)
	}
}
