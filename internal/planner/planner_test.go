package planner

import (
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/n-orlov/textsearch/internal/source"
	"github.com/n-orlov/textsearch/internal/wordindex"
)

type stringReadCloser struct {
	io.Reader
}

func (stringReadCloser) Close() error { return nil }

// testEngine is a minimal stand-in for internal/engine, wiring a Store and
// Index together the way the real engine's AddSource does, without pulling
// in the cache/metrics/logging layers planner tests don't need.
type testEngine struct {
	store *source.Store
	index *wordindex.Index
}

func newTestEngine(loadLimit, indexLimit int64) *testEngine {
	return &testEngine{
		store: source.NewStore(loadLimit, indexLimit, 16),
		index: wordindex.New(),
	}
}

func (e *testEngine) addSource(name, content string) {
	opener := func() (io.ReadCloser, int64, error) {
		return stringReadCloser{strings.NewReader(content)}, int64(len(content)), nil
	}
	src, err := e.store.Register(name, opener)
	if err != nil {
		panic(err)
	}
	if src.Indexable {
		rs, closer, err := src.Runes()
		if err != nil {
			panic(err)
		}
		defer closer.Close()
		e.index.AddBatch(wordindex.Build(name, rs))
	}
}

func (e *testEngine) planner() *Planner {
	return New(e.store, e.index)
}

func TestSearchFixtureS1(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	e.addSource("testFile", "test1, more2 testing3, test1-again5;end6")
	p := e.planner()

	cases := map[string][]int{
		"g3, test1-again5":                         {19},
		"test1, more2 testing3, test1-again5;end6": {0},
		", more2 testing3, test1-again5;end6":      {5},
		"test1":                                    {0, 23},
		"test1-again5;end6":                        {23},
		"end6":                                      {36},
		"th":                                        nil,
	}
	for q, want := range cases {
		got := p.Search(q)["testFile"]
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Search(%q)[testFile] = %v, want %v", q, got, want)
		}
	}
}

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	e.addSource("s", "hello world")
	got := e.planner().Search("he")
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestSearchTwoWordQueryUsesNonIndexedMode(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	e.addSource("s", "the quick brown fox")
	got := e.planner().Search("quick brown")
	want := map[string][]int{"s": {4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSearchTwoWordQueryMultiSource(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	e.addSource("a", "the quick brown fox jumps")
	e.addSource("b", "a quick brown bear sleeps")
	got := e.planner().Search("quick brown")
	want := map[string][]int{"a": {4}, "b": {2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSearchHybridModeThreeWords(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	e.addSource("a", "find the needle in this haystack")
	got := e.planner().Search("the needle in")
	want := map[string][]int{"a": {5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSearchHybridModeNoMatchEmptyBucket(t *testing.T) {
	e := newTestEngine(1<<20, 1<<20)
	e.addSource("a", "find the needle in this haystack")
	got := e.planner().Search("the absent phrase")
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestSearchVerificationRejectsSamePositionDifferentWord(t *testing.T) {
	// "Aa" and "BB" share a word hash. Two sources built so the pivot word
	// ("yy") lands at the same position in both must still be told apart by
	// character-level verification of the rest of the query.
	e := newTestEngine(1<<20, 1<<20)
	e.addSource("a", "xx Aa yy collide here zz")
	e.addSource("b", "xx BB yy collide here zz")
	got := e.planner().Search("Aa yy collide")
	want := map[string][]int{"a": {3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSearchNonIndexableSourceStillScanned(t *testing.T) {
	e := newTestEngine(1<<20, 5) // indexLimit too small: source won't be indexed
	e.addSource("a", "find the needle in this haystack")
	got := e.planner().Search("the needle in")
	want := map[string][]int{"a": {5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSearchStreamedNonLoadableSource(t *testing.T) {
	e := newTestEngine(5, 1<<20) // loadLimit too small: source streams instead of caching
	e.addSource("a", "find the needle in this haystack")
	got := e.planner().Search("the needle in")
	want := map[string][]int{"a": {5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
