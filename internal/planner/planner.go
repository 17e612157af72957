// Package planner implements the hybrid query strategy: a full KMP scan
// for short queries, and an index-assisted pivot-word verification for
// longer ones, chosen the way the sharded query executor this is grounded
// on picks between an in-memory search and a fan-out across shards.
package planner

import (
	"github.com/n-orlov/textsearch/internal/source"
	"github.com/n-orlov/textsearch/internal/token"
	"github.com/n-orlov/textsearch/internal/wordindex"
)

// minQueryRunes is the shortest query Search will act on; anything shorter
// returns the empty result immediately (too many KMP/index hits to be
// useful, and too cheap a query to be worth answering).
const minQueryRunes = 3

// minHybridWords is the word count at which the hybrid, index-assisted
// strategy becomes worthwhile over a plain full scan.
const minHybridWords = 3

// Planner answers a single query against the current store/index snapshot.
// It holds no state of its own; the engine constructs one (or reuses a
// stateless value) per call while holding its read lock.
type Planner struct {
	store *source.Store
	index *wordindex.Index
}

// New returns a Planner bound to the given store and index.
func New(store *source.Store, index *wordindex.Index) *Planner {
	return &Planner{store: store, index: index}
}

// Search returns every verbatim match of query, per source, as ascending
// de-duplicated character offsets. Never errors: a query that is too short
// or unknown to every source simply yields an empty map.
func (p *Planner) Search(query string) map[string][]int {
	runeQuery := []rune(query)
	if len(runeQuery) < minQueryRunes {
		return map[string][]int{}
	}

	words := tokenizeQuery(query)
	acc := newResultAcc()
	sources := p.store.List()

	if len(words) < minHybridWords {
		scanAll(sources, query, acc)
		return acc.finalize()
	}

	nonIndexable := make([]*source.Source, 0, len(sources))
	for _, s := range sources {
		if !s.Indexable {
			nonIndexable = append(nonIndexable, s)
		}
	}
	scanAll(nonIndexable, query, acc)

	interior := words[1 : len(words)-1]
	pivot, bucket, ok := choosePivot(p.index, interior)
	if ok {
		verifyPivot(p.store, pivot.WordPos, runeQuery, bucket, acc)
	}
	return acc.finalize()
}

// Mode reports which strategy Search would use for query, without running
// it -- used by the engine purely for metrics labeling.
func Mode(query string) string {
	if len([]rune(query)) < minQueryRunes {
		return "too_short"
	}
	if len(tokenizeQuery(query)) < minHybridWords {
		return "full_scan"
	}
	return "hybrid"
}

// tokenizeQuery splits the raw query into its word records, using the same
// tokenizer and hash as ingest so a query word's hash can be looked up
// directly in the index.
func tokenizeQuery(query string) []token.WordRecord {
	var words []token.WordRecord
	token.Tokenize("search", token.NewStringSource(query), func(w token.WordRecord) {
		words = append(words, w)
	})
	return words
}
