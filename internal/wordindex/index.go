// Package wordindex holds the global hash-bucketed word index: the
// structure the query planner consults before falling back to a full scan.
package wordindex

import (
	"sync"

	"github.com/n-orlov/textsearch/internal/token"
)

// Index maps a word's 31x accumulator hash to every occurrence recorded
// across all indexable sources. Buckets may hold records for distinct words
// that happen to collide, and callers are expected to verify character-by-
// character before trusting a bucket member.
type Index struct {
	mu      sync.RWMutex
	buckets map[uint32][]token.WordRecord
	words   int64
}

// New returns an empty Index.
func New() *Index {
	return &Index{buckets: make(map[uint32][]token.WordRecord)}
}

// AddBatch merges a source's freshly tokenized records into the global
// index. Called once per source, after tokenization completes in full, so a
// tokenization failure never leaves the index partially populated for that
// source.
func (idx *Index) AddBatch(local map[uint32][]token.WordRecord) {
	if len(local) == 0 {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for hash, records := range local {
		idx.buckets[hash] = append(idx.buckets[hash], records...)
		idx.words += int64(len(records))
	}
}

// Lookup returns the bucket for hash, or nil if no word with that hash has
// been indexed.
func (idx *Index) Lookup(hash uint32) []token.WordRecord {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.buckets[hash]
}

// Size returns the total number of word records held across all buckets.
func (idx *Index) Size() int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.words
}

// BucketCount returns the number of distinct hash buckets, for diagnostics.
func (idx *Index) BucketCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.buckets)
}
