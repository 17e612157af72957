package planner

import (
	"sort"

	"github.com/n-orlov/textsearch/internal/source"
	"github.com/n-orlov/textsearch/internal/token"
	"github.com/n-orlov/textsearch/internal/wordindex"
)

// choosePivot looks up every interior query word in idx and returns the
// word whose bucket is smallest, along with that bucket. ok is false if any
// interior word's bucket is empty -- the query cannot appear in any
// indexed source, so there is nothing to verify.
func choosePivot(idx *wordindex.Index, interior []token.WordRecord) (pivot token.WordRecord, bucket []token.WordRecord, ok bool) {
	var best []token.WordRecord
	var bestWord token.WordRecord
	found := false
	for _, w := range interior {
		if w.WordLength == 0 {
			continue
		}
		b := idx.Lookup(w.WordHash)
		if len(b) == 0 {
			return token.WordRecord{}, nil, false
		}
		if !found || len(b) < len(best) {
			best = b
			bestWord = w
			found = true
		}
	}
	if !found {
		return token.WordRecord{}, nil, false
	}
	return bestWord, best, true
}

// verifyPivot checks every candidate in bucket against query, grouping by
// source so a loadable source is checked against its in-memory string and a
// streamed source is checked with one forward sliding-window pass over its
// sorted candidates.
func verifyPivot(store *source.Store, pivotPos int, query []rune, bucket []token.WordRecord, acc *resultAcc) {
	bySource := make(map[string][]token.WordRecord)
	for _, w := range bucket {
		bySource[w.SourceName] = append(bySource[w.SourceName], w)
	}
	for name, records := range bySource {
		src, ok := store.Get(name)
		if !ok {
			continue
		}
		if src.Loadable {
			verifyLoadable(src, pivotPos, query, records, acc)
			continue
		}
		verifyStreamed(src, pivotPos, query, records, acc)
	}
}

func verifyLoadable(src *source.Source, pivotPos int, query []rune, records []token.WordRecord, acc *resultAcc) {
	full, err := src.FullString()
	if err != nil {
		return
	}
	runes := []rune(full)
	for _, w := range records {
		start := w.WordPos - pivotPos
		if start < 0 || start+len(query) > len(runes) {
			continue
		}
		if runesEqual(runes[start:start+len(query)], query) {
			acc.add(src.Name, start)
		}
	}
}

func verifyStreamed(src *source.Source, pivotPos int, query []rune, records []token.WordRecord, acc *resultAcc) {
	sort.Slice(records, func(i, j int) bool { return records[i].WordPos < records[j].WordPos })
	rs, closer, err := src.Runes()
	if err != nil {
		return
	}
	defer closer.Close()

	qLen := len(query)
	window := make([]rune, 0, qLen)
	pos := 0
	for _, w := range records {
		start := w.WordPos - pivotPos
		if start < 0 {
			continue
		}
		target := start + qLen
		for pos < target {
			r, ok := rs.Next()
			if !ok {
				return // EOF: no later candidate can match either, since WordPos is ascending.
			}
			window = append(window, r)
			if len(window) > qLen {
				window = window[1:]
			}
			pos++
		}
		if len(window) == qLen && runesEqual(window, query) {
			acc.add(src.Name, start)
		}
	}
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
