package planner

import (
	"sort"
	"sync"
)

// resultAcc collects match positions per source concurrently, then
// finalizes into the ascending, de-duplicated, empty-omitting shape the
// engine's Search API promises.
type resultAcc struct {
	mu   sync.Mutex
	hits map[string]map[int]struct{}
}

func newResultAcc() *resultAcc {
	return &resultAcc{hits: make(map[string]map[int]struct{})}
}

func (a *resultAcc) add(source string, pos int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	set, ok := a.hits[source]
	if !ok {
		set = make(map[int]struct{})
		a.hits[source] = set
	}
	set[pos] = struct{}{}
}

func (a *resultAcc) addAll(source string, positions []int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	set, ok := a.hits[source]
	if !ok {
		set = make(map[int]struct{}, len(positions))
		a.hits[source] = set
	}
	for _, p := range positions {
		set[p] = struct{}{}
	}
}

func (a *resultAcc) finalize() map[string][]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := make(map[string][]int, len(a.hits))
	for source, set := range a.hits {
		if len(set) == 0 {
			continue
		}
		positions := make([]int, 0, len(set))
		for p := range set {
			positions = append(positions, p)
		}
		sort.Ints(positions)
		result[source] = positions
	}
	return result
}
