package planner

import (
	"runtime"
	"sync"

	"github.com/n-orlov/textsearch/internal/kmp"
	"github.com/n-orlov/textsearch/internal/source"
	"github.com/n-orlov/textsearch/internal/token"
)

const scanChunkSize = 4096

// scanSource runs a full KMP scan of query against a single source, reading
// it whole if loadable or streaming it in bounded chunks otherwise.
func scanSource(src *source.Source, query string) []int {
	if src.Loadable {
		full, err := src.FullString()
		if err != nil {
			return nil
		}
		return kmp.SearchString(full, query)
	}
	rc, err := src.Reader()
	if err != nil {
		return nil
	}
	defer rc.Close()
	rs := token.NewReaderSource(rc)
	scanner := kmp.NewStreamScanner(query)
	var matches []int
	buf := make([]rune, scanChunkSize)
	for {
		n := 0
		for n < scanChunkSize {
			r, ok := rs.Next()
			if !ok {
				break
			}
			buf[n] = r
			n++
		}
		if n == 0 {
			break
		}
		matches = append(matches, scanner.Feed(buf[:n])...)
		if n < scanChunkSize {
			break
		}
	}
	return matches
}

// scanAll fans out a goroutine per source, bounded by GOMAXPROCS, merging
// every match into acc. Embarrassingly parallel: each source's scan is
// fully independent of the others.
func scanAll(sources []*source.Source, query string, acc *resultAcc) {
	if len(sources) == 0 {
		return
	}
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	for _, src := range sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(s *source.Source) {
			defer wg.Done()
			defer func() { <-sem }()
			matches := scanSource(s, query)
			if len(matches) > 0 {
				acc.addAll(s.Name, matches)
			}
		}(src)
	}
	wg.Wait()
}
