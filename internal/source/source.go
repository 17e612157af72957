// Package source holds registered text sources and the policies that
// decide whether each is held fully in memory, indexed, or both.
package source

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/n-orlov/textsearch/internal/cache"
	"github.com/n-orlov/textsearch/internal/token"
	apperrors "github.com/n-orlov/textsearch/pkg/errors"
	"github.com/n-orlov/textsearch/pkg/resilience"
)

// Opener produces a fresh, independent reader over a source's raw bytes
// along with its byte length. Called once at registration (to measure and
// decide policy) and again on demand for any streamed access.
type Opener func() (io.ReadCloser, int64, error)

// Source is a single named, registered text.
type Source struct {
	Name       string
	ByteLen    int64
	Loadable   bool // length <= LoadToMemoryLimit
	Indexable  bool // length <= BuildIndexLimit
	opener     Opener
	decodeOnce sync.Mutex
	cacheKey   string
	cache      *cache.LRU[string, string]
}

// newSource measures the source via opener and computes its policy flags.
// Opening is retried with backoff, since the only realistic opener failure
// at registration time -- a transient disk or handle-table hiccup -- is the
// kind a second attempt clears.
func newSource(name string, opener Opener, loadLimit, indexLimit int64, contentCache *cache.LRU[string, string]) (*Source, error) {
	var rc io.ReadCloser
	var size int64
	err := resilience.Retry(context.Background(), "open-source:"+name, resilience.RetryConfig{MaxAttempts: 3}, func() error {
		var openErr error
		rc, size, openErr = opener()
		return openErr
	})
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrIO, "opening source %q: %v", name, err)
	}
	rc.Close()
	if size == 0 {
		return nil, apperrors.ErrEmptySource
	}
	return &Source{
		Name:      name,
		ByteLen:   size,
		Loadable:  size <= loadLimit,
		Indexable: size <= indexLimit,
		opener:    opener,
		cacheKey:  name,
		cache:     contentCache,
	}, nil
}

// Reader opens a fresh byte stream over the source's content.
func (s *Source) Reader() (io.ReadCloser, error) {
	rc, _, err := s.opener()
	if err != nil {
		return nil, fmt.Errorf("reading source %q: %w", s.Name, err)
	}
	return rc, nil
}

// Runes opens a fresh RuneSource over the source's content, for tokenizing
// or streamed scanning without materializing the whole string.
func (s *Source) Runes() (token.RuneSource, io.Closer, error) {
	rc, err := s.Reader()
	if err != nil {
		return nil, nil, err
	}
	return token.NewReaderSource(rc), rc, nil
}

// FullString returns the fully decoded UTF-8 content of a loadable source,
// from the soft-reclaim cache when present. It is an error to call this on
// a non-loadable source.
func (s *Source) FullString() (string, error) {
	if !s.Loadable {
		return "", apperrors.ErrNotLoadable
	}
	if val, ok := s.cache.Get(s.cacheKey); ok {
		return val, nil
	}
	// Double-checked: only one goroutine decodes on a cold cache; others
	// block briefly rather than decoding redundantly.
	s.decodeOnce.Lock()
	defer s.decodeOnce.Unlock()
	if val, ok := s.cache.Get(s.cacheKey); ok {
		return val, nil
	}
	rc, err := s.Reader()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("decoding source %q: %w", s.Name, err)
	}
	decoded := string(data)
	s.cache.Set(s.cacheKey, decoded)
	return decoded, nil
}

// Slice returns the character range [from, from+length) of the source's
// decoded content, clamped to valid bounds.
func (s *Source) Slice(from, length int) (string, error) {
	full, err := s.sliceSource(from, length)
	return full, err
}

func (s *Source) sliceSource(from, length int) (string, error) {
	if s.Loadable {
		full, err := s.FullString()
		if err != nil {
			return "", err
		}
		runes := []rune(full)
		return clampSlice(runes, from, length), nil
	}
	rc, err := s.Reader()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	rs := token.NewReaderSource(rc)
	var collected []rune
	pos := 0
	for {
		r, ok := rs.Next()
		if !ok {
			break
		}
		if pos >= from && len(collected) < length {
			collected = append(collected, r)
		}
		pos++
		if len(collected) >= length {
			break
		}
	}
	return string(collected), nil
}

func clampSlice(runes []rune, from, length int) string {
	if from < 0 {
		from = 0
	}
	if from >= len(runes) {
		return ""
	}
	end := from + length
	if end > len(runes) || end < from {
		end = len(runes)
	}
	return string(runes[from:end])
}
