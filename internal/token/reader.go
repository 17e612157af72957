package token

import (
	"bufio"
	"io"
)

// StringSource adapts a string to RuneSource.
type StringSource struct {
	runes []rune
	pos   int
}

// NewStringSource decodes s into a rune slice once and serves it as a
// RuneSource.
func NewStringSource(s string) *StringSource {
	return &StringSource{runes: []rune(s)}
}

func (s *StringSource) Next() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	return r, true
}

// ReaderSource adapts a bufio-wrapped io.Reader to RuneSource, decoding
// UTF-8 one rune at a time so large sources never need to be fully
// materialized just to tokenize them.
type ReaderSource struct {
	br *bufio.Reader
}

// NewReaderSource wraps r in a buffered UTF-8 rune reader.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{br: bufio.NewReader(r)}
}

func (s *ReaderSource) Next() (rune, bool) {
	r, _, err := s.br.ReadRune()
	if err != nil {
		return 0, false
	}
	return r, true
}
