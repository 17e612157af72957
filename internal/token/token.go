// Package token streams a character source into word records: the unit the
// rest of the engine indexes and scans against. A word is a maximal run of
// letters and digits; everything else is a delimiter.
package token

import "unicode"

// WordRecord describes a single occurrence of a word inside a source.
type WordRecord struct {
	SourceName string
	WordHash   uint32
	WordPos    int
	WordLength int
}

// RuneSource is the minimal character-reading capability the tokenizer
// needs. Implementations may be backed by a string or a buffered file.
type RuneSource interface {
	Next() (r rune, ok bool)
}

// Tokenize reads rs to exhaustion and invokes sink once per word found,
// in order of appearance. The same hashing rule used here must be used by
// any caller that re-hashes a substring for verification (see HashWord).
func Tokenize(sourceName string, rs RuneSource, sink func(WordRecord)) {
	pos := 0
	wordStart := -1
	var acc uint32
	var length int

	flush := func() {
		if wordStart < 0 {
			return
		}
		sink(WordRecord{
			SourceName: sourceName,
			WordHash:   acc,
			WordPos:    wordStart,
			WordLength: length,
		})
		wordStart = -1
		acc = 0
		length = 0
	}

	for {
		r, ok := rs.Next()
		if !ok {
			break
		}
		if isWordChar(r) {
			if wordStart < 0 {
				wordStart = pos
			}
			acc = acc*31 + uint32(r)
			length++
		} else {
			flush()
		}
		pos++
	}
	flush()
}

// HashWord computes the same 32-bit accumulator hash Tokenize uses, over an
// arbitrary rune sequence. The planner does not call it (query words get
// their hashes from Tokenize); tests and benchmarks use it to compute the
// hash of a known word.
func HashWord(runes []rune) uint32 {
	var acc uint32
	for _, r := range runes {
		acc = acc*31 + uint32(r)
	}
	return acc
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
