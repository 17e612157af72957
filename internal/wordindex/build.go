package wordindex

import "github.com/n-orlov/textsearch/internal/token"

// Build tokenizes rs under sourceName and returns the resulting records
// bucketed by hash, ready to hand to AddBatch. Kept separate from AddBatch
// so tokenization (which can fail via rs) never touches the shared index
// until it has fully succeeded.
func Build(sourceName string, rs token.RuneSource) map[uint32][]token.WordRecord {
	local := make(map[uint32][]token.WordRecord)
	token.Tokenize(sourceName, rs, func(w token.WordRecord) {
		local[w.WordHash] = append(local[w.WordHash], w)
	})
	return local
}
