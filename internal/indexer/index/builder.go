package index

import (
	"log/slog"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stemmer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stopwords"
)

// Builder turns normalised documents into an inverted and a positional
// index using a fixed stopword set.
type Builder struct {
	stop   *stopwords.Set
	stem   func(string) string
	logger *slog.Logger
}

func NewBuilder(stop *stopwords.Set) *Builder {
	return &Builder{
		stop:   stop,
		stem:   stemmer.Stem,
		logger: slog.Default().With("component", "index-builder"),
	}
}

// BuildInverted drops stopwords, stems the remaining tokens, and records
// each distinct term once per document.
func (b *Builder) BuildInverted(docs []Document) InvertedIndex {
	inv := make(InvertedIndex)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range doc.Tokens {
			if b.stop.Contains(tok) {
				continue
			}
			term := b.stem(tok)
			if term == "" {
				continue
			}
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			inv[term] = append(inv[term], doc.ID)
		}
	}
	for _, postings := range inv {
		slices.Sort(postings)
	}
	return inv
}

// BuildPositional walks the full token sequence, stopwords included, and
// appends the offset of every non-stopword token under its term.
func (b *Builder) BuildPositional(docs []Document) PositionalIndex {
	pos := make(PositionalIndex)
	for _, doc := range docs {
		for j, tok := range doc.Tokens {
			if b.stop.Contains(tok) {
				continue
			}
			term := b.stem(tok)
			if term == "" {
				continue
			}
			perDoc, ok := pos[term]
			if !ok {
				perDoc = make(map[int][]int)
				pos[term] = perDoc
			}
			perDoc[doc.ID] = append(perDoc[doc.ID], j)
		}
	}
	return pos
}

// Build produces a complete snapshot. DocIDs is the sorted set of document
// IDs, including documents that contributed no terms.
func (b *Builder) Build(docs []Document) *Snapshot {
	ids := make([]int, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	snap := &Snapshot{
		Inverted:   b.BuildInverted(docs),
		Positional: b.BuildPositional(docs),
		DocIDs:     ids,
	}
	b.logger.Info("indexes built",
		"documents", len(ids),
		"terms", len(snap.Inverted),
		"positional_entries", snap.Positional.Entries(),
	)
	return snap
}
