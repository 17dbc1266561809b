// Package index holds the inverted and positional indexes and the builder
// that produces them from normalised documents.
package index

import (
	"slices"
	"time"
)

// Document is one corpus file after normalisation. Tokens is never mutated
// once indexing starts.
type Document struct {
	ID     int
	Tokens []string
}

// InvertedIndex maps a term to the ascending IDs of the documents that
// contain it. Each ID appears at most once per term.
type InvertedIndex map[string][]int

// Postings returns the posting list for term, or nil.
func (ii InvertedIndex) Postings(term string) []int {
	return ii[term]
}

// Terms returns every term in ascending order.
func (ii InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(ii))
	for t := range ii {
		terms = append(terms, t)
	}
	slices.Sort(terms)
	return terms
}

// PositionalIndex maps a term to, per document, the ascending token offsets
// at which the term occurs. Offsets count stopwords, so gaps are preserved.
type PositionalIndex map[string]map[int][]int

// Positions returns the offsets of term in doc, or nil.
func (pi PositionalIndex) Positions(term string, doc int) []int {
	return pi[term][doc]
}

// Terms returns every term in ascending order.
func (pi PositionalIndex) Terms() []string {
	terms := make([]string, 0, len(pi))
	for t := range pi {
		terms = append(terms, t)
	}
	slices.Sort(terms)
	return terms
}

// Docs returns the documents term occurs in, ascending.
func (pi PositionalIndex) Docs(term string) []int {
	docs := make([]int, 0, len(pi[term]))
	for d := range pi[term] {
		docs = append(docs, d)
	}
	slices.Sort(docs)
	return docs
}

// Entries counts (term, document) pairs.
func (pi PositionalIndex) Entries() int {
	n := 0
	for _, docs := range pi {
		n += len(docs)
	}
	return n
}

// Snapshot is one immutable generation of both indexes together with the
// corpus document universe used for NOT queries. Snapshots are replaced
// wholesale, never modified.
type Snapshot struct {
	Inverted   InvertedIndex
	Positional PositionalIndex
	DocIDs     []int
	Generation int64
	BuiltAt    time.Time
}

// Stats summarises a snapshot.
type Stats struct {
	Terms             int       `json:"terms"`
	Documents         int       `json:"documents"`
	PositionalEntries int       `json:"positional_entries"`
	Generation        int64     `json:"generation"`
	BuiltAt           time.Time `json:"built_at"`
}

func (s *Snapshot) Stats() Stats {
	return Stats{
		Terms:             len(s.Inverted),
		Documents:         len(s.DocIDs),
		PositionalEntries: s.Positional.Entries(),
		Generation:        s.Generation,
		BuiltAt:           s.BuiltAt,
	}
}
