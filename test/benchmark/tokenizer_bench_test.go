package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stemmer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/tokenizer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Boolean retrieval answers a query with the exact set of documents that
        satisfy it. Each term maps to a sorted posting list; conjunctions intersect
        lists, disjunctions merge them and negation subtracts from the collection.
        Proximity queries add positional postings so that two terms can be required
        to appear within k words of each other, e.g. "network security /3".`,
	"long": strings.Repeat(`Information-retrieval systems normalise text before indexing it.
        Tokens are stripped of punctuation, case-folded and stemmed (run, running,
        runs -> run). Stop-words such as "the" and "of" are removed, but their
        positions are still counted, so phrase.distances stay faithful to the
        source document. John's notes on U.S.A. data-sets illustrate the splits. `, 20),
}

func BenchmarkNormalize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Normalize(text)
				_ = tokens
			}
		})
	}
}

func BenchmarkNormalizeParallel(b *testing.B) {
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens := tokenizer.Normalize(text)
			_ = tokens
		}
	})
}

func BenchmarkStemming(b *testing.B) {
	words := []string{
		"running", "distributed", "searching", "indexing",
		"tokenization", "normalization", "efficiently",
		"processing", "infrastructure", "scalability",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			term := stemmer.Stem(w)
			_ = term
		}
	}
}

func BenchmarkNormalizeVaryingSize(b *testing.B) {
	sizes := []int{10, 100, 500, 1000, 5000}
	baseWord := "boolean retrieval positional-index proximity.search "
	for _, size := range sizes {
		text := strings.Repeat(baseWord, size/len(baseWord)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Normalize(text)
				_ = tokens
			}
		})
	}
}
