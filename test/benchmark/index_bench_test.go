// Package benchmark contains Go benchmarks for normalisation, index
// construction, persistence and query evaluation, measuring throughput and
// allocation behaviour.
package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stopwords"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/store"
)

var vocabulary = []string{
	"network", "security", "policy", "firewall", "packet", "routing",
	"protocol", "encryption", "the", "of", "and", "attack", "defense",
	"intrusion", "detection", "traffic", "analysis", "model", "graph",
	"learning", "system", "distributed", "storage", "query",
}

var benchStopwords = stopwords.New("the", "of", "and", "a", "is")

// syntheticCorpus builds n documents of size tokens each with a fixed seed.
func syntheticCorpus(n, size int) []index.Document {
	rng := rand.New(rand.NewSource(42))
	docs := make([]index.Document, n)
	for i := range docs {
		tokens := make([]string, size)
		for j := range tokens {
			tokens[j] = vocabulary[rng.Intn(len(vocabulary))]
		}
		docs[i] = index.Document{ID: i + 1, Tokens: tokens}
	}
	return docs
}

func BenchmarkBuildInverted(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		docs := syntheticCorpus(n, 500)
		builder := index.NewBuilder(benchStopwords)
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				inv := builder.BuildInverted(docs)
				_ = inv
			}
		})
	}
}

func BenchmarkBuildPositional(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		docs := syntheticCorpus(n, 500)
		builder := index.NewBuilder(benchStopwords)
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				pos := builder.BuildPositional(docs)
				_ = pos
			}
		})
	}
}

func BenchmarkFileStoreSaveLoad(b *testing.B) {
	snap := index.NewBuilder(benchStopwords).Build(syntheticCorpus(200, 500))
	dir := b.TempDir()
	st := store.NewFileStore(filepath.Join(dir, "inverted.txt"), filepath.Join(dir, "positional.txt"))
	ctx := context.Background()

	b.Run("save", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if err := st.Save(ctx, snap.Inverted, snap.Positional); err != nil {
				b.Fatalf("save: %v", err)
			}
		}
	})
	b.Run("load", func(b *testing.B) {
		if err := st.Save(ctx, snap.Inverted, snap.Positional); err != nil {
			b.Fatalf("save: %v", err)
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, _, err := st.Load(ctx); err != nil {
				b.Fatalf("load: %v", err)
			}
		}
	})
}
