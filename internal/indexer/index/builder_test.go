package index

import (
	"reflect"
	"slices"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stopwords"
)

func testDocs() []Document {
	return []Document{
		{ID: 7, Tokens: []string{"the", "network", "of", "networks", "is", "secure"}},
		{ID: 2, Tokens: []string{"network", "policy", "and", "the", "policies"}},
		{ID: 11, Tokens: []string{"the", "of", "and"}},
	}
}

func testBuilder() *Builder {
	return NewBuilder(stopwords.New("the", "of", "is", "and"))
}

func TestBuildInverted(t *testing.T) {
	inv := testBuilder().BuildInverted(testDocs())

	want := InvertedIndex{
		"network": {2, 7},
		"secur":   {7},
		"polici":  {2},
	}
	if !reflect.DeepEqual(inv, want) {
		t.Errorf("BuildInverted() = %v, want %v", inv, want)
	}
}

func TestBuildPositionalKeepsStopwordSlots(t *testing.T) {
	pos := testBuilder().BuildPositional(testDocs())

	if got := pos.Positions("network", 7); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("network@7 = %v, want [1 3]", got)
	}
	if got := pos.Positions("secur", 7); !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("secur@7 = %v, want [5]", got)
	}
	if got := pos.Positions("polici", 2); !reflect.DeepEqual(got, []int{1, 4}) {
		t.Errorf("polici@2 = %v, want [1 4]", got)
	}
	if _, ok := pos["the"]; ok {
		t.Error("stopwords must not be indexed")
	}
}

func TestInvertedAndPositionalAgree(t *testing.T) {
	snap := testBuilder().Build(testDocs())

	for term, docs := range snap.Inverted {
		for _, d := range docs {
			if len(snap.Positional.Positions(term, d)) == 0 {
				t.Errorf("%q in doc %d has no positions", term, d)
			}
		}
	}
	for _, term := range snap.Positional.Terms() {
		if !slices.Equal(snap.Positional.Docs(term), snap.Inverted.Postings(term)) {
			t.Errorf("%q: positional docs %v != postings %v",
				term, snap.Positional.Docs(term), snap.Inverted.Postings(term))
		}
	}
}

func TestBuildSnapshot(t *testing.T) {
	snap := testBuilder().Build(testDocs())

	if !reflect.DeepEqual(snap.DocIDs, []int{2, 7, 11}) {
		t.Errorf("DocIDs = %v, want [2 7 11]", snap.DocIDs)
	}
	stats := snap.Stats()
	if stats.Terms != 3 || stats.Documents != 3 || stats.PositionalEntries != 4 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if got := snap.Inverted.Terms(); !reflect.DeepEqual(got, []string{"network", "polici", "secur"}) {
		t.Errorf("Terms() = %v", got)
	}
}
