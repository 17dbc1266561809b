package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDocIDsSortedNumerically(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"10.txt":   "ten",
		"2.txt":    "two",
		"1.txt":    "one",
		"notes.md": "ignored",
		"README":   "ignored",
	})
	ids, err := NewSource(dir, "").DocIDs()
	if err != nil {
		t.Fatalf("DocIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{1, 2, 10}) {
		t.Errorf("DocIDs = %v, want [1 2 10]", ids)
	}
}

func TestDocIDsRejectsNonNumericNames(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"1.txt": "x", "draft.txt": "y"})
	_, err := NewSource(dir, "*.txt").DocIDs()
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMissingCorpus(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "nope"), "").DocIDs()
	if !errors.Is(err, apperrors.ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", err)
	}
	_, err = NewSource(t.TempDir(), "").DocIDs()
	if !errors.Is(err, apperrors.ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource for empty corpus, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"2.txt": "Network policy.",
		"1.txt": "Network, security!",
	})
	var calls []int
	docs, err := NewSource(dir, "").Load(context.Background(), func(done, total int) {
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != 1 || docs[1].ID != 2 {
		t.Fatalf("unexpected docs %+v", docs)
	}
	if !reflect.DeepEqual(docs[0].Tokens, []string{"network", "security"}) {
		t.Errorf("doc 1 tokens = %v", docs[0].Tokens)
	}
	if !reflect.DeepEqual(docs[1].Tokens, []string{"network", "policy"}) {
		t.Errorf("doc 2 tokens = %v", docs[1].Tokens)
	}
	if !reflect.DeepEqual(calls, []int{1, 2}) {
		t.Errorf("progress calls = %v", calls)
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"1.txt": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSource(dir, "").Load(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
