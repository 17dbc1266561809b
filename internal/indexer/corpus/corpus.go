// Package corpus discovers and reads the document files that make up the
// collection. Each document lives in <docID>.txt under a single directory.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// ProgressFunc is called after each document is read.
type ProgressFunc func(done, total int)

// Source reads documents from a directory. Files whose names do not match
// the pattern are ignored.
type Source struct {
	dir     string
	pattern string
	logger  *slog.Logger
}

func NewSource(dir, pattern string) *Source {
	if pattern == "" {
		pattern = "*.txt"
	}
	return &Source{
		dir:     dir,
		pattern: pattern,
		logger:  slog.Default().With("component", "corpus"),
	}
}

func (s *Source) Dir() string {
	return s.dir
}

// DocIDs lists the corpus and returns the document IDs in ascending order.
func (s *Source) DocIDs() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus directory %s: %v", apperrors.ErrMissingSource, s.dir, err)
	}
	ids := make([]int, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		matched, err := doublestar.Match(s.pattern, name)
		if err != nil {
			return nil, fmt.Errorf("matching corpus pattern %q: %w", s.pattern, err)
		}
		if !matched {
			continue
		}
		id, err := parseDocID(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no documents matching %q in %s", apperrors.ErrMissingSource, s.pattern, s.dir)
	}
	slices.Sort(ids)
	return ids, nil
}

// Read returns the raw text of one document.
func (s *Source) Read(id int) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, strconv.Itoa(id)+".txt"))
	if err != nil {
		return "", fmt.Errorf("%w: document %d: %v", apperrors.ErrMissingSource, id, err)
	}
	return string(data), nil
}

// Load reads and normalises every document in docID order. Any unreadable
// document aborts the whole load.
func (s *Source) Load(ctx context.Context, progress ProgressFunc) ([]index.Document, error) {
	ids, err := s.DocIDs()
	if err != nil {
		return nil, err
	}
	docs := make([]index.Document, 0, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := s.Read(id)
		if err != nil {
			return nil, err
		}
		tokens := tokenizer.Normalize(text)
		docs = append(docs, index.Document{ID: id, Tokens: tokens})
		s.logger.Debug("document normalised", "doc_id", id, "tokens", len(tokens))
		if progress != nil {
			progress(i+1, len(ids))
		}
	}
	s.logger.Info("corpus loaded", "dir", s.dir, "documents", len(docs))
	return docs, nil
}

func parseDocID(name string) (int, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	id, err := strconv.ParseUint(stem, 10, 32)
	if err != nil || id == 0 || id > math.MaxUint32 {
		return 0, fmt.Errorf("%w: corpus file %q is not named <docID>.txt", apperrors.ErrInvalidInput, name)
	}
	return int(id), nil
}
