package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// FileStore keeps each index in its own text file.
type FileStore struct {
	invertedPath   string
	positionalPath string
	logger         *slog.Logger
}

func NewFileStore(invertedPath, positionalPath string) *FileStore {
	return &FileStore{
		invertedPath:   invertedPath,
		positionalPath: positionalPath,
		logger:         slog.Default().With("component", "file-store"),
	}
}

// Save writes both files. Each is written to a .tmp sibling, synced, and
// renamed into place, so readers never observe a partial file.
func (s *FileStore) Save(ctx context.Context, inv index.InvertedIndex, pos index.PositionalIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeAtomic(s.invertedPath, func(f *os.File) error { return WriteInverted(f, inv) }); err != nil {
		return err
	}
	if err := writeAtomic(s.positionalPath, func(f *os.File) error { return WritePositional(f, pos) }); err != nil {
		return err
	}
	s.logger.Info("index files written",
		"inverted", s.invertedPath,
		"positional", s.positionalPath,
		"terms", len(inv),
	)
	return nil
}

func (s *FileStore) Load(ctx context.Context) (index.InvertedIndex, index.PositionalIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	inv, err := readFile(s.invertedPath, ReadInverted)
	if err != nil {
		return nil, nil, err
	}
	pos, err := readFile(s.positionalPath, ReadPositional)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("index files loaded", "terms", len(inv), "positional_terms", len(pos))
	return inv, pos, nil
}

// Exists reports whether both index files are present.
func (s *FileStore) Exists(_ context.Context) (bool, error) {
	for _, p := range []string{s.invertedPath, s.positionalPath} {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf("checking %s: %w", p, err)
		}
	}
	return true, nil
}

func (s *FileStore) Close() error { return nil }

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, fmt.Errorf("%w: %s", apperrors.ErrIndexNotReady, path)
		}
		return zero, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func writeAtomic(path string, write func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing index file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing index file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming index file: %w", err)
	}
	return nil
}
