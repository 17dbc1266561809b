package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

var (
	bucketInverted   = []byte("inverted")
	bucketPositional = []byte("positional")
	bucketMeta       = []byte("meta")
	keySavedAt       = []byte("saved_at")
)

// BoltStore keeps both indexes in a single bbolt file. Terms are keys and
// posting data is JSON encoded.
type BoltStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating bolt directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db %s: %w", path, err)
	}
	return &BoltStore{
		db:     db,
		logger: slog.Default().With("component", "bolt-store"),
	}, nil
}

// Save replaces the stored indexes in one write transaction.
func (s *BoltStore) Save(ctx context.Context, inv index.InvertedIndex, pos index.PositionalIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketInverted, bucketPositional, bucketMeta} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return fmt.Errorf("clearing bucket %s: %w", name, err)
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		ib := tx.Bucket(bucketInverted)
		for term, docs := range inv {
			data, err := json.Marshal(docs)
			if err != nil {
				return fmt.Errorf("marshaling postings for %q: %w", term, err)
			}
			if err := ib.Put([]byte(term), data); err != nil {
				return err
			}
		}
		pb := tx.Bucket(bucketPositional)
		for term, docs := range pos {
			data, err := json.Marshal(docs)
			if err != nil {
				return fmt.Errorf("marshaling positions for %q: %w", term, err)
			}
			if err := pb.Put([]byte(term), data); err != nil {
				return err
			}
		}
		stamp := strconv.FormatInt(time.Now().Unix(), 10)
		return tx.Bucket(bucketMeta).Put(keySavedAt, []byte(stamp))
	})
	if err != nil {
		return fmt.Errorf("saving index to bolt: %w", err)
	}
	s.logger.Info("index saved", "path", s.db.Path(), "terms", len(inv))
	return nil
}

func (s *BoltStore) Load(ctx context.Context) (index.InvertedIndex, index.PositionalIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	inv := make(index.InvertedIndex)
	pos := make(index.PositionalIndex)
	err := s.db.View(func(tx *bbolt.Tx) error {
		ib, pb := tx.Bucket(bucketInverted), tx.Bucket(bucketPositional)
		if ib == nil || pb == nil {
			return fmt.Errorf("%w: bolt store %s is empty", apperrors.ErrIndexNotReady, s.db.Path())
		}
		err := ib.ForEach(func(k, v []byte) error {
			var docs []int
			if err := json.Unmarshal(v, &docs); err != nil {
				return fmt.Errorf("%w: term %q: %v", apperrors.ErrCorruptIndex, k, err)
			}
			if len(k) == 0 || len(docs) == 0 || !strictlyAscending(docs) {
				return fmt.Errorf("%w: bad postings for term %q", apperrors.ErrCorruptIndex, k)
			}
			inv[string(k)] = docs
			return nil
		})
		if err != nil {
			return err
		}
		return pb.ForEach(func(k, v []byte) error {
			var docs map[int][]int
			if err := json.Unmarshal(v, &docs); err != nil {
				return fmt.Errorf("%w: term %q: %v", apperrors.ErrCorruptIndex, k, err)
			}
			for doc, offsets := range docs {
				if doc <= 0 || len(offsets) == 0 || !strictlyAscending(offsets) {
					return fmt.Errorf("%w: bad positions for term %q in %d", apperrors.ErrCorruptIndex, k, doc)
				}
			}
			pos[string(k)] = docs
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return inv, pos, nil
}

func (s *BoltStore) Exists(_ context.Context) (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		ok = tx.Bucket(bucketInverted) != nil && tx.Bucket(bucketPositional) != nil
		return nil
	})
	return ok, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func strictlyAscending(vals []int) bool {
	return slices.IsSorted(vals) && len(slices.Compact(slices.Clone(vals))) == len(vals)
}
