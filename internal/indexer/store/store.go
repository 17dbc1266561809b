// Package store persists the inverted and positional indexes. The line file
// backend is the canonical format; bbolt and SQL backends hold the same data
// for deployments that prefer a database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/postgres"
)

// Store saves and loads both indexes together. Load is all-or-nothing:
// a store that cannot be fully parsed returns ErrCorruptIndex and no data.
type Store interface {
	Save(ctx context.Context, inv index.InvertedIndex, pos index.PositionalIndex) error
	Load(ctx context.Context) (index.InvertedIndex, index.PositionalIndex, error)
	Exists(ctx context.Context) (bool, error)
	Close() error
}

// Open returns the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return NewFileStore(
			filepath.Join(cfg.Store.Dir, cfg.Store.InvertedFile),
			filepath.Join(cfg.Store.Dir, cfg.Store.PositionalFile),
		), nil
	case config.BackendBolt:
		return OpenBolt(filepath.Join(cfg.Store.Dir, cfg.Store.BoltPath))
	case config.BackendSQL:
		var (
			db  *sql.DB
			err error
		)
		switch cfg.Store.SQLDriver {
		case DialectPostgres:
			var client *postgres.Client
			client, err = postgres.New(cfg.Postgres)
			if err == nil {
				db = client.DB
			}
		case DialectSQLite:
			db, err = OpenSQLite(filepath.Join(cfg.Store.Dir, cfg.SQLite.Path))
		default:
			err = fmt.Errorf("unsupported sql driver %q", cfg.Store.SQLDriver)
		}
		if err != nil {
			return nil, err
		}
		s, err := NewSQLStore(db, cfg.Store.SQLDriver)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
