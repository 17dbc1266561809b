package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// SQL dialects understood by SQLStore. The names match the database/sql
// driver names registered by lib/pq and modernc.org/sqlite.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS inverted_postings (
		term   TEXT    NOT NULL,
		doc_id INTEGER NOT NULL,
		PRIMARY KEY (term, doc_id)
	)`,
	`CREATE TABLE IF NOT EXISTS positional_postings (
		term      TEXT    NOT NULL,
		doc_id    INTEGER NOT NULL,
		positions TEXT    NOT NULL,
		PRIMARY KEY (term, doc_id)
	)`,
}

// SQLStore keeps the indexes in two relational tables. Positions are stored
// in the same space separated form the line files use.
type SQLStore struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

func NewSQLStore(db *sql.DB, dialect string) (*SQLStore, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	return &SQLStore{
		db:      db,
		dialect: dialect,
		logger:  slog.Default().With("component", "sql-store", "dialect", dialect),
	}, nil
}

// OpenSQLite opens (creating if needed) an embedded database file.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating sqlite directory: %w", err)
	}
	db, err := sql.Open(DialectSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates the tables if they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating index schema: %w", err)
		}
	}
	return nil
}

// Save replaces both tables inside one transaction.
func (s *SQLStore) Save(ctx context.Context, inv index.InvertedIndex, pos index.PositionalIndex) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"inverted_postings", "positional_postings"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		invStmt, err := tx.PrepareContext(ctx, s.bind("INSERT INTO inverted_postings (term, doc_id) VALUES (?, ?)"))
		if err != nil {
			return fmt.Errorf("preparing inverted insert: %w", err)
		}
		defer invStmt.Close()
		for _, term := range inv.Terms() {
			for _, doc := range inv[term] {
				if _, err := invStmt.ExecContext(ctx, term, doc); err != nil {
					return fmt.Errorf("inserting posting (%s, %d): %w", term, doc, err)
				}
			}
		}
		posStmt, err := tx.PrepareContext(ctx, s.bind("INSERT INTO positional_postings (term, doc_id, positions) VALUES (?, ?, ?)"))
		if err != nil {
			return fmt.Errorf("preparing positional insert: %w", err)
		}
		defer posStmt.Close()
		for _, term := range pos.Terms() {
			for _, doc := range pos.Docs(term) {
				if _, err := posStmt.ExecContext(ctx, term, doc, joinInts(pos[term][doc])); err != nil {
					return fmt.Errorf("inserting positions (%s, %d): %w", term, doc, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("index saved", "terms", len(inv))
	return nil
}

func (s *SQLStore) Load(ctx context.Context) (index.InvertedIndex, index.PositionalIndex, error) {
	inv := make(index.InvertedIndex)
	rows, err := s.db.QueryContext(ctx, "SELECT term, doc_id FROM inverted_postings ORDER BY term, doc_id")
	if err != nil {
		return nil, nil, fmt.Errorf("querying inverted postings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			term string
			doc  int
		)
		if err := rows.Scan(&term, &doc); err != nil {
			return nil, nil, fmt.Errorf("%w: scanning inverted posting: %v", apperrors.ErrCorruptIndex, err)
		}
		if term == "" || doc <= 0 {
			return nil, nil, fmt.Errorf("%w: invalid posting (%q, %d)", apperrors.ErrCorruptIndex, term, doc)
		}
		inv[term] = append(inv[term], doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading inverted postings: %w", err)
	}

	pos := make(index.PositionalIndex)
	prow, err := s.db.QueryContext(ctx, "SELECT term, doc_id, positions FROM positional_postings ORDER BY term, doc_id")
	if err != nil {
		return nil, nil, fmt.Errorf("querying positional postings: %w", err)
	}
	defer prow.Close()
	for prow.Next() {
		var (
			term, raw string
			doc       int
		)
		if err := prow.Scan(&term, &doc, &raw); err != nil {
			return nil, nil, fmt.Errorf("%w: scanning positional posting: %v", apperrors.ErrCorruptIndex, err)
		}
		offsets, err := parseInts(raw)
		if err != nil || len(offsets) == 0 || term == "" || doc <= 0 {
			return nil, nil, fmt.Errorf("%w: invalid positions for (%q, %d)", apperrors.ErrCorruptIndex, term, doc)
		}
		if pos[term] == nil {
			pos[term] = make(map[int][]int)
		}
		pos[term][doc] = offsets
	}
	if err := prow.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading positional postings: %w", err)
	}
	if len(inv) == 0 && len(pos) == 0 {
		return nil, nil, fmt.Errorf("%w: sql store is empty", apperrors.ErrIndexNotReady)
	}
	return inv, pos, nil
}

func (s *SQLStore) Exists(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inverted_postings").Scan(&n)
	if err != nil {
		return false, fmt.Errorf("counting postings: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// bind rewrites '?' placeholders into the dialect's form.
func (s *SQLStore) bind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func joinInts(vals []int) string {
	var b strings.Builder
	for _, v := range vals {
		b.WriteString(strconv.Itoa(v))
		b.WriteByte(' ')
	}
	return b.String()
}
