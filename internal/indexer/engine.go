// Package indexer ties the corpus, the index builder and the index store
// together and publishes immutable snapshots for the query side.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stopwords"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/store"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/tracing"
)

type Engine struct {
	source     *corpus.Source
	stop       *stopwords.Set
	builder    *index.Builder
	store      store.Store
	current    atomic.Pointer[index.Snapshot]
	generation atomic.Int64
	buildMu    sync.Mutex
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewEngine(source *corpus.Source, stop *stopwords.Set, st store.Store, m *metrics.Metrics) *Engine {
	return &Engine{
		source:  source,
		stop:    stop,
		builder: index.NewBuilder(stop),
		store:   st,
		metrics: m,
		logger:  slog.Default().With("component", "indexer"),
	}
}

// Open makes a snapshot available. A persisted index is loaded when one
// exists; otherwise, or when force is set, the corpus is indexed and saved.
// The returned bool reports whether a build happened.
func (e *Engine) Open(ctx context.Context, force bool, progress corpus.ProgressFunc) (*index.Snapshot, bool, error) {
	if !force {
		exists, err := e.store.Exists(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("checking for persisted index: %w", err)
		}
		if exists {
			e.logger.Info("persisted index found, skipping build")
			snap, err := e.LoadPersisted(ctx)
			return snap, false, err
		}
	}
	snap, err := e.Rebuild(ctx, progress)
	return snap, err == nil, err
}

// Rebuild reads the whole corpus, builds both indexes, saves them and
// swaps the new snapshot in. Concurrent calls are serialised. Queries keep
// using the previous snapshot until the swap.
func (e *Engine) Rebuild(ctx context.Context, progress corpus.ProgressFunc) (*index.Snapshot, error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	ctx, span := tracing.Start(ctx, "rebuild", logger.RequestID(ctx))
	defer func() {
		span.End()
		span.Log(e.logger)
	}()

	_, phase := tracing.Start(ctx, "load-corpus", "")
	docs, err := e.source.Load(ctx, progress)
	phase.End()
	if err != nil {
		e.metrics.ObserveIndex("build", err, 0, 0, 0)
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	phase.SetAttr("documents", len(docs))

	_, phase = tracing.Start(ctx, "build", "")
	snap := e.builder.Build(docs)
	phase.SetAttr("terms", len(snap.Inverted))
	phase.End()

	_, phase = tracing.Start(ctx, "save", "")
	err = e.store.Save(ctx, snap.Inverted, snap.Positional)
	phase.End()
	if err != nil {
		e.metrics.ObserveIndex("build", err, 0, 0, 0)
		return nil, fmt.Errorf("saving index: %w", err)
	}
	e.publish(snap)
	e.metrics.ObserveIndex("build", nil, len(docs), len(snap.Inverted), snap.Generation)
	e.logger.Info("index rebuilt",
		"generation", snap.Generation,
		"documents", len(snap.DocIDs),
		"terms", len(snap.Inverted),
		"duration", time.Since(span.Start),
	)
	return snap, nil
}

// LoadPersisted reads both indexes from the store and pairs them with the
// document IDs currently in the corpus directory.
func (e *Engine) LoadPersisted(ctx context.Context) (*index.Snapshot, error) {
	inv, pos, err := e.store.Load(ctx)
	if err != nil {
		e.metrics.ObserveIndex("load", err, 0, 0, 0)
		if errors.Is(err, apperrors.ErrCorruptIndex) {
			e.logger.Error("persisted index is corrupt, re-index required", "error", err)
		}
		return nil, fmt.Errorf("loading index: %w", err)
	}
	ids, err := e.source.DocIDs()
	if err != nil {
		e.metrics.ObserveIndex("load", err, 0, 0, 0)
		return nil, fmt.Errorf("listing corpus: %w", err)
	}
	snap := &index.Snapshot{Inverted: inv, Positional: pos, DocIDs: ids}
	e.publish(snap)
	e.metrics.ObserveIndex("load", nil, 0, len(inv), snap.Generation)
	e.logger.Info("index loaded",
		"generation", snap.Generation,
		"documents", len(ids),
		"terms", len(inv),
	)
	return snap, nil
}

// Snapshot returns the active snapshot, or nil before the first build or
// load.
func (e *Engine) Snapshot() *index.Snapshot {
	return e.current.Load()
}

// Stopwords returns the set used for indexing. Queries must use the same set.
func (e *Engine) Stopwords() *stopwords.Set {
	return e.stop
}

func (e *Engine) Close() error {
	return e.store.Close()
}

func (e *Engine) publish(snap *index.Snapshot) {
	snap.Generation = e.generation.Add(1)
	snap.BuiltAt = time.Now().UTC()
	e.current.Store(snap)
}
