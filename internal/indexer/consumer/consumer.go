// Package consumer holds the Kafka message handlers that drive the index
// lifecycle: indexers rebuild on reindex requests, searchers reload on
// index-complete events.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/kafka"
	pkglogger "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
)

// Rebuilder rebuilds and persists the index.
type Rebuilder interface {
	Rebuild(ctx context.Context, progress corpus.ProgressFunc) (*index.Snapshot, error)
}

// Loader reloads the persisted index.
type Loader interface {
	LoadPersisted(ctx context.Context) (*index.Snapshot, error)
}

// Publisher sends an event.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Invalidator drops cached query results.
type Invalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

// HandleReindex returns a MessageHandler that rebuilds the index for every
// ReindexRequest and announces the outcome. pub may be nil.
func HandleReindex(r Rebuilder, pub Publisher) kafka.MessageHandler {
	logger := slog.Default().With("component", "reindex-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		req, err := kafka.DecodeJSON[ReindexRequest](value)
		if err != nil {
			logger.Error("failed to decode reindex request",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		logger.Info("reindex requested", "request_id", req.RequestID, "reason", req.Reason)

		snap, buildErr := r.Rebuild(pkglogger.WithRequestID(ctx, req.RequestID), nil)
		event := IndexComplete{RequestID: req.RequestID}
		if buildErr != nil {
			event.Error = buildErr.Error()
		} else {
			stats := snap.Stats()
			event.Generation = stats.Generation
			event.Documents = stats.Documents
			event.Terms = stats.Terms
			event.PositionalEntries = stats.PositionalEntries
			event.BuiltAt = stats.BuiltAt
		}
		if pub != nil {
			if err := pub.Publish(ctx, kafka.Event{Key: req.RequestID, Value: event}); err != nil {
				logger.Error("failed to publish index-complete", "request_id", req.RequestID, "error", err)
			}
		}
		if buildErr != nil {
			return fmt.Errorf("rebuilding index for request %s: %w", req.RequestID, buildErr)
		}
		logger.Info("reindex complete",
			"request_id", req.RequestID,
			"generation", event.Generation,
			"terms", event.Terms,
		)
		return nil
	}
}

// HandleIndexComplete returns a MessageHandler that reloads the persisted
// index after a successful rebuild elsewhere, then drops cached results.
// inv may be nil.
func HandleIndexComplete(l Loader, inv Invalidator) kafka.MessageHandler {
	logger := slog.Default().With("component", "reload-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[IndexComplete](value)
		if err != nil {
			logger.Error("failed to decode index-complete event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		if event.Error != "" {
			logger.Warn("remote rebuild failed, keeping current index",
				"request_id", event.RequestID,
				"error", event.Error,
			)
			return nil
		}
		start := time.Now()
		snap, err := l.LoadPersisted(ctx)
		if err != nil {
			return fmt.Errorf("reloading index after request %s: %w", event.RequestID, err)
		}
		if inv != nil {
			if _, err := inv.Invalidate(ctx); err != nil {
				logger.Error("cache invalidation after reload failed", "error", err)
			}
		}
		logger.Info("index reloaded",
			"request_id", event.RequestID,
			"generation", snap.Generation,
			"terms", len(snap.Inverted),
			"duration", time.Since(start),
		)
		return nil
	}
}
