// Package handler exposes the query engine over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/executor"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
)

type QueryExecutor interface {
	Execute(ctx context.Context, query string) (*executor.Result, error)
}

type SnapshotSource interface {
	Snapshot() *index.Snapshot
}

// SearchResponse is the body of a successful search. Result carries the
// formatted document list, or the no-results sentinel.
type SearchResponse struct {
	Query     string `json:"query"`
	Kind      string `json:"kind"`
	Parsed    string `json:"parsed"`
	DocIDs    []int  `json:"doc_ids"`
	Result    string `json:"result"`
	Cached    bool   `json:"cached"`
	LatencyMs int64  `json:"latency_ms"`
}

type Handler struct {
	executor  QueryExecutor
	snapshots SnapshotSource
	cache     *cache.QueryCache
	logger    *slog.Logger
}

// New builds a Handler. queryCache may be nil to disable caching.
func New(exec QueryExecutor, snapshots SnapshotSource, queryCache *cache.QueryCache) *Handler {
	return &Handler{
		executor:  exec,
		snapshots: snapshots,
		cache:     queryCache,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	var (
		result   *executor.Result
		err      error
		cacheHit bool
	)
	snap := h.snapshots.Snapshot()
	if h.cache != nil && snap != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, snap.Generation, query, func() (*executor.Result, error) {
			return h.executor.Execute(ctx, query)
		})
	} else {
		result, err = h.executor.Execute(ctx, query)
	}
	if err != nil {
		status := apperrors.HTTPStatusCode(err)
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		if status >= http.StatusInternalServerError {
			log.Error("search failed", "query", query, "error", err)
		}
		h.writeError(w, status, errorMessage(err))
		return
	}

	latency := time.Since(start)
	log.Debug("search completed",
		"query", query,
		"results", len(result.DocIDs),
		"cache_hit", cacheHit,
		"latency", latency,
	)
	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:     result.Query,
		Kind:      result.Kind,
		Parsed:    result.Parsed,
		DocIDs:    result.DocIDs,
		Result:    result.Formatted(),
		Cached:    cacheHit,
		LatencyMs: latency.Milliseconds(),
	})
}

// Stats reports the size of the active index snapshot.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshots.Snapshot()
	if snap == nil {
		h.writeError(w, http.StatusServiceUnavailable, "index not loaded")
		return
	}
	h.writeJSON(w, http.StatusOK, snap.Stats())
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// errorMessage exposes client errors verbatim and hides internal ones.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError:
		return appErr.Error()
	case errors.Is(err, apperrors.ErrIndexNotReady):
		return "index not loaded"
	case errors.Is(err, apperrors.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "query timed out"
	default:
		return "search failed"
	}
}
