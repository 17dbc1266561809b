// Package executor evaluates parsed queries against the active index
// snapshot. Document sets are roaring bitmaps, so AND, OR and NOT are
// bitmap intersections, unions and differences.
package executor

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stopwords"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/metrics"
)

// NoResults is returned by FormatResult for an empty result set.
const NoResults = "No documents found"

// SnapshotSource supplies the index snapshot and the stopword set the
// index was built with.
type SnapshotSource interface {
	Snapshot() *index.Snapshot
	Stopwords() *stopwords.Set
}

// Result is the outcome of one query.
type Result struct {
	Query      string `json:"query"`
	Kind       string `json:"kind"`
	Parsed     string `json:"parsed"`
	DocIDs     []int  `json:"doc_ids"`
	Generation int64  `json:"generation"`
}

// Formatted renders the result the way FormatResult does.
func (r *Result) Formatted() string {
	return FormatResult(r.DocIDs)
}

type universe struct {
	snap *index.Snapshot
	bm   *roaring.Bitmap
}

type Executor struct {
	source   SnapshotSource
	metrics  *metrics.Metrics
	universe atomic.Pointer[universe]
}

func New(source SnapshotSource, m *metrics.Metrics) *Executor {
	return &Executor{
		source:  source,
		metrics: m,
	}
}

// Execute routes the query to the proximity evaluator when it contains a
// '/', otherwise to the boolean evaluator. Unknown terms yield an empty
// result, never an error.
func (e *Executor) Execute(ctx context.Context, query string) (*Result, error) {
	start := time.Now()
	kind := parser.KindBoolean
	if parser.IsProximity(query) {
		kind = parser.KindProximity
	}
	res, err := e.execute(ctx, kind, query)
	elapsed := time.Since(start)

	log := logger.FromContext(ctx).With("component", "query-executor")
	switch {
	case errors.Is(err, apperrors.ErrMalformedQuery):
		e.metrics.ObserveQuery(kind, "malformed", elapsed.Seconds(), 0)
		log.Debug("malformed query", "query", query, "error", err)
		return nil, err
	case err != nil:
		e.metrics.ObserveQuery(kind, "error", elapsed.Seconds(), 0)
		return nil, err
	}
	resultType := "hit"
	if len(res.DocIDs) == 0 {
		resultType = "zero_result"
	}
	e.metrics.ObserveQuery(kind, resultType, elapsed.Seconds(), len(res.DocIDs))
	log.Info("query executed",
		"query", query,
		"kind", kind,
		"parsed", res.Parsed,
		"results", len(res.DocIDs),
		"duration", elapsed,
	)
	return res, nil
}

func (e *Executor) execute(ctx context.Context, kind, query string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Newf(apperrors.ErrTimeout, http.StatusServiceUnavailable, "query cancelled: %v", err)
	}
	snap := e.source.Snapshot()
	if snap == nil {
		return nil, apperrors.New(apperrors.ErrIndexNotReady, http.StatusServiceUnavailable, "no index loaded")
	}
	res := &Result{Query: query, Kind: kind, Generation: snap.Generation}
	var bm *roaring.Bitmap
	if kind == parser.KindProximity {
		pq, err := parser.ParseProximity(query)
		if err != nil {
			return nil, err
		}
		res.Parsed = pq.String()
		bm = EvaluateProximity(snap, e.source.Stopwords(), pq)
	} else {
		node, err := parser.ParseBoolean(query)
		if err != nil {
			return nil, err
		}
		res.Parsed = node.String()
		bm = e.evaluate(snap, node)
	}
	res.DocIDs = toInts(bm)
	return res, nil
}

// EvaluateBoolean walks the tree once, post-order. NOT is complemented
// against the snapshot's document universe.
func EvaluateBoolean(snap *index.Snapshot, node parser.Node) *roaring.Bitmap {
	return evaluate(snap, node, func() *roaring.Bitmap { return fromInts(snap.DocIDs) })
}

func (e *Executor) evaluate(snap *index.Snapshot, node parser.Node) *roaring.Bitmap {
	return evaluate(snap, node, func() *roaring.Bitmap { return e.universeOf(snap) })
}

func evaluate(snap *index.Snapshot, node parser.Node, all func() *roaring.Bitmap) *roaring.Bitmap {
	switch n := node.(type) {
	case parser.Term:
		return fromInts(snap.Inverted.Postings(n.Name))
	case parser.And:
		return roaring.And(evaluate(snap, n.Left, all), evaluate(snap, n.Right, all))
	case parser.Or:
		return roaring.Or(evaluate(snap, n.Left, all), evaluate(snap, n.Right, all))
	case parser.Not:
		return roaring.AndNot(all(), evaluate(snap, n.Operand, all))
	default:
		return roaring.New()
	}
}

// EvaluateProximity returns the documents containing both operands within
// Width positions of each other. A stopword operand has no postings.
func EvaluateProximity(snap *index.Snapshot, stop *stopwords.Set, q *parser.ProximityQuery) *roaring.Bitmap {
	postings := func(op parser.Operand) *roaring.Bitmap {
		if stop.Contains(op.Word) {
			return roaring.New()
		}
		return fromInts(snap.Inverted.Postings(op.Term))
	}
	candidates := roaring.And(postings(q.First), postings(q.Second))
	out := roaring.New()
	it := candidates.Iterator()
	for it.HasNext() {
		doc := int(it.Next())
		p1 := snap.Positional.Positions(q.First.Term, doc)
		p2 := snap.Positional.Positions(q.Second.Term, doc)
		if Within(p1, p2, q.Width) {
			out.Add(uint32(doc))
		}
	}
	return out
}

// Within reports whether some pair of positions from the two ascending
// lists is at most k apart. The second cursor only moves forward: it
// advances past positions more than k before the current first position
// and stops at the first one more than k after it.
func Within(p1, p2 []int, k int) bool {
	j := 0
	for _, a := range p1 {
		for j < len(p2) {
			b := p2[j]
			if abs(a-b) <= k {
				return true
			}
			if b > a {
				break
			}
			j++
		}
	}
	return false
}

// FormatResult renders document IDs as "<id> <id> ... " with a trailing
// space, or NoResults when empty.
func FormatResult(ids []int) string {
	if len(ids) == 0 {
		return NoResults
	}
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(strconv.Itoa(id))
		b.WriteByte(' ')
	}
	return b.String()
}

func (e *Executor) universeOf(snap *index.Snapshot) *roaring.Bitmap {
	if u := e.universe.Load(); u != nil && u.snap == snap {
		return u.bm
	}
	bm := fromInts(snap.DocIDs)
	bm.RunOptimize()
	e.universe.Store(&universe{snap: snap, bm: bm})
	return bm
}

func fromInts(ids []int) *roaring.Bitmap {
	bm := roaring.New()
	for _, id := range ids {
		bm.Add(uint32(id))
	}
	return bm
}

func toInts(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
