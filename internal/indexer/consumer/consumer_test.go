package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/kafka"
)

type fakeEngine struct {
	snap    *index.Snapshot
	err     error
	rebuilt int
	loaded  int
}

func (f *fakeEngine) Rebuild(context.Context, corpus.ProgressFunc) (*index.Snapshot, error) {
	f.rebuilt++
	return f.snap, f.err
}

func (f *fakeEngine) LoadPersisted(context.Context) (*index.Snapshot, error) {
	f.loaded++
	return f.snap, f.err
}

type fakePublisher struct {
	events []kafka.Event
}

func (p *fakePublisher) Publish(_ context.Context, e kafka.Event) error {
	p.events = append(p.events, e)
	return nil
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(context.Context) (int64, error) {
	f.calls++
	return 0, nil
}

func testSnapshot() *index.Snapshot {
	return &index.Snapshot{
		Inverted:   index.InvertedIndex{"network": {1, 2}},
		Positional: index.PositionalIndex{"network": {1: {0}, 2: {3}}},
		DocIDs:     []int{1, 2},
		Generation: 4,
		BuiltAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHandleReindexPublishesStats(t *testing.T) {
	eng := &fakeEngine{snap: testSnapshot()}
	pub := &fakePublisher{}
	h := HandleReindex(eng, pub)

	if err := h(context.Background(), []byte("r1"), encode(t, ReindexRequest{RequestID: "r1"})); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if eng.rebuilt != 1 {
		t.Errorf("rebuilt %d times", eng.rebuilt)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events", len(pub.events))
	}
	done, ok := pub.events[0].Value.(IndexComplete)
	if !ok {
		t.Fatalf("unexpected event value %T", pub.events[0].Value)
	}
	if done.Generation != 4 || done.Documents != 2 || done.Terms != 1 || done.PositionalEntries != 2 {
		t.Errorf("event = %+v", done)
	}
}

func TestHandleReindexFailure(t *testing.T) {
	eng := &fakeEngine{err: errors.New("disk full")}
	pub := &fakePublisher{}
	err := HandleReindex(eng, pub)(context.Background(), nil, encode(t, ReindexRequest{RequestID: "r2"}))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(pub.events) != 1 || pub.events[0].Value.(IndexComplete).Error == "" {
		t.Errorf("failure not announced: %+v", pub.events)
	}
}

func TestHandleReindexSkipsGarbage(t *testing.T) {
	eng := &fakeEngine{snap: testSnapshot()}
	if err := HandleReindex(eng, nil)(context.Background(), nil, []byte("{not json")); err != nil {
		t.Fatalf("undecodable message should be skipped, got %v", err)
	}
	if eng.rebuilt != 0 {
		t.Error("rebuilt on undecodable message")
	}
}

func TestHandleIndexComplete(t *testing.T) {
	eng := &fakeEngine{snap: testSnapshot()}
	inv := &fakeInvalidator{}
	h := HandleIndexComplete(eng, inv)

	if err := h(context.Background(), nil, encode(t, IndexComplete{RequestID: "r1", Generation: 1})); err != nil {
		t.Fatal(err)
	}
	if eng.loaded != 1 || inv.calls != 1 {
		t.Errorf("loaded=%d invalidated=%d, want 1, 1", eng.loaded, inv.calls)
	}

	if err := h(context.Background(), nil, encode(t, IndexComplete{RequestID: "r2", Error: "boom"})); err != nil {
		t.Fatal(err)
	}
	if eng.loaded != 1 {
		t.Error("failed rebuild should not trigger a reload")
	}
}
