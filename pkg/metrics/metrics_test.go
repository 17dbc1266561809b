package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		t.Fatalf("writing metric: %v", err)
	}
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatalf("unsupported metric type")
	return 0
}

func TestObserveQuery(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.ObserveQuery("boolean", "hit", 0.001, 3)
	m.ObserveQuery("boolean", "hit", 0.002, 1)
	m.ObserveQuery("proximity", "malformed", 0.001, 0)

	if got := value(t, m.SearchQueriesTotal.WithLabelValues("boolean", "hit")); got != 2 {
		t.Errorf("boolean hits = %v, want 2", got)
	}
	if got := value(t, m.SearchQueriesTotal.WithLabelValues("proximity", "malformed")); got != 1 {
		t.Errorf("proximity malformed = %v, want 1", got)
	}
}

func TestObserveIndex(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.ObserveIndex("build", nil, 10, 42, 3)
	m.ObserveIndex("load", errors.New("boom"), 0, 0, 0)

	if got := value(t, m.DocsIndexedTotal); got != 10 {
		t.Errorf("docs indexed = %v, want 10", got)
	}
	if got := value(t, m.IndexTerms); got != 42 {
		t.Errorf("terms = %v, want 42", got)
	}
	if got := value(t, m.IndexGeneration); got != 3 {
		t.Errorf("generation = %v, want 3", got)
	}
	if got := value(t, m.IndexBuildsTotal.WithLabelValues("load", "error")); got != 1 {
		t.Errorf("failed loads = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveQuery("boolean", "hit", 0, 1)
	m.ObserveCache(true)
	m.ObserveIndex("build", nil, 1, 1, 1)
	m.ObserveRateLimited()
}
