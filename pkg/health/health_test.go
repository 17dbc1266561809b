package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRunAggregatesWorstStatus(t *testing.T) {
	c := NewChecker()
	c.Register("index", Func(func(context.Context) error { return nil }))
	c.Register("cache", func(context.Context) ComponentHealth {
		return ComponentHealth{Status: StatusDegraded, Message: "slow"}
	})
	if got := c.Run(context.Background()).Status; got != StatusDegraded {
		t.Errorf("status = %s, want degraded", got)
	}

	c.Register("store", Func(func(context.Context) error { return errors.New("unreachable") }))
	report := c.Run(context.Background())
	if report.Status != StatusDown {
		t.Errorf("status = %s, want down", report.Status)
	}
	if report.Components["store"].Message != "unreachable" {
		t.Errorf("store message = %q", report.Components["store"].Message)
	}
	if len(report.Components) != 3 {
		t.Errorf("components = %d, want 3", len(report.Components))
	}
}

func TestReadyHandler(t *testing.T) {
	ready := false
	c := NewChecker()
	c.Register("index", Func(func(context.Context) error {
		if !ready {
			return errors.New("no snapshot")
		}
		return nil
	}))

	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("not ready: status = %d", rec.Code)
	}

	ready = true
	rec = httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready: status = %d", rec.Code)
	}
	var report Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Status != StatusUp {
		t.Errorf("report status = %s", report.Status)
	}
}
