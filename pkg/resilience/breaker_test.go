package resilience

import (
	"errors"
	"testing"
	"time"
)

var errBackend = errors.New("backend down")

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker("test", BreakerConfig{FailureThreshold: 2, Cooldown: time.Minute})
	fail := func() error { return errBackend }

	for i := 0; i < 2; i++ {
		if err := b.Do(fail); !errors.Is(err, errBackend) {
			t.Fatalf("call %d: expected backend error, got %v", i, err)
		}
	}
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %s", b.State())
	}
	called := false
	err := b.Do(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if called {
		t.Error("fn ran while breaker was open")
	}
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := NewBreaker("test", BreakerConfig{FailureThreshold: 2})
	_ = b.Do(func() error { return errBackend })
	_ = b.Do(func() error { return nil })
	_ = b.Do(func() error { return errBackend })
	if b.State() != StateClosed {
		t.Fatalf("non-consecutive failures should not trip, got %s", b.State())
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	now := time.Unix(0, 0)
	b := NewBreaker("test", BreakerConfig{FailureThreshold: 1, Cooldown: 10 * time.Second})
	b.now = func() time.Time { return now }

	_ = b.Do(func() error { return errBackend })
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %s", b.State())
	}

	now = now.Add(11 * time.Second)
	if err := b.Do(func() error { return errBackend }); !errors.Is(err, errBackend) {
		t.Fatalf("probe should run, got %v", err)
	}
	if b.State() != StateOpen {
		t.Fatalf("failed probe should re-open, got %s", b.State())
	}

	now = now.Add(11 * time.Second)
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("successful probe should close, got %s", b.State())
	}
}

func TestBreakerIsFailure(t *testing.T) {
	errMiss := errors.New("miss")
	b := NewBreaker("test", BreakerConfig{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return err != nil && !errors.Is(err, errMiss) },
	})
	for i := 0; i < 3; i++ {
		_ = b.Do(func() error { return errMiss })
	}
	if b.State() != StateClosed {
		t.Fatalf("ignored errors should not trip, got %s", b.State())
	}
}
