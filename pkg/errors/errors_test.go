package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"malformed app error", Malformed("width %q is not a digit", "x"), http.StatusBadRequest},
		{"wrapped malformed", fmt.Errorf("parsing: %w", ErrMalformedQuery), http.StatusBadRequest},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"not ready", fmt.Errorf("query: %w", ErrIndexNotReady), http.StatusServiceUnavailable},
		{"corrupt index", fmt.Errorf("loading: %w", ErrCorruptIndex), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("evaluating: %w", Malformed("fewer than two terms"))
	if !errors.Is(err, ErrMalformedQuery) {
		t.Fatalf("expected errors.Is(err, ErrMalformedQuery), got %v", err)
	}
	want := "malformed query: fewer than two terms"
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Error() != want {
		t.Errorf("AppError.Error() = %v, want %q", appErr, want)
	}
}
