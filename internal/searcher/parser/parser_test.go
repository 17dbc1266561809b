package parser

import (
	"errors"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

func TestParseBoolean(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"network", "network"},
		{"Networks", "network"},
		{"network security", "network"},
		{"network AND security", "AND(network, secur)"},
		{"network OR policies", "OR(network, polici)"},
		{"NOT security", "NOT(secur)"},
		{"ignored NOT security", "NOT(secur)"},
		{"a OR b AND c", "AND(OR(a, b), c)"},
		{"a AND b OR c", "AND(a, OR(b, c))"},
		{"NOT a AND b", "AND(NOT(a), b)"},
		{"a OR NOT b", "OR(a, NOT(b))"},
		{"NOT NOT a", "NOT(NOT(a))"},
		{"network and security", "network"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			node, err := ParseBoolean(tt.query)
			if err != nil {
				t.Fatalf("ParseBoolean(%q): %v", tt.query, err)
			}
			if got := node.String(); got != tt.want {
				t.Errorf("ParseBoolean(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseBooleanMalformed(t *testing.T) {
	for _, q := range []string{"", "   ", "AND", "a AND", "OR b", "a NOT", "a AND NOT"} {
		t.Run(q, func(t *testing.T) {
			_, err := ParseBoolean(q)
			if !errors.Is(err, apperrors.ErrMalformedQuery) {
				t.Errorf("ParseBoolean(%q) error = %v, want ErrMalformedQuery", q, err)
			}
		})
	}
}

func TestParseProximity(t *testing.T) {
	tests := []struct {
		query       string
		first, sec  string
		width       int
		firstStored string
	}{
		{"network security /3", "network", "secur", 3, "network"},
		{"Network Policies /0", "network", "polici", 0, "network"},
		{"a b c /12", "a", "b", 2, "a"},
		{"The network /1", "the", "network", 1, "the"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := ParseProximity(tt.query)
			if err != nil {
				t.Fatalf("ParseProximity(%q): %v", tt.query, err)
			}
			if q.First.Term != tt.first || q.Second.Term != tt.sec || q.Width != tt.width {
				t.Errorf("got %s, want NEAR(%s, %s, %d)", q, tt.first, tt.sec, tt.width)
			}
			if q.First.Word != tt.firstStored {
				t.Errorf("first word = %q, want %q", q.First.Word, tt.firstStored)
			}
		})
	}
}

func TestParseProximityMalformed(t *testing.T) {
	for _, q := range []string{"", "network /2", "/2", "network security /x", "network security /"} {
		t.Run(q, func(t *testing.T) {
			_, err := ParseProximity(q)
			if !errors.Is(err, apperrors.ErrMalformedQuery) {
				t.Errorf("ParseProximity(%q) error = %v, want ErrMalformedQuery", q, err)
			}
		})
	}
}

func TestIsProximity(t *testing.T) {
	if !IsProximity("a b /1") {
		t.Error("expected proximity")
	}
	if IsProximity("a AND b") {
		t.Error("expected boolean")
	}
}
