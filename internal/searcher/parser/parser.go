// Package parser turns query strings into evaluable forms. Boolean queries
// become a tree of Term, And, Or and Not nodes; proximity queries become a
// ProximityQuery.
package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stemmer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// Query kinds.
const (
	KindBoolean   = "boolean"
	KindProximity = "proximity"
)

// Reserved operators. They are matched case-sensitively and never stemmed.
const (
	OpAnd = "AND"
	OpOr  = "OR"
	OpNot = "NOT"
)

// Node is one element of a boolean query tree.
type Node interface {
	String() string
	isNode()
}

// Term is a single normalised query term.
type Term struct {
	Name string
}

type And struct {
	Left, Right Node
}

type Or struct {
	Left, Right Node
}

// Not is the complement of Operand against the corpus.
type Not struct {
	Operand Node
}

func (Term) isNode() {}
func (And) isNode()  {}
func (Or) isNode()   {}
func (Not) isNode()  {}

func (t Term) String() string { return t.Name }
func (a And) String() string  { return fmt.Sprintf("AND(%s, %s)", a.Left, a.Right) }
func (o Or) String() string   { return fmt.Sprintf("OR(%s, %s)", o.Left, o.Right) }
func (n Not) String() string  { return fmt.Sprintf("NOT(%s)", n.Operand) }

// IsProximity reports whether a query should be handled as a proximity
// query.
func IsProximity(query string) bool {
	return strings.Contains(query, "/")
}

// NormalizeTerm applies the same case folding and stemming used at index
// time.
func NormalizeTerm(word string) string {
	return stemmer.Stem(strings.ToLower(word))
}

// ParseBoolean builds a query tree by splitting at the first AND, else the
// first OR, else the first NOT. Tokens before a NOT are ignored. Without an
// operator only the first token is used.
func ParseBoolean(query string) (Node, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, apperrors.Malformed("empty query")
	}
	return parseTokens(tokens)
}

func parseTokens(tokens []string) (Node, error) {
	if i := slices.Index(tokens, OpAnd); i >= 0 {
		left, right, err := parseBinary(OpAnd, tokens[:i], tokens[i+1:])
		if err != nil {
			return nil, err
		}
		return And{Left: left, Right: right}, nil
	}
	if i := slices.Index(tokens, OpOr); i >= 0 {
		left, right, err := parseBinary(OpOr, tokens[:i], tokens[i+1:])
		if err != nil {
			return nil, err
		}
		return Or{Left: left, Right: right}, nil
	}
	if i := slices.Index(tokens, OpNot); i >= 0 {
		rest := tokens[i+1:]
		if len(rest) == 0 {
			return nil, apperrors.Malformed("NOT without an operand")
		}
		operand, err := parseTokens(rest)
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	}
	return Term{Name: NormalizeTerm(tokens[0])}, nil
}

func parseBinary(op string, left, right []string) (Node, Node, error) {
	if len(left) == 0 {
		return nil, nil, apperrors.Malformed("%s without a left operand", op)
	}
	if len(right) == 0 {
		return nil, nil, apperrors.Malformed("%s without a right operand", op)
	}
	l, err := parseTokens(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := parseTokens(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// Operand is one side of a proximity query. Word is the lowercased query
// word, used for the stopword check; Term is its stem.
type Operand struct {
	Word string
	Term string
}

// ProximityQuery matches documents where First and Second occur within
// Width token positions of each other.
type ProximityQuery struct {
	First  Operand
	Second Operand
	Width  int
}

func (p ProximityQuery) String() string {
	return fmt.Sprintf("NEAR(%s, %s, %d)", p.First.Term, p.Second.Term, p.Width)
}

// ParseProximity parses "term1 term2 /k". The width is the last character
// of the last token and must be a single decimal digit. Tokens after the
// second term are ignored.
func ParseProximity(query string) (*ProximityQuery, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, apperrors.Malformed("empty query")
	}
	last := tokens[len(tokens)-1]
	tokens = tokens[:len(tokens)-1]
	digit := last[len(last)-1]
	if digit < '0' || digit > '9' {
		return nil, apperrors.Malformed("proximity width %q must end in a digit", last)
	}
	if len(tokens) < 2 {
		return nil, apperrors.Malformed("proximity query needs two terms, got %d", len(tokens))
	}
	return &ProximityQuery{
		First:  operand(tokens[0]),
		Second: operand(tokens[1]),
		Width:  int(digit - '0'),
	}, nil
}

func operand(word string) Operand {
	lower := strings.ToLower(word)
	return Operand{Word: lower, Term: stemmer.Stem(lower)}
}
