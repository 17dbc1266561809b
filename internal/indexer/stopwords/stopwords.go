// Package stopwords loads the fixed stopword list used by indexing and
// proximity queries.
package stopwords

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// Set is an immutable stopword set. The zero value and nil contain nothing.
type Set struct {
	words map[string]struct{}
}

// New builds a Set from the given words.
func New(words ...string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			s.words[w] = struct{}{}
		}
	}
	return s
}

// Load reads a newline-delimited stopword file. A missing file is a fatal
// configuration error.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stopword list %s: %v", apperrors.ErrMissingSource, path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads one stopword per line, trimming whitespace and skipping
// blank lines.
func Parse(r io.Reader) (*Set, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stopword list: %w", err)
	}
	return New(words...), nil
}

func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}
