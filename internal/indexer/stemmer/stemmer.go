// Package stemmer reduces tokens to index terms with the Porter stemmer.
package stemmer

import (
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

// Stem returns the lowercased Porter stem of token. A single trailing
// apostrophe left by the stemmer is removed.
func Stem(token string) string {
	return strings.TrimSuffix(porterstemmer.StemString(token), "'")
}
