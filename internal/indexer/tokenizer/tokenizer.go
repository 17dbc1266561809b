// Package tokenizer turns raw document text into the ordered token sequence
// the index builder consumes. It word-tokenises the text, trims punctuation
// and digits from both ends of every token, case-folds, and breaks tokens on
// '.' and '-'.
package tokenizer

import (
	"strings"
	"unicode"
)

// trimSet is stripped from both ends of every token before case folding.
const trimSet = "0123456789!@#$%^&*()-_=+[{]}\\|;:'\",<.>/?`~"

// separators always end a word and become tokens of their own. Typographic
// quotes count, except the right single quote, which is read as an
// apostrophe.
const separators = ",;:!?\"()[]{}<>@#$%&`“”‘„«»"

var clitics = []string{"n't", "'ll", "'re", "'ve", "'s", "'m", "'d"}

// contractions are written as one word but tokenised as two, split at the
// given byte offset.
var contractions = map[string]int{
	"cannot": 3,
	"gimme":  3,
	"gonna":  3,
	"gotta":  3,
	"lemme":  3,
	"wanna":  3,
}

// Normalize returns the token sequence for one document.
//
// A token containing '.' (or, failing that, '-') is removed from its slot and
// its fragments are appended to the end of the working list, where the same
// pass picks them up again. Split tokens therefore land after every token of
// the original text, and positions assigned later reflect that order.
func Normalize(text string) []string {
	tokens := Words(text)
	for j := 0; j < len(tokens); {
		tok := strings.ToLower(strings.Trim(tokens[j], trimSet))
		sep := ""
		switch {
		case strings.Contains(tok, "."):
			sep = "."
		case strings.Contains(tok, "-"):
			sep = "-"
		}
		if sep == "" {
			tokens[j] = tok
			j++
			continue
		}
		tokens = append(tokens[:j], tokens[j+1:]...)
		tokens = append(tokens, strings.Split(tok, sep)...)
	}

	out := tokens[:0]
	for _, tok := range tokens {
		if isAlpha(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Words splits text on whitespace, breaks off separator punctuation, and
// splits English clitics ("don't" -> "do", "n't"; "paper's" -> "paper", "'s")
// and contractions ("cannot" -> "can", "not"). Dots, hyphens and apostrophes
// stay attached to their word; ’ is rewritten to '.
func Words(text string) []string {
	var words []string
	for _, field := range strings.Fields(strings.ReplaceAll(text, "’", "'")) {
		start := 0
		for i, r := range field {
			if !strings.ContainsRune(separators, r) {
				continue
			}
			words = appendWord(words, field[start:i])
			words = append(words, string(r))
			start = i + len(string(r))
		}
		words = appendWord(words, field[start:])
	}
	return words
}

func appendWord(words []string, w string) []string {
	if w == "" {
		return words
	}
	lower := strings.ToLower(w)
	if at, ok := contractions[lower]; ok {
		return append(words, w[:at], w[at:])
	}
	for _, c := range clitics {
		if len(w) > len(c) && strings.HasSuffix(lower, c) {
			return append(words, w[:len(w)-len(c)], w[len(w)-len(c):])
		}
	}
	return append(words, w)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
