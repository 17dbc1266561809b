package store

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// maxLineSize bounds a single index line. Frequent terms in large corpora
// produce long posting lines, so the scanner default of 64KiB is too small.
const maxLineSize = 16 << 20

// WriteInverted writes one line per term in ascending term order:
//
//	<term>:<docID> <docID> ... \n
func WriteInverted(w io.Writer, inv index.InvertedIndex) error {
	bw := bufio.NewWriter(w)
	for _, term := range inv.Terms() {
		bw.WriteString(term)
		bw.WriteByte(':')
		writeInts(bw, inv[term])
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing inverted index: %w", err)
	}
	return nil
}

// WritePositional writes one line per (term, document) pair, ordered by term
// then document:
//
//	<term>:<docID>.<pos> <pos> ... \n
func WritePositional(w io.Writer, pos index.PositionalIndex) error {
	bw := bufio.NewWriter(w)
	for _, term := range pos.Terms() {
		for _, doc := range pos.Docs(term) {
			bw.WriteString(term)
			bw.WriteByte(':')
			bw.WriteString(strconv.Itoa(doc))
			bw.WriteByte('.')
			writeInts(bw, pos[term][doc])
			bw.WriteByte('\n')
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing positional index: %w", err)
	}
	return nil
}

// ReadInverted parses the inverted index format. Any malformed line fails
// the whole read with ErrCorruptIndex.
func ReadInverted(r io.Reader) (index.InvertedIndex, error) {
	inv := make(index.InvertedIndex)
	err := scanLines(r, func(lineNo int, line string) error {
		term, rest, ok := strings.Cut(line, ":")
		if !ok || term == "" {
			return corrupt("inverted", lineNo, "missing term separator")
		}
		if _, dup := inv[term]; dup {
			return corrupt("inverted", lineNo, "duplicate term %q", term)
		}
		docs, err := parseInts(rest)
		if err != nil {
			return corrupt("inverted", lineNo, "%v", err)
		}
		if len(docs) == 0 {
			return corrupt("inverted", lineNo, "empty posting list for %q", term)
		}
		inv[term] = docs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ReadPositional parses the positional index format. Any malformed line
// fails the whole read with ErrCorruptIndex.
func ReadPositional(r io.Reader) (index.PositionalIndex, error) {
	pos := make(index.PositionalIndex)
	err := scanLines(r, func(lineNo int, line string) error {
		term, rest, ok := strings.Cut(line, ":")
		if !ok || term == "" {
			return corrupt("positional", lineNo, "missing term separator")
		}
		docField, posField, ok := strings.Cut(rest, ".")
		if !ok {
			return corrupt("positional", lineNo, "missing document separator")
		}
		doc, err := strconv.Atoi(strings.TrimSpace(docField))
		if err != nil || doc <= 0 {
			return corrupt("positional", lineNo, "invalid document id %q", docField)
		}
		offsets, err := parseInts(posField)
		if err != nil {
			return corrupt("positional", lineNo, "%v", err)
		}
		if len(offsets) == 0 {
			return corrupt("positional", lineNo, "no positions for %q in %d", term, doc)
		}
		docs, ok := pos[term]
		if !ok {
			docs = make(map[int][]int)
			pos[term] = docs
		}
		if _, dup := docs[doc]; dup {
			return corrupt("positional", lineNo, "duplicate entry %q in %d", term, doc)
		}
		docs[doc] = offsets
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func scanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCorruptIndex, err)
	}
	return nil
}

func writeInts(bw *bufio.Writer, vals []int) {
	for _, v := range vals {
		bw.WriteString(strconv.Itoa(v))
		bw.WriteByte(' ')
	}
}

// parseInts reads a space separated, strictly ascending list of
// non-negative integers.
func parseInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
		if i > 0 && v <= out[i-1] {
			return nil, fmt.Errorf("values not ascending at %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func corrupt(kind string, lineNo int, format string, args ...any) error {
	return fmt.Errorf("%w: %s index line %d: %s",
		apperrors.ErrCorruptIndex, kind, lineNo, fmt.Sprintf(format, args...))
}
