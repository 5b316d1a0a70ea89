// Package catalog reads two-line element catalogs.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CommentMarker flags a line to be skipped wherever it appears in the line.
const CommentMarker = "#"

// Record is one line-1/line-2 pair. Index counts records from 0 in file
// order; Line is the 1-based line number of Line1.
type Record struct {
	Line1 string
	Line2 string
	Index int
	Line  int
}

// Reader yields records from a catalog stream. The cursor only moves
// forward.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	count   int
	err     error
	done    bool
}

func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 256), 64*1024)
	return &Reader{scanner: s}
}

// Next returns the next complete record. It returns false at the end of the
// catalog, including when the catalog ends between line 1 and line 2; the
// unpaired line is dropped. Check Err after Next returns false.
func (r *Reader) Next() (Record, bool) {
	if r.done {
		return Record{}, false
	}

	line1, n1, ok := r.nextLine()
	if !ok {
		return Record{}, false
	}
	line2, _, ok := r.nextLine()
	if !ok {
		return Record{}, false
	}

	rec := Record{Line1: line1, Line2: line2, Index: r.count, Line: n1}
	r.count++
	return rec, true
}

// Err returns the first read error, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) nextLine() (string, int, bool) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.Contains(text, CommentMarker) || strings.TrimSpace(text) == "" {
			continue
		}
		return text, r.line, true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("reading catalog at line %d: %w", r.line+1, err)
	}
	r.done = true
	return "", 0, false
}

// ReadAll drains r into a slice.
func ReadAll(r io.Reader) ([]Record, error) {
	cr := NewReader(r)
	var recs []Record
	for {
		rec, ok := cr.Next()
		if !ok {
			break
		}
		recs = append(recs, rec)
	}
	return recs, cr.Err()
}
