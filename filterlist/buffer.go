// Package filterlist contains the line-oriented representation of the raw
// watchlist: one page title per line, namespace-prefixed or unprefixed for
// the main namespace.
package filterlist

import "strings"

// lineSeparator separates the titles of the raw watchlist.
const lineSeparator = "\n"

// Buffer is a mutable raw watchlist.  Removing a title blanks its line, so
// that the order and the indexes of the remaining lines are preserved.
type Buffer struct {
	lines []string
}

// NewBuffer splits the raw watchlist text into lines.
func NewBuffer(text string) (b *Buffer) {
	return &Buffer{
		lines: strings.Split(text, lineSeparator),
	}
}

// Len returns the number of lines including empty ones.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Line returns the title at the line index with a trailing carriage return
// removed.  It returns an empty string if idx is out of range.
func (b *Buffer) Line(idx int) string {
	if idx < 0 || idx >= len(b.lines) {
		return ""
	}

	return strings.TrimSuffix(b.lines[idx], "\r")
}

// Blank replaces the line at idx with an empty string.  It returns false if
// idx is out of range or the line is already empty.
func (b *Buffer) Blank(idx int) (ok bool) {
	if idx < 0 || idx >= len(b.lines) || b.lines[idx] == "" {
		return false
	}

	b.lines[idx] = ""

	return true
}

// String joins the lines back into the raw watchlist text.
func (b *Buffer) String() string {
	return strings.Join(b.lines, lineSeparator)
}

// NewScanner creates a new scanner over the non-empty lines of the buffer.
func (b *Buffer) NewScanner() *LineScanner {
	return &LineScanner{
		buf: b,
		idx: -1,
	}
}

// LineScanner iterates over the non-empty lines of a Buffer from top to
// bottom.
type LineScanner struct {
	buf *Buffer

	line string
	idx  int
}

// Scan advances the scanner to the next non-empty line.  It returns false
// when there are no more lines.
func (s *LineScanner) Scan() bool {
	for s.idx+1 < s.buf.Len() {
		s.idx++
		s.line = s.buf.Line(s.idx)
		if strings.TrimSpace(s.line) != "" {
			return true
		}
	}

	s.line = ""

	return false
}

// Line returns the current title and its line index.
func (s *LineScanner) Line() (title string, idx int) {
	return s.line, s.idx
}
