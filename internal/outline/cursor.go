package outline

import "unicode/utf8"

// Cursor addresses a position in the document: a line index and a rune
// offset within that line.
type Cursor struct {
	Line   int
	Offset int
}

// Before reports whether c sits strictly before o.
func (c Cursor) Before(o Cursor) bool {
	if c.Line != o.Line {
		return c.Line < o.Line
	}
	return c.Offset < o.Offset
}

// Range is a normalized span between two cursors, Start <= End.
type Range struct {
	Start Cursor
	End   Cursor
}

// Empty reports whether the range covers no text.
func (r Range) Empty() bool {
	return r.Start == r.End
}

func newRange(a, b Cursor) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// clampCursor moves c into the valid positions of lines.
func clampCursor(lines []string, c Cursor) Cursor {
	if len(lines) == 0 {
		return Cursor{}
	}
	if c.Line < 0 {
		c.Line = 0
	}
	if c.Line >= len(lines) {
		c.Line = len(lines) - 1
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
	if n := runeLen(lines[c.Line]); c.Offset > n {
		c.Offset = n
	}
	return c
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// splitAt cuts s at a rune offset, clamping the offset to s.
func splitAt(s string, off int) (string, string) {
	if off <= 0 {
		return "", s
	}
	i := 0
	for n := 0; n < off; n++ {
		if i >= len(s) {
			return s, ""
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}
