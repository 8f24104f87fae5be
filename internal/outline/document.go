package outline

import "strings"

// Document is the ordered line store. It always holds at least one line and
// no line ever contains a newline.
type Document struct {
	lines []string
}

// NewDocument splits text into lines. CRLF and lone CR are treated as
// newlines; an empty text yields a single empty line.
func NewDocument(text string) *Document {
	return &Document{lines: SplitLines(text)}
}

// SplitLines normalizes line endings and splits text into lines.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func (d *Document) Len() int {
	return len(d.lines)
}

// Line returns the text of line i, or "" when i is out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// Text joins the lines with '\n'.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

func (d *Document) setLine(i int, text string) {
	d.lines[i] = text
}

// insertLineAfter places text as a new line right after line i.
func (d *Document) insertLineAfter(i int, text string) {
	d.lines = append(d.lines, "")
	copy(d.lines[i+2:], d.lines[i+1:])
	d.lines[i+1] = text
}

// insertText inserts text, which may contain newlines, at pos and returns
// the position right after the inserted text.
func (d *Document) insertText(pos Cursor, text string) Cursor {
	pos = clampCursor(d.lines, pos)
	parts := SplitLines(text)
	left, right := splitAt(d.lines[pos.Line], pos.Offset)

	if len(parts) == 1 {
		d.lines[pos.Line] = left + parts[0] + right
		return Cursor{Line: pos.Line, Offset: pos.Offset + runeLen(parts[0])}
	}

	// Multi-line insertion
	last := parts[len(parts)-1]
	newLines := make([]string, 0, len(d.lines)+len(parts)-1)
	newLines = append(newLines, d.lines[:pos.Line]...)
	newLines = append(newLines, left+parts[0])
	newLines = append(newLines, parts[1:len(parts)-1]...)
	newLines = append(newLines, last+right)
	newLines = append(newLines, d.lines[pos.Line+1:]...)
	d.lines = newLines
	return Cursor{Line: pos.Line + len(parts) - 1, Offset: runeLen(last)}
}

// deleteRange removes the text covered by r and returns the deleted text.
func (d *Document) deleteRange(r Range) string {
	start := clampCursor(d.lines, r.Start)
	end := clampCursor(d.lines, r.End)
	if !start.Before(end) {
		return ""
	}
	if start.Line == end.Line {
		left, rest := splitAt(d.lines[start.Line], start.Offset)
		mid, right := splitAt(rest, end.Offset-start.Offset)
		d.lines[start.Line] = left + right
		return mid
	}

	left, head := splitAt(d.lines[start.Line], start.Offset)
	tail, right := splitAt(d.lines[end.Line], end.Offset)
	deleted := make([]string, 0, end.Line-start.Line+1)
	deleted = append(deleted, head)
	deleted = append(deleted, d.lines[start.Line+1:end.Line]...)
	deleted = append(deleted, tail)

	newLines := make([]string, 0, len(d.lines)-(end.Line-start.Line))
	newLines = append(newLines, d.lines[:start.Line]...)
	newLines = append(newLines, left+right)
	newLines = append(newLines, d.lines[end.Line+1:]...)
	d.lines = newLines
	return strings.Join(deleted, "\n")
}
