package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/kobzarvs/docassist/internal/outline"
)

// Render draws the visible lines, the statusline at h-2 and the message
// line at h-1, then places the cursor.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	msgY := h - 1
	viewHeight := h - 2
	if h < 2 {
		statusY = h - 1
		msgY = -1
	}
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewHeight = viewHeight
	e.ensureCursorVisible(viewHeight)

	s.SetStyle(e.styleMain)
	s.Clear()

	gutterWidth := e.gutterWidth()
	lines := e.session.Lines()
	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= len(lines) {
			clearLine(s, y, w, e.styleMain)
			continue
		}
		e.drawLineWithGutter(s, y, w, gutterWidth, lineIdx, lines[lineIdx])
	}

	if statusY >= 0 {
		e.renderStatusline(s, w, statusY)
	}
	if msgY >= 0 {
		e.renderMessageLine(s, w, msgY)
	}

	cur := e.session.Cursor()
	cy := cur.Line - e.scroll
	if cy < 0 || cy >= viewHeight || cur.Line >= len(lines) {
		s.HideCursor()
		s.Show()
		return
	}
	cx := gutterWidth + visualCol([]rune(lines[cur.Line]), cur.Offset)
	if cx >= w {
		cx = w - 1
	}
	s.SetCursorStyle(tcell.CursorStyleSteadyBar)
	s.ShowCursor(cx, cy)
	s.Show()
}

func (e *Editor) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	row := e.session.Cursor().Line
	// Far outside the view: center it.
	if row < e.scroll-1 || row >= e.scroll+viewHeight+1 {
		e.scroll = row - viewHeight/2
		if e.scroll < 0 {
			e.scroll = 0
		}
		return
	}
	if row < e.scroll {
		e.scroll = row
		return
	}
	if row >= e.scroll+viewHeight {
		e.scroll = row - viewHeight + 1
	}
}

func (e *Editor) gutterWidth() int {
	if e.lineNumberMode == LineNumberOff {
		return 0
	}
	maxLine := e.session.LineCount()
	if maxLine < 1 {
		maxLine = 1
	}
	digits := len(strconv.Itoa(maxLine))
	if digits < 2 {
		digits = 2
	}
	// leading space + number + trailing space
	return 1 + digits + 1
}

func (e *Editor) drawLineWithGutter(s tcell.Screen, y, w, gutterWidth, lineIdx int, text string) {
	curRow := e.session.Cursor().Line
	if gutterWidth > 0 {
		digits := gutterWidth - 2
		num := lineIdx + 1
		if e.lineNumberMode == LineNumberRelative && lineIdx != curRow {
			num = lineIdx - curRow
			if num < 0 {
				num = -num
			}
		}
		style := e.styleLineNumber
		if lineIdx == curRow {
			style = e.styleLineNumberActive
		}
		clearLine(s, y, min(gutterWidth, w), e.styleMain)
		for i, r := range fmt.Sprintf("%*d", digits, num) {
			x := 1 + i
			if x >= gutterWidth-1 || x >= w {
				break
			}
			s.SetContent(x, y, r, nil, style)
		}
	}
	if gutterWidth >= w {
		return
	}
	e.drawLine(s, y, w, gutterWidth, lineIdx, text)
}

// drawLine paints one document line. The marker region takes the marker
// color, keyword hits the keyword style, and the selection only swaps the
// background of whatever is underneath.
func (e *Editor) drawLine(s tcell.Screen, y, w, startX, lineIdx int, text string) {
	line := []rune(text)
	styles := e.lineStyles(lineIdx, text, len(line))

	x := startX
	col := 0
	for idx, r := range line {
		if x >= w {
			break
		}
		style := styles[idx]
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			for i := 0; i < spaces && x < w; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
				col++
			}
			continue
		}
		rw := runeWidth(r)
		if x+rw > w {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
		col += rw
	}
	for x < w {
		s.SetContent(x, y, ' ', nil, e.styleMain)
		x++
	}
}

func (e *Editor) lineStyles(lineIdx int, text string, n int) []tcell.Style {
	styles := make([]tcell.Style, n)
	for i := range styles {
		styles[i] = e.styleMain
	}
	if m, ok := outline.Match(text); ok && m.Kind() != outline.TokenNone {
		for i := m.Indent; i < m.Width() && i < n; i++ {
			styles[i] = e.styleMarker
		}
	}
	if e.showKeywords {
		for _, sp := range e.matcher.Line(text) {
			for i := sp.Start; i < sp.End && i < n; i++ {
				styles[i] = e.styleKeyword
			}
		}
	}
	if sel, ok := e.session.Selection(); ok && lineIdx >= sel.Start.Line && lineIdx <= sel.End.Line {
		start, end := 0, n
		if lineIdx == sel.Start.Line {
			start = sel.Start.Offset
		}
		if lineIdx == sel.End.Line {
			end = sel.End.Offset
		}
		_, selBg, _ := e.styleSelection.Decompose()
		for i := start; i < end && i < n; i++ {
			fg, _, _ := styles[i].Decompose()
			styles[i] = styles[i].Foreground(fg).Background(selBg)
		}
	}
	return styles
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	left := " " + e.displayTitle()
	if e.saveState != nil {
		st := e.saveState()
		switch {
		case st.Err != nil:
			left += " [save failed]"
		case st.Dirty:
			left += " [+]"
		}
	}

	cur := e.session.Cursor()
	var right []string
	if e.showKeywords && !e.matcher.Empty() {
		hits := 0
		for _, st := range e.KeywordStats() {
			hits += st.Count
		}
		right = append(right, fmt.Sprintf("kw %d", hits))
	}
	right = append(right, fmt.Sprintf("Ln %d, Col %d ", cur.Line+1, cur.Offset+1))

	line := composeStatusLine(left, strings.Join(right, "  "), w)
	for x, r := range line {
		s.SetContent(x, y, r, nil, e.styleStatusline)
	}
}

func (e *Editor) renderMessageLine(s tcell.Screen, w, y int) {
	clearLine(s, y, w, e.styleMain)
	msg := e.statusMessage
	if msg == "" && e.saveState != nil {
		if st := e.saveState(); !st.LastSaved.IsZero() {
			msg = "saved " + st.LastSaved.Format("15:04:05")
		}
	}
	x := 0
	for _, r := range msg {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styleMain)
		x += runeWidth(r)
	}
}

func (e *Editor) displayTitle() string {
	if strings.TrimSpace(e.title) == "" {
		return "[untitled]"
	}
	return e.title
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

// visualCol is the screen column of rune offset col, with tabs expanded and
// wide runes taking two cells.
func visualCol(line []rune, col int) int {
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	x := 0
	for i := 0; i < col; i++ {
		if line[i] == '\t' {
			x += tabWidth - (x % tabWidth)
			continue
		}
		x += runeWidth(line[i])
	}
	return x
}

func runeWidth(r rune) int {
	if w := uniseg.StringWidth(string(r)); w > 0 {
		return w
	}
	return 1
}
