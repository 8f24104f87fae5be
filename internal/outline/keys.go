package outline

import "strings"

// Key names follow the DOM KeyboardEvent.key values. A printable key is the
// character itself, e.g. "a" or "。".
const (
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyLeft      = "ArrowLeft"
	KeyRight     = "ArrowRight"
	KeyUp        = "ArrowUp"
	KeyDown      = "ArrowDown"
	KeyHome      = "Home"
	KeyEnd       = "End"
)

// KeyEvent is a raw key press reported by the presentation layer.
type KeyEvent struct {
	Key   string
	Shift bool
}

type shiftMatch int

const (
	shiftAny shiftMatch = iota
	shiftUp
	shiftDown
)

func (m shiftMatch) matches(shift bool) bool {
	switch m {
	case shiftUp:
		return !shift
	case shiftDown:
		return shift
	default:
		return true
	}
}

// keyState is what the transition predicates look at: the line under the
// cursor, its parsed marker and the cursor offset.
type keyState struct {
	index     int
	offset    int
	line      string
	marker    Marker
	item      bool
	selection bool
}

func (st keyState) kind() TokenKind {
	if !st.item {
		return TokenNone
	}
	return st.marker.Kind()
}

// transition is one row of the outline state machine. apply returns the kind
// of change it made, or 0 when the event was consumed without a change.
type transition struct {
	name  string
	key   string
	shift shiftMatch
	when  func(st keyState) bool
	apply func(s *Session, st keyState) ChangeKind
}

var transitions = []transition{
	{"enter-blank", KeyEnter, shiftAny, isBlankLine, (*Session).openPlainLine},
	{"enter-empty-item", KeyEnter, shiftAny, isEmptyItem, (*Session).openPlainLine},
	{"enter-number", KeyEnter, shiftAny, isKind(TokenNumber), (*Session).continueNumber},
	{"enter-letter", KeyEnter, shiftAny, isKind(TokenLetter), (*Session).continueLetter},
	{"enter-start-list", KeyEnter, shiftAny, nil, (*Session).startList},
	{"tab-indent", KeyTab, shiftUp, isItem, (*Session).indentItem},
	{"tab-plain", KeyTab, shiftUp, nil, nil},
	{"shift-tab-letter", KeyTab, shiftDown, indentedKind(TokenLetter), (*Session).outdentLetter},
	{"shift-tab-number", KeyTab, shiftDown, indentedKind(TokenNumber), (*Session).outdentNumber},
	{"shift-tab-shallow", KeyTab, shiftDown, nil, nil},
	{"backspace-marker", KeyBackspace, shiftAny, inIndentedMarker, (*Session).promoteToTopLevel},
}

func isBlankLine(st keyState) bool {
	return strings.TrimSpace(st.line) == ""
}

func isEmptyItem(st keyState) bool {
	return st.item && strings.TrimSpace(st.marker.Content) == ""
}

func isItem(st keyState) bool {
	return st.item
}

func isKind(k TokenKind) func(keyState) bool {
	return func(st keyState) bool { return st.kind() == k }
}

func indentedKind(k TokenKind) func(keyState) bool {
	return func(st keyState) bool {
		return st.kind() == k && st.marker.Indent >= IndentStep
	}
}

func inIndentedMarker(st keyState) bool {
	return st.item && !st.selection && st.marker.Indent > 0 && st.offset <= st.marker.Width()
}

// HandleKey feeds one key event through the outline state machine. Keys
// that no transition claims fall back to plain line editing.
func (s *Session) HandleKey(ev KeyEvent) Result {
	s.cursor = clampCursor(s.doc.lines, s.cursor)
	st := s.keyState()
	for _, t := range transitions {
		if t.key != ev.Key || !t.shift.matches(ev.Shift) {
			continue
		}
		if t.when != nil && !t.when(st) {
			continue
		}
		return s.run(t, st)
	}
	if edit, ok := defaultEdits[ev.Key]; ok {
		return edit(s, ev)
	}
	if runeLen(ev.Key) == 1 {
		return s.InsertText(ev.Key)
	}
	return Result{}
}

func (s *Session) keyState() keyState {
	line := s.doc.Line(s.cursor.Line)
	m, ok := Match(line)
	_, sel := s.Selection()
	return keyState{
		index:     s.cursor.Line,
		offset:    s.cursor.Offset,
		line:      line,
		marker:    m,
		item:      ok && m.Kind() != TokenNone,
		selection: sel,
	}
}

func (s *Session) run(t transition, st keyState) Result {
	if t.apply == nil {
		return Result{Handled: true}
	}
	s.begin()
	kind := t.apply(s, st)
	if kind == 0 {
		s.discard()
		return Result{Handled: true}
	}
	s.notify(kind)
	return Result{Handled: true, Changed: true}
}

// openLine inserts text as a new line below the current one and puts the
// cursor at its end.
func (s *Session) openLine(st keyState, text string) ChangeKind {
	s.selecting = false
	s.doc.insertLineAfter(st.index, text)
	s.cursor = Cursor{Line: st.index + 1, Offset: runeLen(text)}
	return ChangeStructure
}

func (s *Session) openPlainLine(st keyState) ChangeKind {
	return s.openLine(st, "")
}

func (s *Session) continueNumber(st keyState) ChangeKind {
	indent := st.marker.Indent
	end := siblingBlockEnd(s.doc.lines, st.index, indent)
	next := Next(TokenNumber, st.marker.Token)
	if top := MaxSiblingNumber(s.doc.lines, end, indent); top != "" {
		next = Next(TokenNumber, top)
	}
	return s.openLine(st, st.marker.Lead()+next+". ")
}

func (s *Session) continueLetter(st keyState) ChangeKind {
	return s.openLine(st, st.marker.Lead()+Next(TokenLetter, st.marker.Token)+". ")
}

func (s *Session) startList(st keyState) ChangeKind {
	return s.openLine(st, FormatMarker(0, "1"))
}

// rewriteLine replaces the current line and moves the cursor to its end.
func (s *Session) rewriteLine(st keyState, text string) ChangeKind {
	if text == st.line {
		s.cursor = Cursor{Line: st.index, Offset: runeLen(text)}
		return 0
	}
	s.selecting = false
	s.doc.setLine(st.index, text)
	s.cursor = Cursor{Line: st.index, Offset: runeLen(text)}
	return ChangeStructure
}

func (s *Session) indentItem(st keyState) ChangeKind {
	indent := st.marker.Indent + IndentStep
	letter := Next(TokenLetter, "")
	if last, ok := LastLetterAt(s.doc.lines, st.index, indent); ok {
		letter = Next(TokenLetter, last)
	}
	return s.rewriteLine(st, FormatMarker(indent, letter)+st.marker.Content)
}

func (s *Session) outdentLetter(st keyState) ChangeKind {
	indent := st.marker.Indent - IndentStep
	top := MaxSiblingNumber(s.doc.lines, st.index-1, indent)
	return s.rewriteLine(st, FormatMarker(indent, Next(TokenNumber, top))+st.marker.Content)
}

func (s *Session) outdentNumber(st keyState) ChangeKind {
	_, rest := splitAt(st.line, IndentStep)
	return s.rewriteLine(st, rest)
}

// promoteToTopLevel turns an indented item into the next top-level number
// instead of deleting into the marker.
func (s *Session) promoteToTopLevel(st keyState) ChangeKind {
	top := MaxSiblingNumber(s.doc.lines, st.index-1, 0)
	marker := FormatMarker(0, Next(TokenNumber, top))
	s.selecting = false
	s.doc.setLine(st.index, marker+st.marker.Content)
	s.cursor = Cursor{Line: st.index, Offset: runeLen(marker)}
	return ChangeStructure
}
