package outline

// ChangeKind tells listeners what kind of mutation happened.
type ChangeKind int

const (
	// ChangeText is an in-line content edit (typing, deleting runes).
	ChangeText ChangeKind = iota + 1
	// ChangeStructure inserts, splits, merges or renumbers lines.
	ChangeStructure
	// ChangeReset replaces the whole document (load, undo, redo).
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeText:
		return "text"
	case ChangeStructure:
		return "structure"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after every mutation.
type Change struct {
	Kind     ChangeKind
	Revision uint64
}

// Result describes how the session reacted to one input event.
type Result struct {
	// Handled is true when the session consumed the event; the caller must
	// not apply any default behavior of its own.
	Handled bool
	// Changed is true when the document text changed.
	Changed bool
}

const maxHistory = 500

type snapshot struct {
	lines  []string
	cursor Cursor
}

// Session is one editing session over one document: the line store, the
// single cursor, an optional selection anchor and the undo history. A Session
// is not safe for concurrent use; events are applied one at a time.
type Session struct {
	doc       *Document
	cursor    Cursor
	anchor    Cursor
	selecting bool
	revision  uint64
	undo      []snapshot
	redo      []snapshot
	listeners []func(Change)
}

// NewSession opens text for editing with the cursor at the start.
func NewSession(text string) *Session {
	return &Session{doc: NewDocument(text)}
}

// NewSessionFromLines opens an already split document. Lines containing
// newlines are split further.
func NewSessionFromLines(lines []string) *Session {
	if len(lines) == 0 {
		return NewSession("")
	}
	var flat []string
	for _, l := range lines {
		flat = append(flat, SplitLines(l)...)
	}
	return &Session{doc: &Document{lines: flat}}
}

// OnChange registers fn to be called after each mutation.
func (s *Session) OnChange(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) Lines() []string { return s.doc.Lines() }

func (s *Session) Line(i int) string { return s.doc.Line(i) }

func (s *Session) LineCount() int { return s.doc.Len() }

func (s *Session) Text() string { return s.doc.Text() }

func (s *Session) Revision() uint64 { return s.revision }

func (s *Session) Cursor() Cursor { return s.cursor }

// SetCursor moves the cursor, clamping it into the document, and drops the
// selection.
func (s *Session) SetCursor(c Cursor) {
	s.cursor = clampCursor(s.doc.lines, c)
	s.selecting = false
}

// Select marks the text between anchor and cursor as selected and places the
// cursor at the cursor end.
func (s *Session) Select(anchor, cursor Cursor) {
	s.anchor = clampCursor(s.doc.lines, anchor)
	s.cursor = clampCursor(s.doc.lines, cursor)
	s.selecting = true
}

// Selection returns the active selection, if any.
func (s *Session) Selection() (Range, bool) {
	if !s.selecting {
		return Range{}, false
	}
	r := newRange(s.anchor, s.cursor)
	if r.Empty() {
		return Range{}, false
	}
	return r, true
}

func (s *Session) ClearSelection() {
	s.selecting = false
}

// Reset replaces the whole document, clears history and moves the cursor to
// the start.
func (s *Session) Reset(text string) {
	s.doc = NewDocument(text)
	s.cursor = Cursor{}
	s.selecting = false
	s.undo = nil
	s.redo = nil
	s.notify(ChangeReset)
}

// CurrentLine returns the parsed view of the line under the cursor.
func (s *Session) CurrentLine() Line {
	return ParseLine(s.doc.Line(s.cursor.Line))
}

// Undo reverts the last mutating event.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.snapshot())
	s.restore(last)
	return true
}

// Redo re-applies the last undone event.
func (s *Session) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.snapshot())
	s.restore(next)
	return true
}

func (s *Session) snapshot() snapshot {
	return snapshot{lines: s.doc.Lines(), cursor: s.cursor}
}

func (s *Session) restore(sn snapshot) {
	s.doc.lines = append([]string(nil), sn.lines...)
	s.cursor = clampCursor(s.doc.lines, sn.cursor)
	s.selecting = false
	s.notify(ChangeReset)
}

// begin records the state before a mutation so it can be undone.
func (s *Session) begin() {
	s.undo = append(s.undo, s.snapshot())
	if len(s.undo) > maxHistory {
		s.undo = s.undo[len(s.undo)-maxHistory:]
	}
	s.redo = s.redo[:0]
}

// discard drops the snapshot taken by begin when nothing changed.
func (s *Session) discard() {
	if len(s.undo) > 0 {
		s.undo = s.undo[:len(s.undo)-1]
	}
}

func (s *Session) notify(kind ChangeKind) {
	s.revision++
	ch := Change{Kind: kind, Revision: s.revision}
	for _, fn := range s.listeners {
		fn(ch)
	}
}
