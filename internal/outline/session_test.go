package outline

import "testing"

func TestPasteReplacesSelectionLiterally(t *testing.T) {
	s := NewSessionFromLines([]string{"1. hello world"})
	s.Select(Cursor{Line: 0, Offset: 3}, Cursor{Line: 0, Offset: 8})
	res := s.Paste("<b>hi</b>")
	if !res.Handled || !res.Changed {
		t.Fatalf("result = %+v", res)
	}
	assertLines(t, s, "1. <b>hi</b> world")
	assertCursor(t, s, Cursor{Line: 0, Offset: 12})
	if _, ok := s.Selection(); ok {
		t.Fatalf("selection survived paste")
	}
}

func TestPasteAcrossLines(t *testing.T) {
	s := NewSessionFromLines([]string{"1. one", "2. two", "3. three"})
	var kinds []ChangeKind
	s.OnChange(func(c Change) { kinds = append(kinds, c.Kind) })
	s.Select(Cursor{Line: 2, Offset: 3}, Cursor{Line: 0, Offset: 3})
	s.Paste("x\r\ny")
	assertLines(t, s, "1. x", "ythree")
	assertCursor(t, s, Cursor{Line: 1, Offset: 1})
	if len(kinds) != 1 || kinds[0] != ChangeStructure {
		t.Fatalf("changes = %v, want [structure]", kinds)
	}
}

func TestPasteEmptyWithoutSelection(t *testing.T) {
	s := NewSessionFromLines([]string{"abc"})
	res := s.Paste("")
	if !res.Handled || res.Changed {
		t.Fatalf("result = %+v, want handled, unchanged", res)
	}
	if s.Revision() != 0 {
		t.Fatalf("revision = %d, want 0", s.Revision())
	}
}

func TestTypingReplacesSelection(t *testing.T) {
	s := NewSessionFromLines([]string{"abcdef"})
	s.Select(Cursor{Line: 0, Offset: 1}, Cursor{Line: 0, Offset: 4})
	press(s, "Z")
	assertLines(t, s, "aZef")
	assertCursor(t, s, Cursor{Line: 0, Offset: 2})
}

func TestBackspaceDeletesSelectionInsideMarker(t *testing.T) {
	s := NewSessionFromLines([]string{"1. x", "    a. text"})
	s.Select(Cursor{Line: 1, Offset: 7}, Cursor{Line: 1, Offset: 2})
	press(s, KeyBackspace)
	assertLines(t, s, "1. x", "  text")
	assertCursor(t, s, Cursor{Line: 1, Offset: 2})
}

func TestUndoRedo(t *testing.T) {
	s := NewSessionFromLines([]string{"1. a"})
	s.SetCursor(endOf(s, 0))
	press(s, KeyEnter)
	press(s, "b")
	assertLines(t, s, "1. a", "2. b")

	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	assertLines(t, s, "1. a", "2. ")
	assertCursor(t, s, Cursor{Line: 1, Offset: 3})
	if !s.Undo() {
		t.Fatalf("second undo failed")
	}
	assertLines(t, s, "1. a")
	if s.Undo() {
		t.Fatalf("undo past history succeeded")
	}

	if !s.Redo() || !s.Redo() {
		t.Fatalf("redo failed")
	}
	assertLines(t, s, "1. a", "2. b")
	if s.Redo() {
		t.Fatalf("redo past history succeeded")
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	s := NewSessionFromLines([]string{""})
	press(s, "a")
	s.Undo()
	press(s, "b")
	if s.Redo() {
		t.Fatalf("redo available after new edit")
	}
	assertLines(t, s, "b")
}

func TestNoopDoesNotEnterHistory(t *testing.T) {
	s := NewSessionFromLines([]string{"prose"})
	press(s, KeyTab)
	if s.Undo() {
		t.Fatalf("no-op tab was recorded in history")
	}
}

func TestUndoNotifiesReset(t *testing.T) {
	s := NewSessionFromLines([]string{""})
	press(s, "a")
	var got Change
	s.OnChange(func(c Change) { got = c })
	s.Undo()
	if got.Kind != ChangeReset || got.Revision != 2 {
		t.Fatalf("change = %+v, want reset at revision 2", got)
	}
}

func TestHistoryIsCapped(t *testing.T) {
	s := NewSessionFromLines([]string{""})
	for i := 0; i < maxHistory+20; i++ {
		press(s, "x")
	}
	n := 0
	for s.Undo() {
		n++
	}
	if n != maxHistory {
		t.Fatalf("undo steps = %d, want %d", n, maxHistory)
	}
	if got := runeLen(s.Line(0)); got != 20 {
		t.Fatalf("line length after full undo = %d, want 20", got)
	}
}

func TestReset(t *testing.T) {
	s := NewSessionFromLines([]string{"1. a", "2. b"})
	s.SetCursor(Cursor{Line: 1, Offset: 2})
	press(s, "x")
	var got []ChangeKind
	s.OnChange(func(c Change) { got = append(got, c.Kind) })

	s.Reset("new\r\ntext")
	assertLines(t, s, "new", "text")
	assertCursor(t, s, Cursor{})
	if s.Undo() {
		t.Fatalf("history survived reset")
	}
	if len(got) != 1 || got[0] != ChangeReset {
		t.Fatalf("changes = %v", got)
	}
	if s.Text() != "new\ntext" {
		t.Fatalf("text = %q", s.Text())
	}
}

func TestDeleteForward(t *testing.T) {
	s := NewSessionFromLines([]string{"ab", "cd"})
	s.SetCursor(Cursor{Line: 0, Offset: 1})
	press(s, KeyDelete)
	assertLines(t, s, "a", "cd")
	press(s, KeyDelete)
	assertLines(t, s, "acd")
	s.SetCursor(endOf(s, 0))
	if res := press(s, KeyDelete); !res.Handled || res.Changed {
		t.Fatalf("delete at end = %+v", res)
	}
}

func TestMovementAndShiftSelection(t *testing.T) {
	s := NewSessionFromLines([]string{"abc", "de"})
	s.SetCursor(Cursor{Line: 0, Offset: 3})

	press(s, KeyRight)
	assertCursor(t, s, Cursor{Line: 1, Offset: 0})
	press(s, KeyLeft)
	assertCursor(t, s, Cursor{Line: 0, Offset: 3})
	press(s, KeyDown)
	assertCursor(t, s, Cursor{Line: 1, Offset: 2})
	press(s, KeyDown)
	assertCursor(t, s, Cursor{Line: 1, Offset: 2})
	press(s, KeyHome)
	assertCursor(t, s, Cursor{Line: 1, Offset: 0})
	press(s, KeyUp)
	assertCursor(t, s, Cursor{Line: 0, Offset: 0})
	press(s, KeyUp)
	assertCursor(t, s, Cursor{Line: 0, Offset: 0})

	pressShift(s, KeyEnd)
	pressShift(s, KeyRight)
	sel, ok := s.Selection()
	if !ok {
		t.Fatalf("no selection after shift movement")
	}
	want := Range{Start: Cursor{Line: 0, Offset: 0}, End: Cursor{Line: 1, Offset: 0}}
	if sel != want {
		t.Fatalf("selection = %+v, want %+v", sel, want)
	}
	press(s, KeyLeft)
	if _, ok := s.Selection(); ok {
		t.Fatalf("plain movement kept the selection")
	}
}

func TestMultiRuneOffsets(t *testing.T) {
	s := NewSessionFromLines([]string{"1. 你好"})
	s.SetCursor(Cursor{Line: 0, Offset: 4})
	press(s, "们")
	assertLines(t, s, "1. 你们好")
	press(s, KeyBackspace)
	press(s, KeyBackspace)
	assertLines(t, s, "1. 好")
}

func TestCurrentLine(t *testing.T) {
	s := NewSessionFromLines([]string{"text", "    b. item"})
	s.SetCursor(Cursor{Line: 1})
	l := s.CurrentLine()
	if l.Kind != TokenLetter || l.Value != "b" || l.Indent != 4 {
		t.Fatalf("CurrentLine = %+v", l)
	}
	if s.LineCount() != 2 {
		t.Fatalf("LineCount = %d", s.LineCount())
	}
}

func TestNewSessionSplitsLineEndings(t *testing.T) {
	s := NewSession("a\r\nb\rc\n")
	assertLines(t, s, "a", "b", "c", "")
	if s := NewSessionFromLines(nil); s.LineCount() != 1 || s.Line(0) != "" {
		t.Fatalf("empty session = %q", s.Lines())
	}
}
