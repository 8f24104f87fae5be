package outline

import "strings"

var defaultEdits = map[string]func(s *Session, ev KeyEvent) Result{
	KeyBackspace: (*Session).backspace,
	KeyDelete:    (*Session).deleteForward,
	KeyLeft:      (*Session).moveLeft,
	KeyRight:     (*Session).moveRight,
	KeyUp:        (*Session).moveUp,
	KeyDown:      (*Session).moveDown,
	KeyHome:      (*Session).moveHome,
	KeyEnd:       (*Session).moveEnd,
}

// Paste inserts clipboard text at the cursor as plain text, replacing the
// selection. Nothing in the text is interpreted; newlines split lines. The
// cursor ends up after the inserted text.
func (s *Session) Paste(text string) Result {
	return s.replaceSelection(text)
}

// InsertText types text at the cursor, replacing the selection.
func (s *Session) InsertText(text string) Result {
	return s.replaceSelection(text)
}

func (s *Session) replaceSelection(text string) Result {
	s.cursor = clampCursor(s.doc.lines, s.cursor)
	sel, hasSel := s.Selection()
	if text == "" && !hasSel {
		return Result{Handled: true}
	}
	s.begin()
	kind := ChangeText
	pos := s.cursor
	if hasSel {
		if sel.Start.Line != sel.End.Line {
			kind = ChangeStructure
		}
		s.doc.deleteRange(sel)
		pos = sel.Start
	}
	s.selecting = false
	if strings.ContainsAny(text, "\r\n") {
		kind = ChangeStructure
	}
	s.cursor = s.doc.insertText(pos, text)
	s.notify(kind)
	return Result{Handled: true, Changed: true}
}

func (s *Session) deleteSelection(sel Range) Result {
	s.begin()
	s.doc.deleteRange(sel)
	s.selecting = false
	s.cursor = clampCursor(s.doc.lines, sel.Start)
	if sel.Start.Line != sel.End.Line {
		s.notify(ChangeStructure)
	} else {
		s.notify(ChangeText)
	}
	return Result{Handled: true, Changed: true}
}

func (s *Session) backspace(KeyEvent) Result {
	if sel, ok := s.Selection(); ok {
		return s.deleteSelection(sel)
	}
	s.selecting = false
	c := s.cursor
	switch {
	case c.Offset > 0:
		return s.deleteSelection(Range{Start: Cursor{Line: c.Line, Offset: c.Offset - 1}, End: c})
	case c.Line > 0:
		prev := Cursor{Line: c.Line - 1, Offset: runeLen(s.doc.Line(c.Line - 1))}
		return s.deleteSelection(Range{Start: prev, End: c})
	}
	return Result{Handled: true}
}

func (s *Session) deleteForward(KeyEvent) Result {
	if sel, ok := s.Selection(); ok {
		return s.deleteSelection(sel)
	}
	s.selecting = false
	c := s.cursor
	switch {
	case c.Offset < runeLen(s.doc.Line(c.Line)):
		return s.deleteSelection(Range{Start: c, End: Cursor{Line: c.Line, Offset: c.Offset + 1}})
	case c.Line < s.doc.Len()-1:
		return s.deleteSelection(Range{Start: c, End: Cursor{Line: c.Line + 1}})
	}
	return Result{Handled: true}
}

// moveTo places the cursor at c. With extend the selection anchor stays
// where the cursor started.
func (s *Session) moveTo(c Cursor, extend bool) Result {
	if extend {
		if !s.selecting {
			s.anchor = s.cursor
			s.selecting = true
		}
	} else {
		s.selecting = false
	}
	s.cursor = clampCursor(s.doc.lines, c)
	return Result{Handled: true}
}

func (s *Session) moveLeft(ev KeyEvent) Result {
	c := s.cursor
	switch {
	case c.Offset > 0:
		c.Offset--
	case c.Line > 0:
		c.Line--
		c.Offset = runeLen(s.doc.Line(c.Line))
	}
	return s.moveTo(c, ev.Shift)
}

func (s *Session) moveRight(ev KeyEvent) Result {
	c := s.cursor
	switch {
	case c.Offset < runeLen(s.doc.Line(c.Line)):
		c.Offset++
	case c.Line < s.doc.Len()-1:
		c.Line++
		c.Offset = 0
	}
	return s.moveTo(c, ev.Shift)
}

func (s *Session) moveUp(ev KeyEvent) Result {
	c := s.cursor
	if c.Line == 0 {
		c.Offset = 0
	} else {
		c.Line--
	}
	return s.moveTo(c, ev.Shift)
}

func (s *Session) moveDown(ev KeyEvent) Result {
	c := s.cursor
	if c.Line == s.doc.Len()-1 {
		c.Offset = runeLen(s.doc.Line(c.Line))
	} else {
		c.Line++
	}
	return s.moveTo(c, ev.Shift)
}

func (s *Session) moveHome(ev KeyEvent) Result {
	return s.moveTo(Cursor{Line: s.cursor.Line}, ev.Shift)
}

func (s *Session) moveEnd(ev KeyEvent) Result {
	return s.moveTo(Cursor{Line: s.cursor.Line, Offset: runeLen(s.doc.Line(s.cursor.Line))}, ev.Shift)
}
