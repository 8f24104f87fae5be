// Package editor draws an outline session on a tcell screen and turns
// terminal input into session events.
package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/docassist/internal/config"
	"github.com/kobzarvs/docassist/internal/keywords"
	"github.com/kobzarvs/docassist/internal/logger"
	"github.com/kobzarvs/docassist/internal/outline"
)

const tabWidth = 4

type LineNumberMode int

const (
	LineNumberOff LineNumberMode = iota
	LineNumberAbsolute
	LineNumberRelative
)

// SaveState is what the statusline shows about persistence.
type SaveState struct {
	Dirty     bool
	LastSaved time.Time
	Err       error
}

type Editor struct {
	session *outline.Session
	title   string
	keymap  map[string]string

	matcher        *keywords.Matcher
	showKeywords   bool
	lineNumberMode LineNumberMode

	scroll     int
	viewHeight int

	statusMessage string
	saveFunc      func() error
	saveState     func() SaveState

	pasting  bool
	pasteBuf []rune

	// actionHook observes every executed keymap action; used by tests.
	actionHook func(action string)

	styleMain             tcell.Style
	styleStatusline       tcell.Style
	styleLineNumber       tcell.Style
	styleLineNumberActive tcell.Style
	styleMarker           tcell.Style
	styleKeyword          tcell.Style
	styleSelection        tcell.Style
}

// New returns an editor over s styled and bound by cfg.
func New(cfg config.Config, s *outline.Session) *Editor {
	theme := cfg.Theme
	fg := parseColor(theme.Foreground, tcell.ColorDefault)
	bg := parseColor(theme.Background, tcell.ColorDefault)
	main := tcell.StyleDefault.Foreground(fg).Background(bg)

	lineNumberFg := parseColor(theme.LineNumberForeground, tcell.ColorGray)
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[strings.ToLower(k)] = v
	}

	return &Editor{
		session:        s,
		keymap:         keymap,
		matcher:        keywords.NewMatcher(nil),
		showKeywords:   cfg.Editor.KeywordsEnabled(),
		lineNumberMode: parseLineNumberMode(cfg.Editor.LineNumbers),
		styleMain:      main,
		styleStatusline: tcell.StyleDefault.
			Foreground(parseColor(theme.StatuslineForeground, fg)).
			Background(parseColor(theme.StatuslineBackground, bg)),
		styleLineNumber:       main.Foreground(lineNumberFg),
		styleLineNumberActive: main.Foreground(fg).Bold(true),
		styleMarker:           main.Foreground(parseColor(theme.MarkerForeground, fg)),
		styleKeyword: tcell.StyleDefault.
			Foreground(parseColor(theme.KeywordForeground, tcell.ColorBlack)).
			Background(parseColor(theme.KeywordBackground, tcell.ColorYellow)),
		styleSelection: tcell.StyleDefault.
			Foreground(parseColor(theme.SelectionForeground, fg)).
			Background(parseColor(theme.SelectionBackground, tcell.ColorNavy)),
	}
}

// Session returns the edited session.
func (e *Editor) Session() *outline.Session {
	return e.session
}

func (e *Editor) SetTitle(title string) {
	e.title = title
}

// SetKeywords replaces the highlighted keyword list.
func (e *Editor) SetKeywords(list []string) {
	e.matcher = keywords.NewMatcher(list)
}

// SetSaveFunc installs the handler of the "save" action.
func (e *Editor) SetSaveFunc(fn func() error) {
	e.saveFunc = fn
}

// SetSaveStateFunc installs the source of the statusline save indicator.
func (e *Editor) SetSaveStateFunc(fn func() SaveState) {
	e.saveState = fn
}

func (e *Editor) SetStatusMessage(msg string) {
	e.statusMessage = msg
}

func (e *Editor) ShowKeywords() bool {
	return e.showKeywords
}

func (e *Editor) SetShowKeywords(on bool) {
	e.showKeywords = on
}

func (e *Editor) Scroll() int {
	return e.scroll
}

func (e *Editor) SetScroll(y int) {
	if y < 0 {
		y = 0
	}
	e.scroll = y
}

// HandleKey applies one key press. It returns true when the user asked to
// quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.pasting {
		e.collectPaste(ev)
		return false
	}
	if action, ok := e.keymap[keyString(ev)]; ok {
		return e.execAction(action)
	}
	kev, ok := outlineKey(ev)
	if !ok {
		return false
	}
	res := e.session.HandleKey(kev)
	if res.Changed {
		e.statusMessage = ""
	}
	return false
}

// HandlePaste tracks bracketed paste. Keys between start and end are
// collected and inserted as one literal paste.
func (e *Editor) HandlePaste(ev *tcell.EventPaste) {
	if ev.Start() {
		e.pasting = true
		e.pasteBuf = e.pasteBuf[:0]
		return
	}
	if !e.pasting {
		return
	}
	e.pasting = false
	text := string(e.pasteBuf)
	e.pasteBuf = e.pasteBuf[:0]
	e.session.Paste(text)
}

func (e *Editor) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		e.pasteBuf = append(e.pasteBuf, ev.Rune())
	case tcell.KeyEnter, tcell.KeyCtrlJ:
		e.pasteBuf = append(e.pasteBuf, '\n')
	case tcell.KeyTab:
		e.pasteBuf = append(e.pasteBuf, '\t')
	}
}

func (e *Editor) execAction(action string) bool {
	if e.actionHook != nil {
		e.actionHook(action)
	}
	logger.Debug("action", "name", action)
	switch action {
	case "quit":
		return true
	case "save":
		e.save()
	case "undo":
		if !e.session.Undo() {
			e.statusMessage = "nothing to undo"
		}
	case "redo":
		if !e.session.Redo() {
			e.statusMessage = "nothing to redo"
		}
	case "toggle_keywords":
		e.showKeywords = !e.showKeywords
	case "toggle_line_numbers":
		e.toggleLineNumbers()
	case "page_up":
		e.pageMove(-1)
	case "page_down":
		e.pageMove(1)
	case "select_all":
		e.selectAll()
	default:
		e.statusMessage = fmt.Sprintf("unknown action: %s", action)
	}
	return false
}

func (e *Editor) save() {
	if e.saveFunc == nil {
		return
	}
	if err := e.saveFunc(); err != nil {
		logger.Error("save failed", "err", err)
		e.statusMessage = "save failed: " + err.Error()
		return
	}
	e.statusMessage = "saved"
}

func (e *Editor) pageMove(dir int) {
	step := e.viewHeight
	if step < 1 {
		step = 1
	}
	c := e.session.Cursor()
	c.Line += dir * step
	e.session.SetCursor(c)
	e.scroll += dir * step
	if e.scroll < 0 {
		e.scroll = 0
	}
}

func (e *Editor) selectAll() {
	n := e.session.LineCount()
	last := e.session.Line(n - 1)
	e.session.Select(outline.Cursor{}, outline.Cursor{Line: n - 1, Offset: len([]rune(last))})
}

func (e *Editor) toggleLineNumbers() {
	switch e.lineNumberMode {
	case LineNumberAbsolute:
		e.lineNumberMode = LineNumberRelative
	case LineNumberRelative:
		e.lineNumberMode = LineNumberOff
	default:
		e.lineNumberMode = LineNumberAbsolute
	}
}

func parseLineNumberMode(value string) LineNumberMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "relative", "rel":
		return LineNumberRelative
	case "off", "none", "false":
		return LineNumberOff
	default:
		return LineNumberAbsolute
	}
}

// KeywordStats counts every keyword over the whole document.
func (e *Editor) KeywordStats() []keywords.Stat {
	return e.matcher.Count(e.session.Text())
}
