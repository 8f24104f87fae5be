package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/docassist/internal/outline"
)

// keyString renders ev in the notation used by [keymap] in config.toml,
// e.g. "ctrl+s", "alt+up", "pgdn". Plain runes come back as themselves.
func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	if mods&tcell.ModAlt != 0 {
		if name := namedKey(ev.Key()); name != "" {
			return "alt+" + name
		}
		if ev.Key() == tcell.KeyRune {
			return "alt+" + strings.ToLower(string(ev.Rune()))
		}
	}
	if mods&tcell.ModCtrl != 0 {
		switch ev.Key() {
		case tcell.KeyHome:
			return "ctrl+home"
		case tcell.KeyEnd:
			return "ctrl+end"
		case tcell.KeyRune:
			return "ctrl+" + strings.ToLower(string(ev.Rune()))
		}
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune())
	}
	if name := namedKey(ev.Key()); name != "" {
		if mods&tcell.ModShift != 0 {
			return "shift+" + name
		}
		return name
	}
	return ""
}

func namedKey(key tcell.Key) string {
	switch key {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyDelete:
		return "delete"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyF1:
		return "f1"
	case tcell.KeyF2:
		return "f2"
	}
	return ""
}

// ctrlKeyName names the control keys that do not collide with editing keys.
// Ctrl+H, Ctrl+I and Ctrl+M arrive as Backspace, Tab and Enter on most
// terminals and are left to outlineKey.
func ctrlKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyCtrlA:
		return "ctrl+a"
	case tcell.KeyCtrlB:
		return "ctrl+b"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyCtrlD:
		return "ctrl+d"
	case tcell.KeyCtrlE:
		return "ctrl+e"
	case tcell.KeyCtrlF:
		return "ctrl+f"
	case tcell.KeyCtrlG:
		return "ctrl+g"
	case tcell.KeyCtrlJ:
		return "ctrl+j"
	case tcell.KeyCtrlK:
		return "ctrl+k"
	case tcell.KeyCtrlL:
		return "ctrl+l"
	case tcell.KeyCtrlN:
		return "ctrl+n"
	case tcell.KeyCtrlO:
		return "ctrl+o"
	case tcell.KeyCtrlP:
		return "ctrl+p"
	case tcell.KeyCtrlQ:
		return "ctrl+q"
	case tcell.KeyCtrlR:
		return "ctrl+r"
	case tcell.KeyCtrlS:
		return "ctrl+s"
	case tcell.KeyCtrlT:
		return "ctrl+t"
	case tcell.KeyCtrlU:
		return "ctrl+u"
	case tcell.KeyCtrlV:
		return "ctrl+v"
	case tcell.KeyCtrlW:
		return "ctrl+w"
	case tcell.KeyCtrlX:
		return "ctrl+x"
	case tcell.KeyCtrlY:
		return "ctrl+y"
	case tcell.KeyCtrlZ:
		return "ctrl+z"
	}
	return ""
}

// outlineKey translates a terminal key press into the event the outline
// session understands. ok is false for keys the session has no use for.
func outlineKey(ev *tcell.EventKey) (outline.KeyEvent, bool) {
	shift := ev.Modifiers()&tcell.ModShift != 0
	var key string
	switch ev.Key() {
	case tcell.KeyEnter:
		key = outline.KeyEnter
	case tcell.KeyTab:
		key = outline.KeyTab
	case tcell.KeyBacktab:
		key, shift = outline.KeyTab, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		key = outline.KeyBackspace
	case tcell.KeyDelete:
		key = outline.KeyDelete
	case tcell.KeyLeft:
		key = outline.KeyLeft
	case tcell.KeyRight:
		key = outline.KeyRight
	case tcell.KeyUp:
		key = outline.KeyUp
	case tcell.KeyDown:
		key = outline.KeyDown
	case tcell.KeyHome:
		key = outline.KeyHome
	case tcell.KeyEnd:
		key = outline.KeyEnd
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) != 0 {
			return outline.KeyEvent{}, false
		}
		// Shift is already folded into the rune.
		return outline.KeyEvent{Key: string(ev.Rune())}, true
	default:
		return outline.KeyEvent{}, false
	}
	return outline.KeyEvent{Key: key, Shift: shift}, true
}
