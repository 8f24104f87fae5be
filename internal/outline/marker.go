package outline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TokenKind classifies the token inside a list marker.
type TokenKind int

const (
	TokenNone TokenKind = iota
	TokenNumber
	TokenLetter
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenLetter:
		return "letter"
	default:
		return "none"
	}
}

// IndentStep is the width of one outline level.
const IndentStep = 4

var markerRe = regexp.MustCompile(`^(\s*)([0-9]+|[A-Za-z])\.(\s*)(.*)$`)

// Marker is the parsed form of a list line: "<indent><token>. <content>".
type Marker struct {
	Indent  int    // leading whitespace, in runes
	Token   string // decimal digits or a single letter
	Content string // text after the marker and its trailing whitespace

	lead string
	size int
}

// Match parses the leading list marker of line. It reports false when the
// line does not start with a bare number or single letter followed by '.'.
func Match(line string) (Marker, bool) {
	m := markerRe.FindStringSubmatch(line)
	if m == nil {
		return Marker{}, false
	}
	lead, token, gap, content := m[1], m[2], m[3], m[4]
	return Marker{
		Indent:  utf8.RuneCountInString(lead),
		Token:   token,
		Content: content,
		lead:    lead,
		size:    utf8.RuneCountInString(lead) + utf8.RuneCountInString(token) + 1 + utf8.RuneCountInString(gap),
	}, true
}

// Kind reports whether the marker token is a number or a letter.
func (m Marker) Kind() TokenKind {
	switch {
	case m.Token == "":
		return TokenNone
	case isDigits(m.Token):
		return TokenNumber
	case len(m.Token) == 1 && isASCIILetter(m.Token[0]):
		return TokenLetter
	default:
		return TokenNone
	}
}

// Lead returns the whitespace that precedes the token, as written.
func (m Marker) Lead() string {
	return m.lead
}

// Width is the rune length of the marker region, trailing whitespace included.
func (m Marker) Width() int {
	return m.size
}

// Line is a view of one document line derived from its text.
type Line struct {
	Text    string
	Indent  int
	Kind    TokenKind
	Value   string
	Content string
}

// ParseLine derives the outline view of text. Lines without a marker keep
// their whole text as content.
func ParseLine(text string) Line {
	if m, ok := Match(text); ok {
		return Line{
			Text:    text,
			Indent:  m.Indent,
			Kind:    m.Kind(),
			Value:   m.Token,
			Content: m.Content,
		}
	}
	trimmed := strings.TrimLeft(text, " \t\f\r\v")
	return Line{
		Text:    text,
		Indent:  utf8.RuneCountInString(text) - utf8.RuneCountInString(trimmed),
		Kind:    TokenNone,
		Content: text,
	}
}

// IsItem reports whether the line carries a list marker.
func (l Line) IsItem() bool {
	return l.Kind != TokenNone
}

// FormatMarker renders "<indent spaces><token>. ".
func FormatMarker(indent int, token string) string {
	if indent < 0 {
		indent = 0
	}
	return strings.Repeat(" ", indent) + token + ". "
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
