// Package keywords finds user keywords in document text for highlighting
// and per-keyword match counts. Matching is literal and case-insensitive.
package keywords

import (
	"sort"
	"strings"
	"unicode"
)

// Span is one keyword occurrence within a line, in rune offsets.
type Span struct {
	Start   int
	End     int
	Keyword string
}

// Stat is the number of occurrences of one keyword.
type Stat struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Matcher matches a fixed keyword list. The zero value matches nothing.
type Matcher struct {
	keywords []string
	folded   [][]rune
	// byLength indexes keywords longest first.
	byLength []int
}

// NewMatcher prepares keywords for matching. Blank entries are ignored and
// longer keywords win when two start at the same offset.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		m.keywords = append(m.keywords, kw)
		m.folded = append(m.folded, fold(kw))
	}
	m.byLength = make([]int, len(m.keywords))
	for i := range m.byLength {
		m.byLength[i] = i
	}
	sort.SliceStable(m.byLength, func(a, b int) bool {
		return len(m.folded[m.byLength[a]]) > len(m.folded[m.byLength[b]])
	})
	return m
}

// Empty reports whether the matcher has no keywords.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.keywords) == 0
}

// Line returns the non-overlapping keyword spans of a single line, left to
// right.
func (m *Matcher) Line(line string) []Span {
	if m.Empty() {
		return nil
	}
	text := fold(line)
	var spans []Span
	for i := 0; i < len(text); {
		k := m.matchAt(text, i)
		if k < 0 {
			i++
			continue
		}
		end := i + len(m.folded[k])
		spans = append(spans, Span{Start: i, End: end, Keyword: m.keywords[k]})
		i = end
	}
	return spans
}

// Count returns the occurrences of every keyword in text, in the order the
// keywords were given. Occurrences are counted independently per keyword,
// so "cat" and "category" both count a "category".
func (m *Matcher) Count(text string) []Stat {
	if m.Empty() {
		return nil
	}
	folded := fold(text)
	stats := make([]Stat, 0, len(m.keywords))
	for k, kw := range m.keywords {
		stats = append(stats, Stat{Keyword: kw, Count: countFolded(folded, m.folded[k])})
	}
	return stats
}

func (m *Matcher) matchAt(text []rune, i int) int {
	for _, k := range m.byLength {
		if hasPrefixAt(text, i, m.folded[k]) {
			return k
		}
	}
	return -1
}

func countFolded(text, kw []rune) int {
	n := 0
	for i := 0; i+len(kw) <= len(text); {
		if hasPrefixAt(text, i, kw) {
			n++
			i += len(kw)
			continue
		}
		i++
	}
	return n
}

func hasPrefixAt(text []rune, i int, kw []rune) bool {
	if i+len(kw) > len(text) {
		return false
	}
	for j, r := range kw {
		if text[i+j] != r {
			return false
		}
	}
	return true
}

// fold lower-cases rune by rune so offsets into the result are offsets
// into the original.
func fold(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

// Add appends kw to list unless it is blank or already present, compared
// case-insensitively. It reports whether the list changed.
func Add(list []string, kw string) ([]string, bool) {
	kw = strings.TrimSpace(kw)
	if kw == "" || indexOf(list, kw) >= 0 {
		return list, false
	}
	return append(list, kw), true
}

// Remove deletes kw from list, compared case-insensitively.
func Remove(list []string, kw string) ([]string, bool) {
	i := indexOf(list, strings.TrimSpace(kw))
	if i < 0 {
		return list, false
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), true
}

func indexOf(list []string, kw string) int {
	for i, v := range list {
		if strings.EqualFold(v, kw) {
			return i
		}
	}
	return -1
}
