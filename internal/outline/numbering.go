package outline

import "strings"

// Next returns the marker token that follows last. An empty or malformed
// last value starts the sequence over ("1" or "a"). Letters wrap from z to a
// and keep the case of last; numbers have no upper bound.
func Next(kind TokenKind, last string) string {
	switch kind {
	case TokenNumber:
		if !isDigits(last) {
			return "1"
		}
		return incrementDecimal(last)
	case TokenLetter:
		if len(last) != 1 || !isASCIILetter(last[0]) {
			return "a"
		}
		c := last[0]
		switch c {
		case 'z':
			return "a"
		case 'Z':
			return "A"
		}
		return string(c + 1)
	default:
		return ""
	}
}

// incrementDecimal adds one to a string of decimal digits without parsing it,
// so arbitrarily long tokens keep counting.
func incrementDecimal(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "1"
	}
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '9' {
			b[i]++
			return string(b)
		}
		b[i] = '0'
	}
	return "1" + string(b)
}

// MaxSiblingNumber walks backward from line from and returns the largest
// numeric token among the contiguous list items at exactly indent, without
// leading zeros. Items nested deeper are skipped; the walk stops at a
// non-list line, at a shallower item, or at a same-level letter item. It
// returns "" when no numeric sibling is found.
func MaxSiblingNumber(lines []string, from, indent int) string {
	if from >= len(lines) {
		from = len(lines) - 1
	}
	best := ""
	for i := from; i >= 0; i-- {
		m, ok := Match(lines[i])
		if !ok || m.Indent < indent {
			break
		}
		if m.Indent > indent {
			continue
		}
		if m.Kind() != TokenNumber {
			break
		}
		if n := trimDecimal(m.Token); best == "" || decimalLess(best, n) {
			best = n
		}
	}
	return best
}

// trimDecimal drops leading zeros, keeping a lone "0".
func trimDecimal(s string) string {
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}

// decimalLess compares two digit strings already passed through trimDecimal.
func decimalLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
