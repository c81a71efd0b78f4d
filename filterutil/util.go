// Package filterutil contains helper functions used by the watchlist filter.
package filterutil

import "strings"

const (
	// ListSeparator separates the items of a list given as a single string.
	ListSeparator = ','

	// EscapeCharacter escapes ListSeparator inside of an item.
	EscapeCharacter = '\\'
)

// SplitList splits a comma-separated list of fragments.  A backslash escapes
// a comma or another backslash, any other backslash is kept as is.  Empty
// items are dropped.
func SplitList(s string) []string {
	return splitWithEscapeCharacter(s, ListSeparator, EscapeCharacter)
}

// splitWithEscapeCharacter splits str by sep unless sep is escaped with esc.
func splitWithEscapeCharacter(str string, sep, esc byte) (parts []string) {
	parts = make([]string, 0)

	var sb strings.Builder
	escaped := false
	for i := 0; i < len(str); i++ {
		c := str[i]
		switch {
		case escaped:
			if c != sep && c != esc {
				sb.WriteByte(esc)
			}

			sb.WriteByte(c)
			escaped = false
		case c == esc:
			escaped = true
		case c == sep:
			if sb.Len() > 0 {
				parts = append(parts, sb.String())
				sb.Reset()
			}
		default:
			sb.WriteByte(c)
		}
	}

	if escaped {
		sb.WriteByte(esc)
	}

	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}

	return parts
}
