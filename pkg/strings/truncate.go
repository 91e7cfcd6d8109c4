// Package strings holds text helpers shared by the output formatters.
package strings

import (
	"strings"
)

// DefaultCellMaxLen is the widest table cell the formatters print.
const DefaultCellMaxLen = 60

// MinTruncateLen is the minimum maxLen value for FirstLine.
// Values smaller than this would not leave room for content plus "...".
const MinTruncateLen = 4

// FirstLine shortens a possibly multi-line value for a single table cell.
// Only the first line is kept, marked with " ..." when more lines follow,
// and the result is cut to maxLen runes with a trailing "...".
//
// maxLen below MinTruncateLen is raised to MinTruncateLen.
func FirstLine(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimRight(s[:i], " \t\r") + " ..."
	}

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
