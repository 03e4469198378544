package tui

import "strings"

// ensureReset ensures that the string ends with a terminal reset sequence.
// This prevents color bleeding from truncated output or output that leaves colors open.
func ensureReset(s string) string {
	if s == "" {
		return ""
	}
	if strings.HasSuffix(s, "\033[0m") {
		return s
	}
	return s + "\033[0m"
}

// expandTabs replaces tab characters with spaces. Tabs in some display
// environments do not overwrite characters but simply advance the cursor,
// leaving characters from the previous view bleeding through.
func expandTabs(s string, tabWidth int) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteRune(r)
			col = 0
		case '\t':
			spaces := tabWidth - (col % tabWidth)
			b.WriteString(strings.Repeat(" ", spaces))
			col += spaces
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
