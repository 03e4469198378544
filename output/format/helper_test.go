package format

// testStyler wraps text in raw SGR sequences so tests can assert on exact
// marker placement without depending on the terminal color profile lipgloss
// detects at runtime.
func testStyler(st Style, s string) string {
	codes := map[Style]string{
		StyleDim:   "2",
		StyleBold:  "1",
		StylePass:  "32",
		StyleFail:  "31",
		StyleSkip:  "33",
		StyleWarn:  "33",
		StyleFill:  "32",
		StyleTrack: "37",
	}
	if s == "" {
		return ""
	}
	return "\x1b[" + codes[st] + "m" + s + "\x1b[0m"
}
