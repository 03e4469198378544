package format

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Style identifies a rendering treatment for a span of text.
//
// The format package never talks to the terminal directly. Every function that
// needs styling takes a Styler, so callers decide whether output carries escape
// sequences (TTY) or stays plain (files, CI logs).
type Style int

const (
	StyleDim   Style = iota // de-emphasized, e.g. directory prefixes
	StyleBold               // emphasized, e.g. basenames and labels
	StylePass               // passing counts
	StyleFail               // failing counts
	StyleSkip               // skipped counts
	StyleWarn               // attention, e.g. runtime exceeding the estimate
	StyleFill               // filled portion of the progress bar
	StyleTrack              // unfilled portion of the progress bar
)

// Styler renders text with a style. Implementations must be pure: same inputs,
// same output, and any added escape sequences must occupy zero columns.
type Styler func(st Style, s string) string

// PlainStyler returns the text unchanged. Used for non-TTY output.
func PlainStyler(_ Style, s string) string {
	return s
}

// NewLipglossStyler returns a Styler backed by lipgloss styles.
func NewLipglossStyler() Styler {
	styles := map[Style]lipgloss.Style{
		StyleDim:   lipgloss.NewStyle().Faint(true),
		StyleBold:  lipgloss.NewStyle().Bold(true),
		StylePass:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")), // green
		StyleFail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")), // red
		StyleSkip:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")), // yellow
		StyleWarn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		StyleFill:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		StyleTrack: lipgloss.NewStyle().Faint(true),
	}
	return func(st Style, s string) string {
		if s == "" {
			return ""
		}
		style, ok := styles[st]
		if !ok {
			return s
		}
		return style.Render(s)
	}
}

// DetectStyler picks a Styler based on whether f is a terminal.
func DetectStyler(f *os.File) Styler {
	if f != nil && isatty.IsTerminal(f.Fd()) {
		return NewLipglossStyler()
	}
	return PlainStyler
}
