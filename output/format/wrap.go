package format

import (
	"fmt"
	"regexp"
	"strings"
)

// SpanKind distinguishes visible text from zero-width styling markers.
type SpanKind int

const (
	SpanPlain  SpanKind = iota // counts toward visible width
	SpanMarker                 // escape sequence, zero visible width
)

// Span is a contiguous run of either plain text or a single styling marker.
type Span struct {
	Kind SpanKind
	Text string
}

// markerPattern matches SGR escape sequences (CSI or the single-byte 0x9b
// introducer followed by parameters and a final 'm'). These occupy bytes but
// no terminal columns.
var markerPattern = regexp.MustCompile("[\x1b\u009b]\\[[0-9;]*m")

// SplitSpans tokenizes s into an ordered list of plain and marker spans.
// Concatenating the span texts reproduces s exactly. Plain text after the last
// marker is always included as a final span.
func SplitSpans(s string) []Span {
	var spans []Span
	last := 0
	for _, loc := range markerPattern.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Kind: SpanPlain, Text: s[last:loc[0]]})
		}
		spans = append(spans, Span{Kind: SpanMarker, Text: s[loc[0]:loc[1]]})
		last = loc[1]
	}
	if last < len(s) {
		spans = append(spans, Span{Kind: SpanPlain, Text: s[last:]})
	}
	return spans
}

// StripMarkers removes every styling marker from s, leaving the visible
// character sequence.
func StripMarkers(s string) string {
	return markerPattern.ReplaceAllString(s, "")
}

// VisibleLen counts the characters of s that occupy terminal columns.
func VisibleLen(s string) int {
	return len([]rune(StripMarkers(s)))
}

// Wrap breaks s into lines of at most width visible characters, joined with
// "\n". Styling markers are copied through verbatim, count as zero width, and
// are never split across a line break. Cuts are rune-granular; there is no
// word-boundary handling.
//
// Returns an error when width <= 0.
func Wrap(s string, width int) (string, error) {
	if width <= 0 {
		return "", fmt.Errorf("format: invalid wrap width %d: must be positive", width)
	}

	lines := []string{""}
	length := 0 // visible length of the current line

	for _, span := range SplitSpans(s) {
		if span.Kind == SpanMarker {
			lines[len(lines)-1] += span.Text
			continue
		}

		rest := []rune(span.Text)
		for len(rest) > 0 {
			room := width - length
			if room <= 0 {
				lines = append(lines, "")
				length = 0
				room = width
			}
			cut := room
			if cut > len(rest) {
				cut = len(rest)
			}
			lines[len(lines)-1] += string(rest[:cut])
			length += cut
			rest = rest[cut:]
		}
	}

	return strings.Join(lines, "\n"), nil
}
