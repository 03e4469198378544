package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chrispicato/jest/engine"
	"github.com/chrispicato/jest/output/format"
	"github.com/chrispicato/jest/results"
)

// SimpleOutput is the non-TTY reporter: it consumes engine events, feeds the
// collector, and at completion writes one status line per suite, the failure
// output, and the aggregated summary.
type SimpleOutput struct {
	writer    io.Writer
	collector *results.Collector
	style     format.Styler
	columns   int
	estimated int
	raw       []string
}

// SimpleOption configures a SimpleOutput.
type SimpleOption func(*SimpleOutput)

// WithStyler overrides the styler (PlainStyler by default).
func WithStyler(style format.Styler) SimpleOption {
	return func(s *SimpleOutput) {
		s.style = style
	}
}

// WithColumns sets the terminal width used for path trimming and wrapping.
func WithColumns(columns int) SimpleOption {
	return func(s *SimpleOutput) {
		s.columns = columns
	}
}

// WithEstimate sets the estimated run time in seconds for the summary line.
func WithEstimate(seconds int) SimpleOption {
	return func(s *SimpleOutput) {
		s.estimated = seconds
	}
}

// NewSimpleOutput creates a simple reporter writing to w.
func NewSimpleOutput(w io.Writer, collector *results.Collector, opts ...SimpleOption) *SimpleOutput {
	s := &SimpleOutput{
		writer:    w,
		collector: collector,
		style:     format.PlainStyler,
		columns:   80,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessEvents consumes the engine stream until completion.
func (s *SimpleOutput) ProcessEvents(events <-chan engine.Event) error {
	for evt := range events {
		switch evt.Type {
		case engine.EventRawLine:
			line := string(evt.RawLine)
			s.raw = append(s.raw, line)
			s.collector.AddNonTestOutput(line)

		case engine.EventTest:
			s.collector.Apply(evt.TestEvent)

		case engine.EventComplete:
			s.collector.Finish()
			return s.writeReport()

		case engine.EventError:
			s.raw = append(s.raw, fmt.Sprintf("Error: %v", evt.Error))
		}
	}
	return nil
}

// HasFailures reports whether the run had any failures.
func (s *SimpleOutput) HasFailures() bool {
	return s.collector.HasFailures()
}

func (s *SimpleOutput) writeReport() error {
	for _, line := range s.raw {
		if _, err := fmt.Fprintln(s.writer, line); err != nil {
			return err
		}
	}
	if len(s.raw) > 0 {
		fmt.Fprintln(s.writer)
	}

	_, err := fmt.Fprint(s.writer, Report(s.collector, s.style, s.columns, s.estimated))
	return err
}

// Report renders the finished-run report: one status line per suite, the
// failure output, and the aggregated summary. Shared between the simple
// reporter and the post-TUI final print.
func Report(collector *results.Collector, style format.Styler, columns, estimated int) string {
	if style == nil {
		style = format.PlainStyler
	}
	if columns <= 0 {
		columns = 80
	}

	var b strings.Builder

	for _, suite := range collector.Suites() {
		b.WriteString(suiteLine(suite, style, columns))
		b.WriteString("\n")
	}

	if failures := collector.Failures(); len(failures) > 0 {
		b.WriteString("\n")
		for _, failure := range failures {
			fmt.Fprintf(&b, "  %s %s\n", style(format.StyleFail, "✗"), style(format.StyleBold, failure.Name))
			for _, line := range failure.Output {
				wrapped, err := format.Wrap(line, columns-4)
				if err != nil {
					wrapped = line
				}
				for _, wl := range strings.Split(wrapped, "\n") {
					fmt.Fprintf(&b, "    %s\n", wl)
				}
			}
		}
	}

	now := collector.EndTime()
	if now.IsZero() {
		now = time.Now()
	}
	summary := format.Summary(collector.Counts(), format.Options{
		EstimatedSeconds: estimated,
	}, now, style)

	b.WriteString("\n")
	b.WriteString(summary)
	b.WriteString("\n")
	return b.String()
}

// suiteLine renders one "PASS dir/base" style line, trimming the path to the
// available width.
func suiteLine(suite results.SuiteResult, style format.Styler, columns int) string {
	badge := "PASS"
	st := format.StylePass
	switch suite.Status {
	case results.StatusFailed, results.StatusErrored:
		badge = "FAIL"
		st = format.StyleFail
	case results.StatusSkipped:
		badge = "SKIP"
		st = format.StyleSkip
	case results.StatusRunning:
		badge = "RUNS"
		st = format.StyleSkip
	}

	parts := format.SplitPath("", suite.Path)
	trimmed, err := format.TrimPath(len(badge)+1, columns, parts, style)
	if err != nil {
		// Width too small for trimming; fall back to the raw path.
		trimmed = parts.String()
	}

	return style(st, badge) + " " + trimmed
}
