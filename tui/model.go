package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chrispicato/jest/engine"
	"github.com/chrispicato/jest/output/format"
	"github.com/chrispicato/jest/results"
)

// EngineEventMsg wraps engine events for bubbletea.
type EngineEventMsg engine.Event

// EOFMsg signals that the event stream is done.
type EOFMsg struct{}

// How many trailing output lines to show per running test.
const maxLiveOutputLines = 3

// Model is the live view of a test run. It renders entirely from the shared
// results.Collector; event messages only tell it when something changed.
//
// Layout, top to bottom: stray (non-test) output, one line per suite with a
// trimmed path and its counts, running-test detail, a separator, and the
// aggregated summary with the elapsed time and optional progress bar.
type Model struct {
	collector *results.Collector

	// Terminal state, updated by bubbletea.
	TerminalWidth  int
	TerminalHeight int

	// Estimated total run time in seconds; 0 disables the progress bar.
	Estimate int

	Finished bool

	style   format.Styler
	spinner spinner.Model
}

// NewModel creates a live view over the given collector.
func NewModel(collector *results.Collector, estimate int) *Model {
	s := spinner.New()
	s.Spinner = spinner.Jump
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	return &Model{
		collector:      collector,
		TerminalWidth:  80,
		TerminalHeight: 24,
		Estimate:       estimate,
		style:          format.NewLipglossStyler(),
		spinner:        s,
	}
}

// Init starts the spinner tick, which also drives elapsed-time refreshes.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EngineEventMsg:
		evt := engine.Event(msg)
		switch evt.Type {
		case engine.EventTest:
			m.collector.Apply(evt.TestEvent)
		case engine.EventRawLine:
			m.collector.AddNonTestOutput(string(evt.RawLine))
		}

	case tea.WindowSizeMsg:
		m.TerminalWidth = msg.Width
		m.TerminalHeight = msg.Height

	case EOFMsg:
		m.Finished = true
		m.collector.Finish()
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.Finished = true
			m.collector.Finish()
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the TUI.
func (m *Model) View() string {
	return strings.TrimRight(expandTabs(m.render(), 8), "\n")
}

func (m *Model) render() string {
	var b strings.Builder

	nonTest := m.collector.NonTestOutput()
	for _, line := range nonTest {
		b.WriteString("  ")
		b.WriteString(ensureReset(line))
		b.WriteString("\n")
	}
	if len(nonTest) > 0 {
		b.WriteString("\n")
	}

	for _, suite := range m.collector.Suites() {
		m.renderSuite(&b, suite)
	}

	b.WriteString(strings.Repeat("-", m.TerminalWidth))
	b.WriteString("\n")
	b.WriteString(m.renderSummary())
	b.WriteString("\n")

	return b.String()
}

// renderSuite writes the suite status line and, while the suite is running,
// the detail lines of its in-flight tests.
func (m *Model) renderSuite(b *strings.Builder, suite results.SuiteResult) {
	badge := m.badge(suite.Status)

	right := fmt.Sprintf("%s  %s  %s  %s",
		m.countCell(format.StylePass, "✓", suite.Passed),
		m.countCell(format.StyleFail, "✗", suite.Failed),
		m.countCell(format.StyleSkip, "∅", suite.Skipped),
		formatElapsed(suiteElapsed(suite)))

	// The path budget reserves the badge on the left and the counts column
	// (plus its two-space gap) on the right, so trimming decides what to
	// drop instead of a blind cut at the edge.
	parts := format.SplitPath("", suite.Path)
	pad := 6 + lipgloss.Width(right) + 2
	trimmed, err := format.TrimPath(pad, m.TerminalWidth, parts, m.style)
	if err != nil {
		trimmed = parts.String()
	}

	m.renderAlignedLine(b, badge+" "+trimmed, right)

	if suite.Status != results.StatusRunning {
		return
	}
	for _, name := range suite.TestOrder {
		test, ok := m.collector.Test(suite.Path, name)
		if !ok || test.Status != results.StatusRunning {
			continue
		}
		m.renderAlignedLine(b, "  "+m.spinner.View()+" "+name, formatElapsed(time.Since(test.StartTime)))

		output := test.Output
		if len(output) > maxLiveOutputLines {
			output = output[len(output)-maxLiveOutputLines:]
		}
		for _, line := range output {
			wrapped, err := format.Wrap(line, max(1, m.TerminalWidth-6))
			if err != nil {
				wrapped = line
			}
			for _, wl := range strings.Split(wrapped, "\n") {
				b.WriteString("      ")
				b.WriteString(ensureReset(wl))
				b.WriteString("\n")
			}
		}
	}
}

// badge renders the fixed-width suite status marker.
func (m *Model) badge(status results.Status) string {
	switch status {
	case results.StatusPassed:
		return m.style(format.StylePass, "PASS ")
	case results.StatusFailed, results.StatusErrored:
		return m.style(format.StyleFail, "FAIL ")
	case results.StatusSkipped:
		return m.style(format.StyleSkip, "SKIP ")
	default:
		return m.spinner.View() + "    "
	}
}

func (m *Model) countCell(st format.Style, symbol string, n int) string {
	cell := fmt.Sprintf("%s %d", symbol, n)
	if n > 0 {
		return m.style(st, cell)
	}
	return cell
}

// renderAlignedLine writes left- and right-aligned content on one line,
// truncating the left part if the two would collide.
func (m *Model) renderAlignedLine(b *strings.Builder, left, right string) {
	if right == "" {
		b.WriteString(ensureReset(left))
		b.WriteString("\n")
		return
	}

	rightWidth := lipgloss.Width(right)
	leftWidth := lipgloss.Width(left)

	available := m.TerminalWidth - rightWidth - 2
	if available < 0 {
		available = 0
	}

	if leftWidth > available {
		left = truncateVisible(left, available)
		leftWidth = lipgloss.Width(left)
	}

	b.WriteString(ensureReset(left))
	b.WriteString(strings.Repeat(" ", available-leftWidth))
	b.WriteString("  ")
	b.WriteString(right)
	b.WriteString("\n")
}

// truncateVisible cuts s to at most width visible characters, keeping any
// styling markers intact.
func truncateVisible(s string, width int) string {
	if width <= 0 {
		return ""
	}
	wrapped, err := format.Wrap(s, width)
	if err != nil {
		return s
	}
	if i := strings.IndexByte(wrapped, '\n'); i >= 0 {
		return wrapped[:i]
	}
	return wrapped
}

// renderSummary builds the footer: live runs tick in whole seconds and show
// the progress bar; the final view shows the exact time.
func (m *Model) renderSummary() string {
	now := time.Now()
	opts := format.Options{
		EstimatedSeconds: m.Estimate,
		RoundTime:        !m.Finished,
		Width:            m.TerminalWidth,
	}
	if m.Finished {
		if end := m.collector.EndTime(); !end.IsZero() {
			now = end
		}
	}
	return format.Summary(m.collector.Counts(), opts, now, m.style)
}

// suiteElapsed picks the live or final elapsed time for a suite.
func suiteElapsed(suite results.SuiteResult) time.Duration {
	if suite.Status == results.StatusRunning {
		return time.Since(suite.StartTime)
	}
	return suite.Elapsed
}

// formatElapsed renders a duration as X.Xs under a minute and X.Xm above.
func formatElapsed(d time.Duration) string {
	seconds := d.Seconds()
	if seconds < 0.05 {
		return "0.0s"
	}
	if seconds >= 60 {
		return fmt.Sprintf("%.1fm", seconds/60)
	}
	return fmt.Sprintf("%.1fs", seconds)
}
