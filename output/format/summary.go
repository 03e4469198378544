package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SuiteCounts aggregates per-suite (package) outcomes.
type SuiteCounts struct {
	Failed  int
	Passed  int
	Pending int
	Errored int // suites that could not run (build/setup failure)
	Total   int
}

// Run is the number of suites that actually executed.
func (s SuiteCounts) Run() int {
	return s.Total - s.Errored
}

// TestCounts aggregates individual test outcomes.
type TestCounts struct {
	Failed  int
	Passed  int
	Pending int
	Total   int
}

// SnapshotCounts aggregates golden-file comparison outcomes.
type SnapshotCounts struct {
	Added     int
	Unmatched int
	Matched   int
	Updated   int
	Total     int
}

// AggregateCounts is a read-only snapshot of a test run, supplied whole by the
// results collector. Nothing in this package mutates it.
type AggregateCounts struct {
	Suites    SuiteCounts
	Tests     TestCounts
	Snapshots SnapshotCounts
	StartTime time.Time
}

// Options controls optional summary features. Zero values disable the
// corresponding feature: no estimate shown, no bar drawn, no rounding,
// width unconstrained.
type Options struct {
	EstimatedSeconds int  // enables ", estimated Ns" and the progress bar
	RoundTime        bool // floor the displayed/compared runtime to whole seconds
	Width            int  // caps the progress bar width
}

// Label column shared by all summary lines so values align.
const (
	labelSuites    = "Test Suites: "
	labelTests     = "Tests:       "
	labelSnapshots = "Snapshots:   "
	labelTime      = "Time:        "
)

// Summary renders the four-line run summary: suites, tests, snapshots, and
// time (with an optional progress bar on a fifth line). The elapsed time is
// now minus counts.StartTime.
func Summary(counts AggregateCounts, opts Options, now time.Time, style Styler) string {
	if style == nil {
		style = PlainStyler
	}

	// Millisecond precision, matching the timestamps the collector records.
	runTime := float64(now.Sub(counts.StartTime).Milliseconds()) / 1000
	if opts.RoundTime {
		runTime = math.Floor(runTime)
	}

	var b strings.Builder
	b.WriteString(suitesLine(counts.Suites, style))
	b.WriteString("\n")
	b.WriteString(testsLine(counts.Tests, style))
	b.WriteString("\n")
	b.WriteString(snapshotsLine(counts.Snapshots, style))
	b.WriteString("\n")
	b.WriteString(RenderTime(runTime, opts.EstimatedSeconds, opts.Width, style))
	return b.String()
}

func suitesLine(c SuiteCounts, style Styler) string {
	clauses := countClauses(c.Failed, c.Pending, c.Passed, style)
	var total string
	if c.Run() != c.Total {
		total = fmt.Sprintf("%d of %d total", c.Run(), c.Total)
	} else {
		total = fmt.Sprintf("%d total", c.Total)
	}
	return style(StyleBold, labelSuites) + strings.Join(append(clauses, total), ", ")
}

func testsLine(c TestCounts, style Styler) string {
	clauses := countClauses(c.Failed, c.Pending, c.Passed, style)
	total := fmt.Sprintf("%d total", c.Total)
	return style(StyleBold, labelTests) + strings.Join(append(clauses, total), ", ")
}

func snapshotsLine(c SnapshotCounts, style Styler) string {
	var clauses []string
	if c.Unmatched > 0 {
		clauses = append(clauses, style(StyleFail, fmt.Sprintf("%d failed", c.Unmatched)))
	}
	if c.Updated > 0 {
		clauses = append(clauses, style(StylePass, fmt.Sprintf("%d updated", c.Updated)))
	}
	if c.Added > 0 {
		clauses = append(clauses, style(StylePass, fmt.Sprintf("%d added", c.Added)))
	}
	if c.Matched > 0 {
		clauses = append(clauses, style(StylePass, fmt.Sprintf("%d passed", c.Matched)))
	}
	total := fmt.Sprintf("%d total", c.Total)
	return style(StyleBold, labelSnapshots) + strings.Join(append(clauses, total), ", ")
}

// countClauses builds the shared failed/skipped/passed clause list. A clause
// is included only when its count is nonzero; order is fixed.
func countClauses(failed, pending, passed int, style Styler) []string {
	var clauses []string
	if failed > 0 {
		clauses = append(clauses, style(StyleFail, fmt.Sprintf("%d failed", failed)))
	}
	if pending > 0 {
		clauses = append(clauses, style(StyleSkip, fmt.Sprintf("%d skipped", pending)))
	}
	if passed > 0 {
		clauses = append(clauses, style(StylePass, fmt.Sprintf("%d passed", passed)))
	}
	return clauses
}

// formatSeconds renders a runtime value with no trailing zeros, so a floored
// runtime reads "5s" and an unrounded one "5.234s".
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}
