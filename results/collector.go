package results

import (
	"strings"
	"sync"
	"time"

	"github.com/chrispicato/jest/output/format"
	"github.com/chrispicato/jest/parser"
)

// Status is the lifecycle state of a suite or test.
type Status string

const (
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusErrored Status = "errored" // suite failed before any test ran
)

// SuiteResult is the state of one package (suite) under test.
type SuiteResult struct {
	Path      string // package import path
	Status    Status
	StartTime time.Time
	Elapsed   time.Duration
	Output    string // final suite output line (coverage etc.)
	TestOrder []string
	Passed    int
	Failed    int
	Skipped   int
	Running   int
}

// TestResult is the state of a single test.
type TestResult struct {
	Suite     string
	Name      string
	Status    Status
	StartTime time.Time
	Elapsed   time.Duration
	Output    []string // failure/skip messages
}

// snapshot returns a detached copy safe to hand outside the lock.
func (s *SuiteResult) snapshot() SuiteResult {
	out := *s
	out.TestOrder = append([]string(nil), s.TestOrder...)
	return out
}

// snapshot returns a detached copy safe to hand outside the lock.
func (t *TestResult) snapshot() TestResult {
	out := *t
	out.Output = append([]string(nil), t.Output...)
	return out
}

// SnapshotOutcome classifies one golden-file comparison.
type SnapshotOutcome int

const (
	SnapshotAdded SnapshotOutcome = iota
	SnapshotUnmatched
	SnapshotMatched
	SnapshotUpdated
)

// Collector aggregates parser events into suite, test and snapshot state and
// hands out immutable AggregateCounts snapshots for rendering. It is safe for
// concurrent use: Apply can run in one goroutine while renderers read. Every
// accessor returns copies, never pointers into the locked state.
//
// Snapshot counts are not part of the `go test -json` stream; golden-file
// tooling feeds them through RecordSnapshot. Without that they stay zero and
// the summary reports "0 total".
type Collector struct {
	mu         sync.RWMutex
	suites     map[string]*SuiteResult
	suiteOrder []string
	tests      map[string]*TestResult
	testOrder  []string
	snapshots  format.SnapshotCounts
	nonTest    []string
	startTime  time.Time
	endTime    time.Time
	finished   bool
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		suites: make(map[string]*SuiteResult),
		tests:  make(map[string]*TestResult),
	}
}

// Apply folds a single test event into the collector state.
func (c *Collector) Apply(ev parser.TestEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	when := ev.Time
	if when.IsZero() {
		when = time.Now()
	}
	if c.startTime.IsZero() {
		c.startTime = when
	}
	if when.After(c.endTime) {
		c.endTime = when
	}

	if ev.SuiteLevel() {
		c.applySuiteEvent(ev, when)
		return
	}
	c.applyTestEvent(ev, when)
}

func (c *Collector) applySuiteEvent(ev parser.TestEvent, when time.Time) {
	suite := c.suite(ev.Package, when)

	switch ev.Action {
	case "output":
		if line := strings.TrimRight(ev.Output, "\n"); line != "" {
			suite.Output = line
		}

	case "pass":
		suite.Status = StatusPassed
		suite.Elapsed = time.Duration(ev.Elapsed * float64(time.Second))

	case "fail":
		// A failing package that never ran a test is a build or setup
		// failure: the suite did not actually run.
		if suite.Passed+suite.Failed+suite.Skipped+suite.Running == 0 {
			suite.Status = StatusErrored
		} else {
			suite.Status = StatusFailed
		}
		suite.Elapsed = time.Duration(ev.Elapsed * float64(time.Second))

	case "skip":
		suite.Status = StatusSkipped
		suite.Elapsed = time.Duration(ev.Elapsed * float64(time.Second))
	}
}

func (c *Collector) applyTestEvent(ev parser.TestEvent, when time.Time) {
	suite := c.suite(ev.Package, when)

	key := ev.Package + "/" + ev.Test
	test, ok := c.tests[key]
	if !ok {
		test = &TestResult{
			Suite:     ev.Package,
			Name:      ev.Test,
			Status:    StatusRunning,
			StartTime: when,
		}
		c.tests[key] = test
		c.testOrder = append(c.testOrder, key)
		suite.TestOrder = append(suite.TestOrder, ev.Test)
		suite.Running++
	}

	switch {
	case ev.Action == "output":
		if ev.Output != "" {
			test.Output = append(test.Output, strings.TrimRight(ev.Output, "\n"))
		}

	case ev.Terminal():
		if test.Status == StatusRunning {
			suite.Running--
		}
		test.Elapsed = time.Duration(ev.Elapsed * float64(time.Second))
		switch ev.Action {
		case "pass":
			test.Status = StatusPassed
			suite.Passed++
		case "fail":
			test.Status = StatusFailed
			suite.Failed++
		case "skip":
			test.Status = StatusSkipped
			suite.Skipped++
		}
	}
}

// suite returns the tracked suite, creating it on first sight. Callers must
// hold the write lock.
func (c *Collector) suite(path string, when time.Time) *SuiteResult {
	suite, ok := c.suites[path]
	if !ok {
		suite = &SuiteResult{
			Path:      path,
			Status:    StatusRunning,
			StartTime: when,
		}
		c.suites[path] = suite
		c.suiteOrder = append(c.suiteOrder, path)
	}
	return suite
}

// AddNonTestOutput records a line that belongs to no test (build errors and
// other stray output).
func (c *Collector) AddNonTestOutput(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonTest = append(c.nonTest, line)
}

// RecordSnapshot counts one golden-file comparison outcome.
func (c *Collector) RecordSnapshot(outcome SnapshotOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch outcome {
	case SnapshotAdded:
		c.snapshots.Added++
	case SnapshotUnmatched:
		c.snapshots.Unmatched++
	case SnapshotMatched:
		c.snapshots.Matched++
	case SnapshotUpdated:
		c.snapshots.Updated++
	}
	c.snapshots.Total++
}

// Finish marks the run complete, fixing the end time if events never carried
// timestamps.
func (c *Collector) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.finished = true
	if c.endTime.IsZero() {
		c.endTime = time.Now()
	}
}

// Finished reports whether Finish has been called.
func (c *Collector) Finished() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.finished
}

// StartTime returns when the first event was seen (zero before that).
func (c *Collector) StartTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startTime
}

// EndTime returns the timestamp of the latest event seen so far.
func (c *Collector) EndTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endTime
}

// Counts builds a fresh AggregateCounts snapshot for the summary composer.
func (c *Collector) Counts() format.AggregateCounts {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := format.AggregateCounts{
		Snapshots: c.snapshots,
		StartTime: c.startTime,
	}

	for _, path := range c.suiteOrder {
		suite := c.suites[path]
		counts.Suites.Total++
		switch suite.Status {
		case StatusPassed:
			counts.Suites.Passed++
		case StatusFailed:
			counts.Suites.Failed++
		case StatusErrored:
			counts.Suites.Failed++
			counts.Suites.Errored++
		case StatusSkipped:
			counts.Suites.Pending++
		}
	}

	for _, key := range c.testOrder {
		test := c.tests[key]
		counts.Tests.Total++
		switch test.Status {
		case StatusPassed:
			counts.Tests.Passed++
		case StatusFailed:
			counts.Tests.Failed++
		case StatusSkipped:
			counts.Tests.Pending++
		}
	}

	return counts
}

// Suites returns copies of the tracked suites in chronological order.
func (c *Collector) Suites() []SuiteResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	suites := make([]SuiteResult, 0, len(c.suiteOrder))
	for _, path := range c.suiteOrder {
		suites = append(suites, c.suites[path].snapshot())
	}
	return suites
}

// Test looks up a test by suite path and name, returning a copy.
func (c *Collector) Test(suite, name string) (TestResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	test, ok := c.tests[suite+"/"+name]
	if !ok {
		return TestResult{}, false
	}
	return test.snapshot(), true
}

// Failures returns copies of the failed tests in the order they started.
func (c *Collector) Failures() []TestResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var failures []TestResult
	for _, key := range c.testOrder {
		if test := c.tests[key]; test.Status == StatusFailed {
			failures = append(failures, test.snapshot())
		}
	}
	return failures
}

// HasFailures reports whether any suite or test failed.
func (c *Collector) HasFailures() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, suite := range c.suites {
		if suite.Status == StatusFailed || suite.Status == StatusErrored {
			return true
		}
	}
	for _, test := range c.tests {
		if test.Status == StatusFailed {
			return true
		}
	}
	return false
}

// NonTestOutput returns the recorded stray output lines.
func (c *Collector) NonTestOutput() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.nonTest))
	copy(out, c.nonTest)
	return out
}
