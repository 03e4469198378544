package parser

import (
	"encoding/json"
	"time"
)

// TestEvent is a single decoded event from a `go test -json` stream.
type TestEvent struct {
	Time       time.Time `json:"Time"`
	Action     string    `json:"Action"`
	Package    string    `json:"Package"`
	Test       string    `json:"Test,omitempty"`
	Output     string    `json:"Output,omitempty"`
	Elapsed    float64   `json:"Elapsed,omitempty"`
	Source     string    `json:"Source,omitempty"`
	ImportPath string    `json:"ImportPath,omitempty"`
}

// SuiteLevel reports whether the event applies to the whole package rather
// than an individual test.
func (e TestEvent) SuiteLevel() bool {
	return e.Test == ""
}

// Terminal reports whether the event carries a final outcome.
func (e TestEvent) Terminal() bool {
	switch e.Action {
	case "pass", "fail", "skip":
		return true
	}
	return false
}

// ParseEvent decodes a single line of `go test -json` output.
func ParseEvent(line []byte) (TestEvent, error) {
	var event TestEvent
	if err := json.Unmarshal(line, &event); err != nil {
		return event, err
	}
	return event, nil
}
