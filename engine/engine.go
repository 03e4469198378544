package engine

import (
	"bufio"
	"io"

	"github.com/chrispicato/jest/parser"
)

// EventType identifies the kind of event emitted by the engine.
type EventType string

const (
	EventRawLine  EventType = "raw"      // line that did not parse as a test event
	EventTest     EventType = "test"     // parsed `go test -json` event
	EventError    EventType = "error"    // read error on the input stream
	EventComplete EventType = "complete" // input exhausted
)

// Event is a single item on the engine's output channel.
type Event struct {
	Type      EventType
	RawLine   []byte           // set for EventRawLine
	TestEvent parser.TestEvent // set for EventTest
	Error     error            // set for EventError
}

// Engine turns a raw input stream into a channel of typed events. It holds no
// test state itself; consumers aggregate.
type Engine struct {
	rawWriter  io.Writer
	jsonWriter io.Writer
}

// Option configures the engine.
type Option func(*Engine)

// WithRawOutput tees every input line (JSON or not) to w.
func WithRawOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.rawWriter = w
	}
}

// WithJSONOutput tees only the lines that parsed as test events to w.
func WithJSONOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.jsonWriter = w
	}
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stream reads input line by line and emits events on the returned channel.
// The channel always ends with EventComplete and is then closed.
func (e *Engine) Stream(input io.Reader) <-chan Event {
	events := make(chan Event, 100)

	go func() {
		defer close(events)

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			line := scanner.Bytes()

			if e.rawWriter != nil {
				e.rawWriter.Write(line)
				e.rawWriter.Write([]byte("\n"))
			}

			testEvent, err := parser.ParseEvent(line)
			if err != nil {
				// The scanner reuses its buffer, so raw lines must be copied
				// before they cross the channel.
				lineCopy := make([]byte, len(line))
				copy(lineCopy, line)
				events <- Event{
					Type:    EventRawLine,
					RawLine: lineCopy,
				}
				continue
			}

			if e.jsonWriter != nil {
				e.jsonWriter.Write(line)
				e.jsonWriter.Write([]byte("\n"))
			}

			events <- Event{
				Type:      EventTest,
				TestEvent: testEvent,
			}
		}

		if err := scanner.Err(); err != nil {
			events <- Event{
				Type:  EventError,
				Error: err,
			}
		}

		events <- Event{
			Type: EventComplete,
		}
	}()

	return events
}
