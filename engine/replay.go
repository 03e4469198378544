package engine

import (
	"bufio"
	"io"
	"time"

	"github.com/chrispicato/jest/parser"
)

// timedLine is an input line plus the timestamp it originally occurred at.
// Lines without a usable timestamp inherit the previous line's.
type timedLine struct {
	line      []byte
	timestamp time.Time
}

// ReplayReader replays a recorded `go test -json` stream with the original
// inter-event delays, scaled by a rate multiplier. It drives the live
// elapsed-time and progress rendering from a file the same way a real run
// would from a pipe.
type ReplayReader struct {
	lines      []timedLine
	rate       float64
	currentIdx int
	lineBuffer []byte
	bufferPos  int
	firstRead  bool
	lastEvent  time.Time
}

// NewReplayReader reads all of r upfront and returns a reader that emits the
// same lines with timing delays. rate 1 replays at original speed, 0.5 at
// double speed, 0 with no delays at all.
func NewReplayReader(r io.Reader, rate float64) (*ReplayReader, error) {
	var lines []timedLine
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		lineCopy := make([]byte, len(line))
		copy(lineCopy, line)

		event, err := parser.ParseEvent(lineCopy)
		if err == nil && !event.Time.IsZero() {
			lines = append(lines, timedLine{line: lineCopy, timestamp: event.Time})
			continue
		}

		var ts time.Time
		if len(lines) > 0 {
			ts = lines[len(lines)-1].timestamp
		}
		lines = append(lines, timedLine{line: lineCopy, timestamp: ts})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &ReplayReader{
		lines:     lines,
		rate:      rate,
		firstRead: true,
	}, nil
}

// Read implements io.Reader, returning data line by line and sleeping between
// lines according to the recorded timestamps.
func (r *ReplayReader) Read(p []byte) (n int, err error) {
	if r.bufferPos < len(r.lineBuffer) {
		n = copy(p, r.lineBuffer[r.bufferPos:])
		r.bufferPos += n
		return n, nil
	}

	if r.currentIdx >= len(r.lines) {
		return 0, io.EOF
	}

	current := r.lines[r.currentIdx]

	if !r.firstRead && r.rate > 0 && !r.lastEvent.IsZero() && !current.timestamp.IsZero() {
		if delay := current.timestamp.Sub(r.lastEvent); delay > 0 {
			time.Sleep(time.Duration(float64(delay) * r.rate))
		}
	}

	r.firstRead = false
	if !current.timestamp.IsZero() {
		r.lastEvent = current.timestamp
	}

	r.lineBuffer = make([]byte, len(current.line)+1)
	copy(r.lineBuffer, current.line)
	r.lineBuffer[len(current.line)] = '\n'
	r.bufferPos = 0
	r.currentIdx++

	n = copy(p, r.lineBuffer[r.bufferPos:])
	r.bufferPos += n

	return n, nil
}
