package engine

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineStreamParsesValidJSON(t *testing.T) {
	input := `{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg","Test":"TestFoo"}
{"Time":"2024-01-01T00:00:01Z","Action":"pass","Package":"example.com/pkg","Test":"TestFoo","Elapsed":1.5}`

	eng := NewEngine()
	events := eng.Stream(strings.NewReader(input))

	var collected []Event
	for evt := range events {
		collected = append(collected, evt)
	}

	require.Len(t, collected, 3)

	assert.Equal(t, EventTest, collected[0].Type)
	assert.Equal(t, "run", collected[0].TestEvent.Action)
	assert.Equal(t, "TestFoo", collected[0].TestEvent.Test)

	assert.Equal(t, EventTest, collected[1].Type)
	assert.Equal(t, "pass", collected[1].TestEvent.Action)
	assert.Equal(t, 1.5, collected[1].TestEvent.Elapsed)

	assert.Equal(t, EventComplete, collected[2].Type)
}

func TestEngineStreamHandlesNonJSONLines(t *testing.T) {
	input := `# example.com/pkg build output
{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg","Test":"TestFoo"}
some stray stderr line
{"Time":"2024-01-01T00:00:01Z","Action":"pass","Package":"example.com/pkg","Test":"TestFoo","Elapsed":1.5}`

	eng := NewEngine()
	events := eng.Stream(strings.NewReader(input))

	var collected []Event
	for evt := range events {
		collected = append(collected, evt)
	}

	// 2 raw lines + 2 test events + complete.
	require.Len(t, collected, 5)

	assert.Equal(t, EventRawLine, collected[0].Type)
	assert.Equal(t, "# example.com/pkg build output", string(collected[0].RawLine))
	assert.Equal(t, EventTest, collected[1].Type)
	assert.Equal(t, EventRawLine, collected[2].Type)
	assert.Equal(t, EventTest, collected[3].Type)
	assert.Equal(t, EventComplete, collected[4].Type)
}

func TestEngineRawOutputTee(t *testing.T) {
	input := `not json
{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg","Test":"TestFoo"}`

	var raw bytes.Buffer
	eng := NewEngine(WithRawOutput(&raw))
	for range eng.Stream(strings.NewReader(input)) {
	}

	// Every input line lands in the raw tee, newline-terminated.
	assert.Equal(t, input+"\n", raw.String())
}

func TestEngineJSONOutputTee(t *testing.T) {
	jsonLine := `{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg","Test":"TestFoo"}`
	input := "not json\n" + jsonLine

	var jsonOut bytes.Buffer
	eng := NewEngine(WithJSONOutput(&jsonOut))
	for range eng.Stream(strings.NewReader(input)) {
	}

	// Only the parsed line lands in the JSON tee.
	assert.Equal(t, jsonLine+"\n", jsonOut.String())
}

func TestReplayReaderPreservesContent(t *testing.T) {
	input := `{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg","Test":"TestFoo"}
not json
{"Time":"2024-01-01T00:00:00.010Z","Action":"pass","Package":"example.com/pkg","Test":"TestFoo","Elapsed":0.01}`

	rr, err := NewReplayReader(strings.NewReader(input), 0)
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = out.ReadFrom(rr)
	require.NoError(t, err)

	assert.Equal(t, input+"\n", out.String())
}

func TestReplayReaderAppliesDelay(t *testing.T) {
	// Two events 50ms apart, replayed at full rate.
	input := `{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"p","Test":"T"}
{"Time":"2024-01-01T00:00:00.050Z","Action":"pass","Package":"p","Test":"T","Elapsed":0.05}`

	rr, err := NewReplayReader(strings.NewReader(input), 1.0)
	require.NoError(t, err)

	start := time.Now()
	var out bytes.Buffer
	_, err = out.ReadFrom(rr)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
