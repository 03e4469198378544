package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	line := []byte(`{"Time":"2024-01-01T00:00:00Z","Action":"pass","Package":"example.com/pkg","Test":"TestFoo","Elapsed":1.5}`)

	event, err := ParseEvent(line)
	require.NoError(t, err)
	assert.Equal(t, "pass", event.Action)
	assert.Equal(t, "example.com/pkg", event.Package)
	assert.Equal(t, "TestFoo", event.Test)
	assert.Equal(t, 1.5, event.Elapsed)
}

func TestParseEventRejectsNonJSON(t *testing.T) {
	_, err := ParseEvent([]byte("# example.com/pkg build output"))
	require.Error(t, err)
}

func TestSuiteLevel(t *testing.T) {
	assert.True(t, TestEvent{Action: "pass", Package: "p"}.SuiteLevel())
	assert.False(t, TestEvent{Action: "pass", Package: "p", Test: "TestFoo"}.SuiteLevel())
}

func TestTerminal(t *testing.T) {
	for _, action := range []string{"pass", "fail", "skip"} {
		assert.True(t, TestEvent{Action: action}.Terminal(), action)
	}
	for _, action := range []string{"run", "output", "start", "pause", "cont", ""} {
		assert.False(t, TestEvent{Action: action}.Terminal(), action)
	}
}
