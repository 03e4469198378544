package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleRun = `{"Time":"2025-11-01T15:43:02.993511-05:00","Action":"start","Package":"github.com/example/test"}
{"Time":"2025-11-01T15:43:02.993565-05:00","Action":"run","Package":"github.com/example/test","Test":"TestExample"}
{"Time":"2025-11-01T15:43:02.993579-05:00","Action":"pass","Package":"github.com/example/test","Test":"TestExample","Elapsed":0.001}
{"Time":"2025-11-01T15:43:02.993590-05:00","Action":"pass","Package":"github.com/example/test","Elapsed":0.002}`

func buildBinary(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "jest")
	buildCmd := exec.Command("go", "build", "-o", binary, ".")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	require.NoError(t, buildCmd.Run(), "failed to build binary")
	return binary
}

func TestOutfileFlag(t *testing.T) {
	binary := buildBinary(t)
	outfile := filepath.Join(t.TempDir(), "raw.json")

	cmd := exec.Command(binary, "--notty", "--outfile", outfile)
	cmd.Stdin = strings.NewReader(sampleRun)
	out, err := cmd.Output()
	require.NoError(t, err)

	// Every input line lands in the outfile, JSON or not.
	require.FileExists(t, outfile)
	content, err := os.ReadFile(outfile)
	require.NoError(t, err)
	require.Equal(t, sampleRun, strings.TrimRight(string(content), "\n"))

	// The plain report still goes to stdout.
	require.Contains(t, string(out), "Test Suites: 1 passed, 1 total")
	require.Contains(t, string(out), "Tests:       1 passed, 1 total")
}

func TestOutfileWithInvalidPath(t *testing.T) {
	binary := buildBinary(t)

	cmd := exec.Command(binary, "--notty", "--outfile", "/nonexistent/directory/raw.json")
	cmd.Stdin = strings.NewReader(sampleRun)
	require.Error(t, cmd.Run(), "should fail when the output file path is invalid")
}

func TestFailingRunExitCode(t *testing.T) {
	binary := buildBinary(t)

	input := `{"Time":"2025-11-01T15:43:02.993511-05:00","Action":"start","Package":"github.com/example/test"}
{"Time":"2025-11-01T15:43:02.993565-05:00","Action":"run","Package":"github.com/example/test","Test":"TestBroken"}
{"Time":"2025-11-01T15:43:02.993570-05:00","Action":"output","Package":"github.com/example/test","Test":"TestBroken","Output":"    broken_test.go:10: boom\n"}
{"Time":"2025-11-01T15:43:02.993579-05:00","Action":"fail","Package":"github.com/example/test","Test":"TestBroken","Elapsed":0.001}
{"Time":"2025-11-01T15:43:02.993590-05:00","Action":"fail","Package":"github.com/example/test","Elapsed":0.002}`

	cmd := exec.Command(binary, "--notty")
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.Output()

	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "expected a non-zero exit, got %v", err)
	require.Equal(t, 1, exitErr.ExitCode())
	require.Contains(t, string(out), "Test Suites: 1 failed, 1 total")
	require.Contains(t, string(out), "boom")
}

func TestFailingRunStillWritesOutfile(t *testing.T) {
	binary := buildBinary(t)
	outfile := filepath.Join(t.TempDir(), "raw.json")

	input := `{"Time":"2025-11-01T15:43:02.993511-05:00","Action":"run","Package":"github.com/example/test","Test":"TestBroken"}
{"Time":"2025-11-01T15:43:02.993579-05:00","Action":"fail","Package":"github.com/example/test","Test":"TestBroken","Elapsed":0.001}
{"Time":"2025-11-01T15:43:02.993590-05:00","Action":"fail","Package":"github.com/example/test","Elapsed":0.002}`

	cmd := exec.Command(binary, "--notty", "--outfile", outfile)
	cmd.Stdin = strings.NewReader(input)
	err := cmd.Run()

	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "expected a non-zero exit, got %v", err)
	require.Equal(t, 1, exitErr.ExitCode())

	// The exit path must not skip the deferred close: every line lands.
	content, err := os.ReadFile(outfile)
	require.NoError(t, err)
	require.Equal(t, input, strings.TrimRight(string(content), "\n"))
}

func TestReplayRequiresFile(t *testing.T) {
	binary := buildBinary(t)

	cmd := exec.Command(binary, "--replay")
	require.Error(t, cmd.Run())
}
