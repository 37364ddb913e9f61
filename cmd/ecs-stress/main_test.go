package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errClosedOutput = errors.New("output closed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errClosedOutput }

func stressArgs(dir string, extra ...string) []string {
	return append([]string{
		"-duration", "20ms",
		"-entities", "20",
		"-churn", "2",
		"-log-level", "error",
		"-profile", "mem",
		"-profile-dir", dir,
	}, extra...)
}

func TestExecuteWritesReport(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	require.NoError(t, execute(stressArgs(dir), &out))

	assert.Contains(t, out.String(), "--- Stress Test Report ---")
	assert.Contains(t, out.String(), "--- End of Report ---")
	assert.FileExists(t, filepath.Join(dir, "mem.pprof"))
}

func TestExecuteReturnsErrors(t *testing.T) {
	t.Run("invalid flag value", func(t *testing.T) {
		err := execute([]string{"-profile", "trace"}, &bytes.Buffer{})
		assert.ErrorContains(t, err, "unknown profile mode")
	})

	t.Run("missing config", func(t *testing.T) {
		err := execute([]string{"-config", filepath.Join(t.TempDir(), "nope.toml")}, &bytes.Buffer{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("failure after profiling started still stops the profiler", func(t *testing.T) {
		dir := t.TempDir()

		err := execute(stressArgs(dir), failingWriter{})
		require.ErrorIs(t, err, errClosedOutput)
		assert.FileExists(t, filepath.Join(dir, "mem.pprof"))

		// A second profiled run only works if the first one was stopped.
		require.NoError(t, execute(stressArgs(t.TempDir()), &bytes.Buffer{}))
	})
}
