package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWritesTextOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "measurements.txt")
	output := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(input, []byte("A;10.0\nBAD\nB;5.5\nA;20.0\n"), 0o644))

	code := run([]string{"--workers", "2", "--output-path", output, "--log-level", "error", input})
	require.Equal(t, 0, code)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "{A=10.0/15.0/20.0, B=5.5/5.5/5.5}\n", string(got))
}

func TestRunWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "measurements.txt")
	output := filepath.Join(dir, "out.jsonl")
	require.NoError(t, os.WriteFile(input, []byte("A;1.0\nA;3.0"), 0o644))

	code := run([]string{"-i", input, "-o", "jsonl", "--output-path", output, "--log-level", "error"})
	require.Equal(t, 0, code)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(got), `"key":"A","min":1,"max":3,"avg":2,"count":2`)
}

func TestRunMissingInput(t *testing.T) {
	code := run([]string{"-i", filepath.Join(t.TempDir(), "missing.txt"), "-o", "none", "--log-level", "fatal"})
	require.Equal(t, 1, code)
}

func TestRunInvalidConfiguration(t *testing.T) {
	require.Equal(t, 1, run([]string{"--workers", "0", "-i", "x.txt"}))
	require.Equal(t, 2, run([]string{"--no-such-flag"}))
}
