package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Polynomial", []string{"2x^2+1", "0", "1.5"}, "f(0) = 1\nf(1.5) = 5.5\n"},
		{"Function", []string{"sqrt(x)", "4"}, "f(4) = 2\n"},
		{"Undefined", []string{"1/x", "0", "2"}, "f(0) = undefined\nf(2) = 0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"eval"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	_, err := run(t, "eval", "foo(x)", "1")
	assert.ErrorContains(t, err, "unknown function: foo")

	_, err = run(t, "eval", "x", "abc")
	assert.ErrorContains(t, err, `invalid x value "abc"`)

	_, err = run(t, "eval", "x")
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	out, err := run(t, "detect", "1/x", "foo(x)", "x^2")
	require.NoError(t, err)

	assert.Contains(t, out, "[0] f(x) = 1/x  1 V.A. · 1 H.A.")
	assert.Contains(t, out, "[1] f(x) = foo(x)  Error: unknown function: foo")
	assert.Contains(t, out, "[2] f(x) = x^2\n")
	assert.Contains(t, out, ">>> Features <<<")
	assert.Contains(t, out, "  V.A. at x = 0.000\n")
}

func TestDetect_WindowFlags(t *testing.T) {
	out, err := run(t, "detect", "1/(x-30)", "--x-min", "20", "--x-max", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "V.A. at x = 30.000")

	_, err = run(t, "detect", "x", "--x-min", "5", "--x-max", "1")
	assert.Error(t, err)
}

func TestDetect_Errors(t *testing.T) {
	_, err := run(t, "detect")
	assert.ErrorContains(t, err, "no expressions given")

	_, err = run(t, "detect", "x", "--watch")
	assert.ErrorContains(t, err, "--watch requires --config")

	_, err = run(t, "detect", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to load config file")
}

func TestDetect_Report(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	out, err := run(t, "detect", "(x^2-1)/(x-1)", "foo(x)", "--report", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal(data, &r))
	require.Len(t, r.Functions, 2)

	hole := r.Functions[0]
	assert.Equal(t, "(x^2-1)/(x-1)", hole.Expression)
	assert.Empty(t, hole.Error)
	require.Len(t, hole.Holes, 1)
	assert.InDelta(t, 1.0, hole.Holes[0].X, 1e-9)
	assert.InDelta(t, 2.0, hole.Holes[0].Y, 1e-6)

	bad := r.Functions[1]
	assert.Equal(t, "unknown function: foo", bad.Error)
	assert.Empty(t, bad.Normalized)
	assert.NotNil(t, bad.Asymptotes)
}

func TestDetect_WriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	first, err := run(t, "detect", "1/x", "x^2", "--x-min", "-5", "--write-config", path)
	require.NoError(t, err)
	assert.Contains(t, first, "Configuration written to "+path)

	second, err := run(t, "detect", "--config", path)
	require.NoError(t, err)

	// The reloaded session prints the same definitions and features.
	want := strings.SplitN(first, "Configuration written", 2)[0]
	assert.Equal(t, want, second)

	// Arguments are appended to the loaded functions.
	third, err := run(t, "detect", "--config", path, "x+1")
	require.NoError(t, err)
	assert.Contains(t, third, "[2] f(x) = x+1")
}

func TestSample(t *testing.T) {
	out, err := run(t, "sample", "1/x", "--samples", "4")
	require.NoError(t, err)

	want := strings.Join([]string{
		"x,y,segment",
		"-10.0000,-0.100000,0",
		"-5.0000,-0.200000,0",
		"5.0000,0.200000,1",
		"10.0000,0.100000,1",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestSample_Resolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.csv")
	_, err := run(t, "sample", "x", "--samples", "4", "--x-min", "0", "--x-max", "4", "--resolution", "2", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "x,y,segment", lines[0])
	// Five samples at 0..4 fall into bins [0,2), [2,4) and [4,6).
	assert.Len(t, lines, 4)
}

func TestSample_Errors(t *testing.T) {
	_, err := run(t, "sample", "x", "--samples", "0")
	assert.ErrorContains(t, err, "invalid sample count")

	_, err = run(t, "sample", "(x")
	assert.ErrorContains(t, err, "missing closing parenthesis")
}

func TestBench(t *testing.T) {
	out, err := run(t, "bench", "sqrt(x)", "--evaluations", "200", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Benchmarking f(x) = sqrt(x)")
	assert.Contains(t, out, ">>> Results <<<")
	assert.Contains(t, out, "Evaluations: 200 (")
}

func TestRemote_RequiresNodes(t *testing.T) {
	_, err := run(t, "remote", "detect", "1/x")
	assert.ErrorContains(t, err, "--nodes is required")
}

func TestLogLevel_Invalid(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--log-level", "loud", "eval", "x", "1"})
	assert.ErrorContains(t, root.Execute(), "invalid --log-level")
}
