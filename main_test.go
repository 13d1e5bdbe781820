package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalPaint/internal/state"
)

const savedLog = `{"version":2,"samples":[
 {"x":20,"y":10,"size":10,"color":"#A51DAB","erase":false,"from":{"x":10,"y":10}},
 {"x":30,"y":20,"size":10,"color":"#A51DAB","erase":false}
]}`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "localpaint.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logging:\n  output: none\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeLog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canvas.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRender_Outputs(t *testing.T) {
	in := writeLog(t, savedLog)
	dir := t.TempDir()

	for name, magic := range map[string][]byte{
		"out.jpeg": {0xFF, 0xD8},
		"out.png":  []byte("\x89PNG"),
		"out.pdf":  []byte("%PDF-"),
	} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(dir, name)
			_, err := runCLI(t, "render", in, out, "--width", "64", "--height", "48")
			require.NoError(t, err)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, magic))
		})
	}
}

func TestRender_Trace(t *testing.T) {
	in := writeLog(t, savedLog)
	out, err := runCLI(t, "render", in, filepath.Join(t.TempDir(), "out.png"),
		"--width", "64", "--height", "48", "--background", "000000", "--trace")
	require.NoError(t, err)
	assert.Equal(t,
		"clear #000000\n"+
			"segment (10,10)->(20,10) width=10 color=#A51DAB\n"+
			"segment (20,10)->(30,20) width=10 color=#A51DAB\n",
		out)
}

func TestRender_Errors(t *testing.T) {
	_, err := runCLI(t, "render", writeLog(t, `[{"x":1}]`), filepath.Join(t.TempDir(), "out.jpeg"))
	var malformed *state.MalformedLogError
	assert.ErrorAs(t, err, &malformed)

	_, err = runCLI(t, "render", writeLog(t, savedLog), filepath.Join(t.TempDir(), "out.gif"))
	assert.ErrorContains(t, err, "unsupported output type")

	_, err = runCLI(t, "render", writeLog(t, savedLog), filepath.Join(t.TempDir(), "out.jpeg"), "--width", "0")
	assert.ErrorIs(t, err, state.ErrSurfaceUnavailable)
}
