package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasalvit/svgexport"
)

const capture = `
frame: %d
passes:
  - layer: RenderLayer
    lineset: LineSet
    style: {thickness: 2, caps: round, alpha: 1, color: [0, 0, 0]}
    strokes:
      - points: [[0, 0], [10, 10], [20, 0]]
`

func TestExportInspectPreview(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "render.toml")
	require.NoError(t, os.WriteFile(config, []byte(`
resolution_x = 40
resolution_y = 30
frame_start = 1
frame_end = 2
mode = "animation"
output = "`+filepath.ToSlash(filepath.Join(dir, "out"))+`/lines_"
`), 0o644))

	args := []string{"-config", config}
	for _, f := range []int{2, 1} {
		path := filepath.Join(dir, fmt.Sprintf("frame%d.yaml", f))
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(capture, f)), 0o644))
		args = append(args, path)
	}
	require.NoError(t, export(args))

	svg := filepath.Join(dir, "out", "lines_0001-0002.svg")
	doc, err := svgexport.OpenDocument(svg)
	require.NoError(t, err)
	require.Len(t, doc.Linesets(), 1)
	assert.Len(t, doc.Frames(doc.Linesets()[0]), 2)

	var out bytes.Buffer
	require.NoError(t, inspect(&out, []string{svg}))
	assert.Contains(t, out.String(), "RenderLayer_LineSet")
	assert.Contains(t, out.String(), "frame_0002")
	assert.Contains(t, out.String(), "1 paths")
	assert.NotContains(t, out.String(), "no timeline")

	png := filepath.Join(dir, "frame.png")
	require.NoError(t, previewFrame([]string{"-frame", "1", "-o", png, svg}))
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestCommandErrors(t *testing.T) {
	assert.Error(t, export(nil))
	assert.Error(t, inspect(&bytes.Buffer{}, nil))
	assert.Error(t, inspect(&bytes.Buffer{}, []string{filepath.Join(t.TempDir(), "missing.svg")}))
	assert.Error(t, previewFrame(nil))
}
