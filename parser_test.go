package svgexport

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cheekybits/is"
)

const testSvg = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" version="1.1" width="640" height="480">
    <g id="RenderLayer_LineSet" inkscape:groupmode="lineset" inkscape:label="RenderLayer_LineSet">
        <g id="strokes" inkscape:groupmode="layer" inkscape:label="strokes">
            <path fill="none" stroke-width="2" d=" M 0.000, 480.000 10.000, 470.000 " />
        </g>
    </g>
</svg>
`

func TestParse(t *testing.T) {
	is := is.New(t)

	doc, err := ReadDocument(strings.NewReader(testSvg))
	is.NoErr(err)
	is.NotNil(doc)

	w, h, err := doc.Size()
	is.NoErr(err)
	is.Equal(w, 640.0)
	is.Equal(h, 480.0)

	linesets := doc.Linesets()
	is.Equal(len(linesets), 1)
	is.Equal(linesets[0].ID(), "RenderLayer_LineSet")
	is.Equal(linesets[0].GroupMode(), GroupLineset)

	layers := linesets[0].ChildGroups(GroupLayer)
	is.Equal(len(layers), 1)
	mode, ok := layers[0].Attr("inkscape:groupmode")
	is.True(ok)
	is.Equal(mode, "layer")
}

func TestParseWriteRoundTrip(t *testing.T) {
	is := is.New(t)

	doc, err := ReadDocument(strings.NewReader(testSvg))
	is.NoErr(err)
	var buf bytes.Buffer
	is.NoErr(doc.Write(&buf))
	is.Equal(buf.String(), testSvg)
}

func TestParseDeclaredCharset(t *testing.T) {
	is := is.New(t)

	src := strings.Replace(testSvg, `encoding="UTF-8"`, `encoding="ascii"`, 1)
	doc, err := ReadDocument(strings.NewReader(src))
	is.NoErr(err)
	is.Equal(len(doc.Linesets()), 1)
}

func TestParseMalformed(t *testing.T) {
	for name, src := range map[string]string{
		"truncated": testSvg[:len(testSvg)/2],
		"empty":     "",
		"not svg":   `<html><body/></html>`,
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			_, err := ReadDocument(strings.NewReader(src))
			var mde *MalformedDocumentError
			is.True(errors.As(err, &mde))
		})
	}
}

func TestOpenDocument(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()

	_, err := OpenDocument(filepath.Join(dir, "missing.svg"))
	var pe *PathError
	is.True(errors.As(err, &pe))
	is.Equal(pe.Op, "open")

	bad := filepath.Join(dir, "bad.svg")
	is.NoErr(os.WriteFile(bad, []byte("<svg><g>"), 0o644))
	_, err = OpenDocument(bad)
	var mde *MalformedDocumentError
	is.True(errors.As(err, &mde))
	is.Equal(mde.Path, bad)
}
