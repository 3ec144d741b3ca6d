// Package preview rasterizes exported documents, one frame at a time, by
// wrapping rasterx.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/srwiley/rasterx"
	"github.com/vasalvit/svgexport"
	"golang.org/x/image/math/fixed"
)

// AllFrames draws every path of the document regardless of frame groups.
const AllFrames = -1

// Options controls a rasterization.
type Options struct {
	// Frame selects the frame group drawn in each lineset, or AllFrames.
	Frame int
	// Background is painted first when set.
	Background color.Color
	// Scale multiplies the document size.
	Scale float64
}

// Renderer draws paths into an image. The filler and the dasher share the
// scanner but are kept separate to avoid shared state.
type Renderer struct {
	scale  float64
	filler *rasterx.Filler
	dasher *rasterx.Dasher
}

// NewRenderer returns a renderer drawing into img.
func NewRenderer(img *image.RGBA, scale float64) *Renderer {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &Renderer{
		scale:  scale,
		filler: rasterx.NewFiller(w, h, scanner),
		dasher: rasterx.NewDasher(w, h, scanner),
	}
}

// Rasterize draws one frame of the document into a new image the size of
// the document's root.
func Rasterize(doc *svgexport.Document, opts Options) (*image.RGBA, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	w, h, err := doc.Size()
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w*opts.Scale), int(h*opts.Scale)))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	rd := NewRenderer(img, opts.Scale)
	for _, p := range framePaths(doc, opts.Frame) {
		if err := rd.DrawPath(p); err != nil {
			return nil, fmt.Errorf("path in %s: %w", p.ID(), err)
		}
	}
	return img, nil
}

func isPath(n *svgexport.Node) bool { return n.Name == "path" }

func framePaths(doc *svgexport.Document, frame int) []*svgexport.Node {
	if frame == AllFrames {
		return doc.Root.FindAll(isPath)
	}
	var paths []*svgexport.Node
	for _, lineset := range doc.Linesets() {
		for _, f := range doc.Frames(lineset) {
			if f.ID() == svgexport.FrameID(frame) {
				paths = append(paths, f.FindAll(isPath)...)
			}
		}
	}
	return paths
}

// DrawPath fills and then strokes one path element according to its
// presentation attributes.
func (rd *Renderer) DrawPath(n *svgexport.Node) error {
	d, _ := n.Attr("d")
	data, err := svgexport.ParsePathData(d)
	if err != nil {
		return err
	}
	if fill, ok := n.Attr("fill"); ok && fill != "none" {
		c, err := paint(fill, attrFloat(n, "fill-opacity", 1))
		if err != nil {
			return err
		}
		rule, _ := n.Attr("fill-rule")
		rd.filler.Clear()
		rd.filler.SetWinding(rule != "evenodd")
		rd.filler.Scanner.SetColor(c)
		rd.trace(data.Instructions, rd.filler)
		rd.filler.Draw()
	}
	if stroke, ok := n.Attr("stroke"); ok && stroke != "none" {
		c, err := paint(stroke, attrFloat(n, "stroke-opacity", 1))
		if err != nil {
			return err
		}
		rd.dasher.Clear()
		rd.setStroke(n)
		rd.dasher.Scanner.SetColor(c)
		rd.trace(data.Instructions, rd.dasher)
		rd.dasher.Draw()
	}
	return nil
}

// adder is the path building part of rasterx.Filler and rasterx.Dasher.
type adder interface {
	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	Stop(closeLoop bool)
}

func (rd *Renderer) trace(instrs []*svgexport.DrawingInstruction, a adder) {
	open := false
	for _, di := range instrs {
		switch di.Kind {
		case svgexport.MoveInstruction:
			if open {
				a.Stop(false)
			}
			a.Start(rd.point(*di.M))
			open = true
		case svgexport.LineInstruction:
			a.Line(rd.point(*di.M))
		case svgexport.CloseInstruction:
			a.Stop(true)
			open = false
		}
	}
	if open {
		a.Stop(false)
	}
}

func (rd *Renderer) point(t svgexport.Tuple) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(t[0] * rd.scale), Y: toFixed(t[1] * rd.scale)}
}

func toFixed(f float64) fixed.Int26_6 {
	return fixed.Int26_6(f * 64)
}

var (
	capToFunc = map[string]rasterx.CapFunc{
		"butt":   rasterx.ButtCap,
		"round":  rasterx.RoundCap,
		"square": rasterx.SquareCap,
	}
	joinToJoin = map[string]rasterx.JoinMode{
		"miter": rasterx.Miter,
		"round": rasterx.Round,
		"bevel": rasterx.Bevel,
	}
)

func (rd *Renderer) setStroke(n *svgexport.Node) {
	width := attrFloat(n, "stroke-width", 1) * rd.scale
	lc, _ := n.Attr("stroke-linecap")
	capFn, ok := capToFunc[lc]
	if !ok {
		capFn = rasterx.ButtCap
	}
	lj, _ := n.Attr("stroke-linejoin")
	join, ok := joinToJoin[lj]
	if !ok {
		join = rasterx.Miter
	}
	var dashes []float64
	if da, ok := n.Attr("stroke-dasharray"); ok {
		for _, f := range strings.Split(da, ",") {
			if v, err := strconv.ParseFloat(strings.TrimSpace(f), 64); err == nil {
				dashes = append(dashes, v*rd.scale)
			}
		}
	}
	rd.dasher.SetStroke(toFixed(width), toFixed(4), capFn, capFn, rasterx.FlatGap, join, dashes, 0)
}

func paint(value string, opacity float64) (color.NRGBA, error) {
	r, g, b, err := svgexport.ParseRGB(value)
	if err != nil {
		return color.NRGBA{}, err
	}
	opacity = max(0, min(1, opacity))
	return color.NRGBA{R: r, G: g, B: b, A: uint8(opacity * 255)}, nil
}

func attrFloat(n *svgexport.Node, name string, dflt float64) float64 {
	v, ok := n.Attr(name)
	if !ok {
		return dflt
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return dflt
	}
	return f
}

// WritePNG encodes the image as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
