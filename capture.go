package svgexport

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Capture is one frame of host output recorded to a YAML file: the stroke
// geometry and resolved materials of every lineset pass.
type Capture struct {
	Frame  int           `yaml:"frame"`
	Passes []CapturePass `yaml:"passes"`
}

// CapturePass is one lineset pass of a capture.
type CapturePass struct {
	Layer   string          `yaml:"layer"`
	Lineset string          `yaml:"lineset"`
	Style   CaptureStyle    `yaml:"style"`
	Strokes []CaptureStroke `yaml:"strokes"`
	Fills   []CaptureStroke `yaml:"fills"`
}

// CaptureStyle is a lineset's line style.
type CaptureStyle struct {
	Thickness float64   `yaml:"thickness"`
	Caps      string    `yaml:"caps"`
	Alpha     float64   `yaml:"alpha"`
	Color     []float64 `yaml:"color"`
	Dashes    []float64 `yaml:"dashes"`
}

// CaptureStroke is a stroke: points as [x, y] pairs, the indexes of its
// invisible vertices and its diffuse color as [r, g, b, a].
type CaptureStroke struct {
	Shape  string      `yaml:"shape"`
	Color  []float64   `yaml:"color"`
	Points [][]float64 `yaml:"points"`
	Hidden []int       `yaml:"hidden"`
}

// LoadCapture reads a capture file.
func LoadCapture(path string) (*Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Capture
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("capture %s: %w", path, err)
	}
	return &c, nil
}

// LinesetPasses converts the capture into lineset passes.
func (c *Capture) LinesetPasses() ([]*LinesetPass, error) {
	passes := make([]*LinesetPass, 0, len(c.Passes))
	for i, cp := range c.Passes {
		p, err := cp.linesetPass()
		if err != nil {
			return nil, fmt.Errorf("pass %d (%s_%s): %w", i, cp.Layer, cp.Lineset, err)
		}
		passes = append(passes, p)
	}
	return passes, nil
}

func (cp CapturePass) linesetPass() (*LinesetPass, error) {
	caps := ButtCap
	if cp.Style.Caps != "" {
		var err error
		if caps, err = ParseCapStyle(cp.Style.Caps); err != nil {
			return nil, err
		}
	}
	p := &LinesetPass{
		Layer:   cp.Layer,
		Lineset: cp.Lineset,
		Style: LineStyle{
			Thickness: cp.Style.Thickness,
			Caps:      caps,
			Alpha:     cp.Style.Alpha,
			Dashes:    cp.Style.Dashes,
		},
	}
	switch len(cp.Style.Color) {
	case 0:
	case 3:
		copy(p.Style.Color[:], cp.Style.Color)
	default:
		return nil, fmt.Errorf("style color needs 3 channels, got %d", len(cp.Style.Color))
	}
	var err error
	if p.Strokes, err = captureStrokes(cp.Strokes); err != nil {
		return nil, fmt.Errorf("strokes: %w", err)
	}
	if p.FillStrokes, err = captureStrokes(cp.Fills); err != nil {
		return nil, fmt.Errorf("fills: %w", err)
	}
	return p, nil
}

func captureStrokes(cs []CaptureStroke) ([]*Stroke, error) {
	strokes := make([]*Stroke, 0, len(cs))
	for i, c := range cs {
		s, err := c.stroke()
		if err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
		strokes = append(strokes, s)
	}
	return strokes, nil
}

func (c CaptureStroke) stroke() (*Stroke, error) {
	s := &Stroke{Shape: c.Shape, Color: Color{A: 1}}
	switch len(c.Color) {
	case 0:
	case 3, 4:
		s.Color.R, s.Color.G, s.Color.B = c.Color[0], c.Color[1], c.Color[2]
		if len(c.Color) == 4 {
			s.Color.A = c.Color[3]
		}
	default:
		return nil, fmt.Errorf("color needs 3 or 4 channels, got %d", len(c.Color))
	}
	for i, p := range c.Points {
		if len(p) != 2 {
			return nil, fmt.Errorf("point %d has %d coordinates", i, len(p))
		}
		s.Vertices = append(s.Vertices, &Vertex{Point: Tuple{p[0], p[1]}, Visible: true})
	}
	for _, h := range c.Hidden {
		if h < 0 || h >= len(s.Vertices) {
			return nil, fmt.Errorf("hidden vertex %d out of range", h)
		}
		s.Vertices[h].Visible = false
	}
	return s, nil
}
