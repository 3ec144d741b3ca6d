package svgexport

import (
	"fmt"
	"strconv"
	"strings"
)

// CapStyle is the line cap of a line style.
type CapStyle string

// Line caps, named as in the SVG stroke-linecap attribute.
const (
	ButtCap   CapStyle = "butt"
	RoundCap  CapStyle = "round"
	SquareCap CapStyle = "square"
)

// JoinStyle is the line join of a line style.
type JoinStyle string

// Line joins, named as in the SVG stroke-linejoin attribute.
const (
	MiterJoin JoinStyle = "miter"
	RoundJoin JoinStyle = "round"
	BevelJoin JoinStyle = "bevel"
)

// ParseCapStyle accepts a cap name in any letter case.
func ParseCapStyle(s string) (CapStyle, error) {
	switch c := CapStyle(strings.ToLower(s)); c {
	case ButtCap, RoundCap, SquareCap:
		return c, nil
	}
	return "", fmt.Errorf("unknown line cap %q", s)
}

// ParseJoinStyle accepts a join name in any letter case. The misspelled
// "mitter" used by older exporter settings is read as miter.
func ParseJoinStyle(s string) (JoinStyle, error) {
	switch j := JoinStyle(strings.ToLower(s)); j {
	case MiterJoin, RoundJoin, BevelJoin:
		return j, nil
	case "mitter":
		return MiterJoin, nil
	}
	return "", fmt.Errorf("unknown line join %q", s)
}

// LineStyle is the host's description of how a lineset's strokes look.
type LineStyle struct {
	Thickness float64
	Caps      CapStyle
	Alpha     float64
	Color     [3]float64
	// Dashes alternates dash and gap lengths; empty means a solid line.
	Dashes []float64
}

// Attr is a single XML attribute. Name is the qualified name as written,
// e.g. "inkscape:groupmode".
type Attr struct {
	Name  string
	Value string
}

// StrokeStyle is the fixed attribute record of a stroke path element.
type StrokeStyle struct {
	Width     float64
	LineCap   CapStyle
	Opacity   float64
	Color     [3]float64
	LineJoin  JoinStyle
	DashArray []float64
}

// NewStrokeStyle combines a lineset's style with the export's line join.
func NewStrokeStyle(ls LineStyle, join JoinStyle) StrokeStyle {
	return StrokeStyle{
		Width:     ls.Thickness,
		LineCap:   ls.Caps,
		Opacity:   ls.Alpha,
		Color:     ls.Color,
		LineJoin:  join,
		DashArray: ls.Dashes,
	}
}

// Attrs serializes the style in its fixed order.
func (s StrokeStyle) Attrs() []Attr {
	attrs := []Attr{
		{"fill", "none"},
		{"stroke-width", formatNumber(s.Width)},
		{"stroke-linecap", string(s.LineCap)},
		{"stroke-opacity", formatNumber(s.Opacity)},
		{"stroke", formatRGB(s.Color[0], s.Color[1], s.Color[2])},
		{"stroke-linejoin", string(s.LineJoin)},
	}
	if len(s.DashArray) > 0 {
		parts := make([]string, len(s.DashArray))
		for i, d := range s.DashArray {
			parts[i] = formatNumber(d)
		}
		attrs = append(attrs, Attr{"stroke-dasharray", strings.Join(parts, ",")})
	}
	return attrs
}

// FillStyle is the fixed attribute record of a fill path element.
type FillStyle struct {
	Color Color
}

// Attrs serializes the style in its fixed order.
func (s FillStyle) Attrs() []Attr {
	return []Attr{
		{"fill-rule", "evenodd"},
		{"stroke", "none"},
		{"fill-opacity", formatNumber(s.Color.A)},
		{"fill", formatRGB(s.Color.R, s.Color.G, s.Color.B)},
	}
}

func formatRGB(r, g, b float64) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", int(r*255), int(g*255), int(b*255))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseRGB reads back an "rgb(r, g, b)" value written by formatRGB.
func ParseRGB(s string) (r, g, b uint8, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "rgb(") || !strings.HasSuffix(s, ")") {
		return 0, 0, 0, fmt.Errorf("not an rgb() color: %q", s)
	}
	parts := strings.Split(s[4:len(s)-1], ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("not an rgb() color: %q", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("bad rgb channel %q: %w", p, err)
		}
		ch[i] = uint8(max(0, min(255, v)))
	}
	return ch[0], ch[1], ch[2], nil
}
