package svgexport

import "math"

// ClosingEpsilon is the distance in render units above which a stroke's
// start and end points are considered apart, so the closing edge counts
// towards its winding.
const ClosingEpsilon = 1e-3

// Tuple is an X,Y coordinate
type Tuple [2]float64

// Vertex is a single stroke vertex in render space. Visibility is mutable:
// a fill pass hides the vertices it consumed so later stroke passes skip them.
type Vertex struct {
	Point   Tuple
	Visible bool
}

// Color is a diffuse color with alpha, every channel in [0,1].
type Color struct {
	R, G, B, A float64
}

// Stroke is an ordered polyline produced by the host for one pass.
type Stroke struct {
	Vertices []*Vertex
	Color    Color
	// Shape is the identity of the object the stroke was traced from.
	Shape string
}

// NewStroke builds a stroke of visible vertices.
func NewStroke(color Color, points ...Tuple) *Stroke {
	s := &Stroke{Color: color}
	for _, p := range points {
		s.Vertices = append(s.Vertices, &Vertex{Point: p, Visible: true})
	}
	return s
}

// Points returns the stroke's vertex positions in order.
func (s *Stroke) Points() []Tuple {
	pts := make([]Tuple, len(s.Vertices))
	for i, v := range s.Vertices {
		pts[i] = v.Point
	}
	return pts
}

// Box is an axis aligned bounding box.
type Box struct {
	Min, Max Tuple
}

// Contains reports whether o lies within b, comparing corners only.
func (b Box) Contains(o Box) bool {
	return o.Min[0] >= b.Min[0] && o.Min[1] >= b.Min[1] &&
		o.Max[0] <= b.Max[0] && o.Max[1] <= b.Max[1]
}

// BoundingBox returns the axis aligned bounds of the stroke's vertices.
// An empty stroke yields the zero box.
func BoundingBox(s *Stroke) Box {
	if len(s.Vertices) == 0 {
		return Box{}
	}
	b := Box{
		Min: Tuple{math.Inf(1), math.Inf(1)},
		Max: Tuple{math.Inf(-1), math.Inf(-1)},
	}
	for _, v := range s.Vertices {
		b.Min[0] = math.Min(b.Min[0], v.Point[0])
		b.Min[1] = math.Min(b.Min[1], v.Point[1])
		b.Max[0] = math.Max(b.Max[0], v.Point[0])
		b.Max[1] = math.Max(b.Max[1], v.Point[1])
	}
	return b
}

// IsClockwise classifies the stroke's winding with the shoelace-style sum
// of (x2-x1)(y1+y2) over consecutive vertices. When the stroke is open the
// closing edge from the last vertex back to the first is added as well.
// Strokes with fewer than two vertices are counter-clockwise.
func IsClockwise(s *Stroke) bool {
	n := len(s.Vertices)
	if n < 2 {
		return false
	}
	var sum float64
	for i := 1; i < n; i++ {
		sum += edgeTerm(s.Vertices[i-1].Point, s.Vertices[i].Point)
	}
	first, last := s.Vertices[0].Point, s.Vertices[n-1].Point
	if math.Hypot(first[0]-last[0], first[1]-last[1]) > ClosingEpsilon {
		sum += edgeTerm(last, first)
	}
	return sum > 0
}

func edgeTerm(a, b Tuple) float64 {
	return (b[0] - a[0]) * (a[1] + b[1])
}
