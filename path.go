package svgexport

import (
	"fmt"
	"strconv"
	"strings"

	mt "github.com/rustyoz/Mtransform"
	gl "github.com/rustyoz/genericlexer"
)

// A Segment of a path that contains a list of connected points and if the
// segment forms a closed loop. Points are in document space, after the
// vertical flip has been applied.
type Segment struct {
	Closed bool
	Points []Tuple
}

func (s *Segment) addPoint(p Tuple) {
	s.Points = append(s.Points, p)
}

// PathElement is one <path> element: a style record plus one or more
// segments that together make up its d attribute.
type PathElement struct {
	Attrs    []Attr
	Segments []Segment
}

// D renders the path data. Every segment starts with a move-to and lists
// its points as "x, y " pairs with three decimals; closed segments end in z.
func (p PathElement) D() string {
	var b strings.Builder
	for _, seg := range p.Segments {
		b.WriteString(" M ")
		for _, pt := range seg.Points {
			fmt.Fprintf(&b, "%.3f, %.3f ", pt[0], pt[1])
		}
		if seg.Closed {
			b.WriteString("z")
		}
	}
	return b.String()
}

// Node converts the element into a document node, style attributes first.
func (p PathElement) Node() *Node {
	attrs := make([]Attr, 0, len(p.Attrs)+1)
	attrs = append(attrs, p.Attrs...)
	attrs = append(attrs, Attr{"d", p.D()})
	return &Node{Name: "path", Attrs: attrs}
}

// flipper maps render space (origin bottom left) to document space
// (origin top left): y' = height - y.
type flipper struct {
	scale mt.Transform
	shift mt.Transform
}

func newFlipper(height float64) *flipper {
	f := &flipper{scale: mt.Identity(), shift: mt.Identity()}
	f.scale.Scale(1, -1)
	f.shift.Translate(0, height)
	return f
}

func (f *flipper) Apply(p Tuple) Tuple {
	x, y := f.scale.Apply(p[0], p[1])
	x, y = f.shift.Apply(x, y)
	return Tuple{x, y}
}

// PathBuilder turns strokes into stroke path elements.
type PathBuilder struct {
	// Height of the render in pixels, used to flip the vertical axis.
	Height float64
	// SplitAtInvisible ends the current path at an invisible vertex and
	// resumes at the next visible one.
	SplitAtInvisible bool
	Style            StrokeStyle
}

// Build returns the path elements for one stroke. A stroke with fewer than
// two vertices yields none; the pieces a split produces are kept as long as
// they hold a point.
func (pb *PathBuilder) Build(s *Stroke) []PathElement {
	if len(s.Vertices) < 2 {
		return nil
	}
	flip := newFlipper(pb.Height)
	attrs := pb.Style.Attrs()

	var (
		paths   []PathElement
		current Segment
	)
	emit := func() {
		if len(current.Points) > 0 {
			paths = append(paths, PathElement{Attrs: attrs, Segments: []Segment{current}})
		}
		current = Segment{}
	}

	vs := s.Vertices
	for i := 0; i < len(vs); i++ {
		v := vs[i]
		current.addPoint(flip.Apply(v.Point))
		if !pb.SplitAtInvisible || v.Visible {
			continue
		}
		emit()
		// fast-forward past the run of invisible vertices
		j := i + 1
		for j < len(vs) && !vs[j].Visible {
			j++
		}
		if j == len(vs) {
			return paths
		}
		current.addPoint(flip.Apply(vs[j].Point))
		i = j
	}
	emit()
	return paths
}

// BuildAll builds the path elements of every stroke in order.
func (pb *PathBuilder) BuildAll(strokes []*Stroke) []PathElement {
	var out []PathElement
	for _, s := range strokes {
		out = append(out, pb.Build(s)...)
	}
	return out
}

// PathData is the parsed form of a d attribute.
type PathData struct {
	Segments     []Segment
	Instructions []*DrawingInstruction
}

type pathDataParser struct {
	lex     gl.Lexer
	x, y    float64
	current *Segment
	data    PathData
}

// ParsePathData reads the move, line and close commands of a path's d
// attribute (absolute and relative), the subset written by this package.
// Curves and arcs are reported as errors.
func ParsePathData(d string) (*PathData, error) {
	l, _ := gl.Lex("d", d)
	pdp := &pathDataParser{lex: *l}
	for {
		i := pdp.lex.NextItem()
		switch {
		case i.Type == gl.ItemError:
			return nil, fmt.Errorf("path data: %s", i.Value)
		case i.Type == gl.ItemEOS:
			pdp.endSegment()
			return &pdp.data, nil
		case i.Type == gl.ItemLetter:
			if err := pdp.parseCommand(i); err != nil {
				return nil, err
			}
		case i.Type == gl.ItemNumber:
			return nil, fmt.Errorf("path data: number %q without a command", i.Value)
		}
	}
}

func (pdp *pathDataParser) parseCommand(i gl.Item) error {
	switch i.Value {
	case "M", "m":
		return pdp.parseMoveTo(i.Value == "m")
	case "L", "l":
		return pdp.parseLineTo(i.Value == "l")
	case "H", "h":
		return pdp.parseAxisLineTo(i.Value == "h", 0)
	case "V", "v":
		return pdp.parseAxisLineTo(i.Value == "v", 1)
	case "Z", "z":
		pdp.parseClose()
		return nil
	}
	return fmt.Errorf("path data: unsupported command %q", i.Value)
}

func (pdp *pathDataParser) parseMoveTo(rel bool) error {
	tuples, err := pdp.parseTuples()
	if err != nil {
		return fmt.Errorf("path data: move-to: %w", err)
	}
	if len(tuples) == 0 {
		return fmt.Errorf("path data: move-to without coordinates")
	}
	pdp.endSegment()
	pdp.moveCursor(tuples[0], rel)
	pdp.current = &Segment{Points: []Tuple{{pdp.x, pdp.y}}}
	pdp.instruct(MoveInstruction)
	// extra pairs after a move-to are implicit line-tos
	for _, t := range tuples[1:] {
		pdp.lineTo(t, rel)
	}
	return nil
}

func (pdp *pathDataParser) parseLineTo(rel bool) error {
	tuples, err := pdp.parseTuples()
	if err != nil {
		return fmt.Errorf("path data: line-to: %w", err)
	}
	if pdp.current == nil {
		pdp.current = &Segment{Points: []Tuple{{pdp.x, pdp.y}}}
		pdp.instruct(MoveInstruction)
	}
	for _, t := range tuples {
		pdp.lineTo(t, rel)
	}
	return nil
}

func (pdp *pathDataParser) parseAxisLineTo(rel bool, axis int) error {
	if pdp.current == nil {
		pdp.current = &Segment{Points: []Tuple{{pdp.x, pdp.y}}}
		pdp.instruct(MoveInstruction)
	}
	pdp.lex.ConsumeWhiteSpace()
	for pdp.lex.PeekItem().Type == gl.ItemNumber {
		n, err := parseNumber(pdp.lex.NextItem())
		if err != nil {
			return fmt.Errorf("path data: axis line-to: %w", err)
		}
		t := Tuple{pdp.x, pdp.y}
		if rel {
			t = Tuple{}
		}
		t[axis] = n
		pdp.lineTo(t, rel)
		pdp.lex.ConsumeWhiteSpace()
		pdp.lex.ConsumeComma()
		pdp.lex.ConsumeWhiteSpace()
	}
	return nil
}

func (pdp *pathDataParser) parseClose() {
	pdp.lex.ConsumeWhiteSpace()
	if pdp.current != nil {
		pdp.current.Closed = true
		start := pdp.current.Points[0]
		pdp.x, pdp.y = start[0], start[1]
		pdp.data.Segments = append(pdp.data.Segments, *pdp.current)
		pdp.current = nil
	}
	pdp.data.Instructions = append(pdp.data.Instructions, &DrawingInstruction{Kind: CloseInstruction})
}

func (pdp *pathDataParser) lineTo(t Tuple, rel bool) {
	pdp.moveCursor(t, rel)
	pdp.current.addPoint(Tuple{pdp.x, pdp.y})
	pdp.instruct(LineInstruction)
}

func (pdp *pathDataParser) moveCursor(t Tuple, rel bool) {
	if rel {
		pdp.x += t[0]
		pdp.y += t[1]
		return
	}
	pdp.x, pdp.y = t[0], t[1]
}

func (pdp *pathDataParser) instruct(kind InstructionType) {
	pdp.data.Instructions = append(pdp.data.Instructions, &DrawingInstruction{Kind: kind, M: &Tuple{pdp.x, pdp.y}})
}

func (pdp *pathDataParser) endSegment() {
	if pdp.current != nil {
		pdp.data.Segments = append(pdp.data.Segments, *pdp.current)
		pdp.current = nil
	}
}

func (pdp *pathDataParser) parseTuples() ([]Tuple, error) {
	var tuples []Tuple
	pdp.lex.ConsumeWhiteSpace()
	for pdp.lex.PeekItem().Type == gl.ItemNumber {
		t, err := parseTuple(&pdp.lex)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, t)
		pdp.lex.ConsumeWhiteSpace()
		pdp.lex.ConsumeComma()
		pdp.lex.ConsumeWhiteSpace()
	}
	return tuples, nil
}

func parseTuple(l *gl.Lexer) (Tuple, error) {
	var t Tuple
	x, err := parseNumber(l.NextItem())
	if err != nil {
		return t, err
	}
	l.ConsumeWhiteSpace()
	l.ConsumeComma()
	l.ConsumeWhiteSpace()
	if l.PeekItem().Type != gl.ItemNumber {
		return t, fmt.Errorf("expected a y coordinate after %v", x)
	}
	y, err := parseNumber(l.NextItem())
	if err != nil {
		return t, err
	}
	t[0], t[1] = x, y
	return t, nil
}

func parseNumber(i gl.Item) (float64, error) {
	if i.Type != gl.ItemNumber {
		return 0, fmt.Errorf("expected a number, got %q", i.Value)
	}
	return strconv.ParseFloat(i.Value, 64)
}
