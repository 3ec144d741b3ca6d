package svgexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type PathTest struct {
	Description string
	D           string
	Kinds       []InstructionType
	XCoords     []float64
	YCoords     []float64
}

var tests = []PathTest{
	{
		"absolute lines",
		"M0.000 0.000 L100.000 0.000 100.000 100.000 L0.000 100.000 Z",
		[]InstructionType{MoveInstruction, LineInstruction, LineInstruction, LineInstruction, CloseInstruction},
		[]float64{0, 100, 100, 0},
		[]float64{0, 0, 100, 100},
	},
	{
		"relative lines",
		"M0.000 0.000 l100.000 0.000 100.000 100.000 l0.000 100.000 Z",
		[]InstructionType{MoveInstruction, LineInstruction, LineInstruction, LineInstruction, CloseInstruction},
		[]float64{0, 100, 200, 200},
		[]float64{0, 0, 100, 200},
	},
	{
		"relative h-line test",
		"M0.000 0.000 h100.000 50.000",
		[]InstructionType{MoveInstruction, LineInstruction, LineInstruction},
		[]float64{0, 100, 150},
		[]float64{0, 0, 0},
	},
	{
		"absolute h-line test",
		"M0.000 0.000 H100.000 50.000",
		[]InstructionType{MoveInstruction, LineInstruction, LineInstruction},
		[]float64{0, 100, 50},
		[]float64{0, 0, 0},
	},
	{
		"relative v-line test",
		"M0.000 0.000 v100.000 50.000",
		[]InstructionType{MoveInstruction, LineInstruction, LineInstruction},
		[]float64{0, 0, 0},
		[]float64{0, 100, 150},
	},
	{
		"absolute v-line test",
		"M0.000 0.000 V100.000 50.000",
		[]InstructionType{MoveInstruction, LineInstruction, LineInstruction},
		[]float64{0, 0, 0},
		[]float64{0, 100, 50},
	},
	{
		"exported path data",
		" M 1.000, 2.000 3.000, 4.000 z M 5.000, 6.000 ",
		[]InstructionType{MoveInstruction, LineInstruction, CloseInstruction, MoveInstruction},
		[]float64{1, 3, 5},
		[]float64{2, 4, 6},
	},
}

func TestParsePathList(t *testing.T) {
	for _, test := range tests {
		data, err := ParsePathData(test.D)
		require.NoError(t, err, test.Description)

		if len(data.Instructions) != len(test.Kinds) {
			t.Fatalf("expected %d instructions for test %s, but received %d", len(test.Kinds), test.Description, len(data.Instructions))
		}

		var xs, ys []float64
		for i, kind := range test.Kinds {
			di := data.Instructions[i]
			if di.Kind != kind {
				t.Fatalf("expected instruction %d of test %s to be %v, got %v", i, test.Description, kind, di.Kind)
			}
			if kind == CloseInstruction {
				require.Nil(t, di.M)
				continue
			}
			xs = append(xs, di.M[0])
			ys = append(ys, di.M[1])
		}
		assert.Equal(t, test.XCoords, xs, test.Description)
		assert.Equal(t, test.YCoords, ys, test.Description)
	}
}

func TestParsePathDataSegments(t *testing.T) {
	data, err := ParsePathData(" M 1.000, 2.000 3.000, 4.000 z M 5.000, 6.000 ")
	require.NoError(t, err)
	require.Len(t, data.Segments, 2)
	assert.True(t, data.Segments[0].Closed)
	assert.Equal(t, []Tuple{{1, 2}, {3, 4}}, data.Segments[0].Points)
	assert.False(t, data.Segments[1].Closed)
	assert.Equal(t, []Tuple{{5, 6}}, data.Segments[1].Points)
}

func TestParsePathDataErrors(t *testing.T) {
	for _, d := range []string{
		"M0 0 C1 1 2 2 3 3",
		"10 10",
		"M0",
	} {
		_, err := ParsePathData(d)
		assert.Error(t, err, d)
	}
}

func visibility(s *Stroke, visible ...bool) *Stroke {
	for i, v := range visible {
		s.Vertices[i].Visible = v
	}
	return s
}

func TestPathBuilderSplit(t *testing.T) {
	s := visibility(NewStroke(Color{A: 1}, Tuple{0, 0}, Tuple{1, 0}, Tuple{2, 0}, Tuple{3, 0}),
		true, true, false, true)
	pb := &PathBuilder{Height: 10, SplitAtInvisible: true}

	paths := pb.Build(s)
	require.Len(t, paths, 2)
	// the invisible vertex ends the first path
	assert.Equal(t, []Tuple{{0, 10}, {1, 10}, {2, 10}}, paths[0].Segments[0].Points)
	assert.Equal(t, []Tuple{{3, 10}}, paths[1].Segments[0].Points)

	pb.SplitAtInvisible = false
	paths = pb.Build(s)
	require.Len(t, paths, 1)
	assert.Len(t, paths[0].Segments[0].Points, 4)
}

func TestPathBuilderTrailingInvisible(t *testing.T) {
	s := visibility(NewStroke(Color{A: 1}, Tuple{0, 0}, Tuple{1, 0}, Tuple{2, 0}, Tuple{3, 0}),
		true, false, false, false)
	pb := &PathBuilder{Height: 10, SplitAtInvisible: true}

	paths := pb.Build(s)
	require.Len(t, paths, 1)
	assert.Equal(t, []Tuple{{0, 10}, {1, 10}}, paths[0].Segments[0].Points)
}

func TestPathBuilderShortStroke(t *testing.T) {
	pb := &PathBuilder{Height: 10}
	assert.Empty(t, pb.Build(NewStroke(Color{A: 1}, Tuple{1, 1})))
	assert.Empty(t, pb.Build(&Stroke{}))
}

func TestPathBuilderAllVisible(t *testing.T) {
	s := NewStroke(Color{A: 1}, Tuple{0, 0}, Tuple{4, 1}, Tuple{2, 7.5})
	style := NewStrokeStyle(LineStyle{Thickness: 2, Caps: RoundCap, Alpha: 1}, RoundJoin)

	split := (&PathBuilder{Height: 100, SplitAtInvisible: true, Style: style}).Build(s)
	whole := (&PathBuilder{Height: 100, Style: style}).Build(s)
	require.Len(t, whole, 1)
	assert.Equal(t, whole, split)
	assert.Equal(t, " M 0.000, 100.000 4.000, 99.000 2.000, 92.500 ", whole[0].D())
}

func TestPathBuilderFlip(t *testing.T) {
	const height = 480
	s := NewStroke(Color{A: 1}, Tuple{0, 0}, Tuple{10, 480}, Tuple{320.25, 12.5}, Tuple{-4, 600})
	paths := (&PathBuilder{Height: height}).Build(s)
	require.Len(t, paths, 1)
	for i, p := range paths[0].Segments[0].Points {
		orig := s.Vertices[i].Point
		assert.InDelta(t, orig[0], p[0], 1e-9)
		assert.InDelta(t, height-orig[1], p[1], 1e-9)
	}
}

func TestPathElementNode(t *testing.T) {
	style := NewStrokeStyle(LineStyle{Thickness: 1.5, Caps: ButtCap, Alpha: 0.5, Color: [3]float64{1, 0, 0}}, MiterJoin)
	el := PathElement{Attrs: style.Attrs(), Segments: []Segment{{Points: []Tuple{{0, 0}, {1, 1}}, Closed: true}}}
	n := el.Node()
	assert.Equal(t, "path", n.Name)

	var names []string
	for _, a := range n.Attrs {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"fill", "stroke-width", "stroke-linecap", "stroke-opacity", "stroke", "stroke-linejoin", "d"}, names)
	d, _ := n.Attr("d")
	assert.Equal(t, " M 0.000, 0.000 1.000, 1.000 z", d)
}
