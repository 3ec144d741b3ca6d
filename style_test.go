package svgexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrokeStyleAttrs(t *testing.T) {
	ls := LineStyle{Thickness: 3, Caps: RoundCap, Alpha: 0.75, Color: [3]float64{1, 0.5, 0}}
	assert.Equal(t, []Attr{
		{"fill", "none"},
		{"stroke-width", "3"},
		{"stroke-linecap", "round"},
		{"stroke-opacity", "0.75"},
		{"stroke", "rgb(255, 127, 0)"},
		{"stroke-linejoin", "bevel"},
	}, NewStrokeStyle(ls, BevelJoin).Attrs())

	ls.Dashes = []float64{4, 2.5, 1, 2.5}
	attrs := NewStrokeStyle(ls, BevelJoin).Attrs()
	require.Len(t, attrs, 7)
	assert.Equal(t, Attr{"stroke-dasharray", "4,2.5,1,2.5"}, attrs[6])
}

func TestFillStyleAttrs(t *testing.T) {
	assert.Equal(t, []Attr{
		{"fill-rule", "evenodd"},
		{"stroke", "none"},
		{"fill-opacity", "0.5"},
		{"fill", "rgb(0, 255, 51)"},
	}, FillStyle{Color: Color{R: 0, G: 1, B: 0.2, A: 0.5}}.Attrs())
}

func TestParseStyles(t *testing.T) {
	c, err := ParseCapStyle("SQUARE")
	require.NoError(t, err)
	assert.Equal(t, SquareCap, c)
	_, err = ParseCapStyle("pointy")
	assert.Error(t, err)

	j, err := ParseJoinStyle("mitter")
	require.NoError(t, err)
	assert.Equal(t, MiterJoin, j)
	j, err = ParseJoinStyle("Round")
	require.NoError(t, err)
	assert.Equal(t, RoundJoin, j)
	_, err = ParseJoinStyle("")
	assert.Error(t, err)
}

func TestParseRGB(t *testing.T) {
	r, g, b, err := ParseRGB("rgb(255, 127, 0)")
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{255, 127, 0}, [3]uint8{r, g, b})

	for _, s := range []string{"#ff0000", "rgb(1, 2)", "rgb(a, b, c)"} {
		_, _, _, err := ParseRGB(s)
		assert.Error(t, err, s)
	}
}
