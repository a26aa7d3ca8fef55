package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplyAppliesRightFirst(t *testing.T) {
	m := Translate(10, 0).Multiply(Scale(2, 2))
	x, y := m.TransformPoint(1, 1)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 2.0, y)
}

func TestInvert(t *testing.T) {
	m := Compose(5, 7, 2, 3, 30, 1, 1)
	x, y := m.Invert().Multiply(m).TransformPoint(4, -2)
	assert.InDelta(t, 4, x, 1e-9)
	assert.InDelta(t, -2, y, 1e-9)

	assert.Equal(t, Identity(), Scale(0, 1).Invert())
}

func TestTransformRect(t *testing.T) {
	r := RotateDegrees(90).TransformRect(Rect{X: 0, Y: 0, Width: 2, Height: 1})
	assert.InDelta(t, -1, r.X, 1e-9)
	assert.InDelta(t, 0, r.Y, 1e-9)
	assert.InDelta(t, 1, r.Width, 1e-9)
	assert.InDelta(t, 2, r.Height, 1e-9)
}

func TestRectUnionAndExtend(t *testing.T) {
	a := Rect{X: 1, Y: 1, Width: 2, Height: 2}
	zero := Rect{}

	assert.Equal(t, a, zero.Union(a), "union skips empty rects")
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 3, Height: 3}, zero.Extend(a), "extend keeps the origin")
}

func TestMatrixString(t *testing.T) {
	assert.Equal(t, "matrix(1,0,0,1,0.5,-2)", Translate(0.5, -2).String())
	assert.Equal(t, "0", FormatFloat(math.Copysign(0, -1)))
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in   string
		want Matrix2D
	}{
		{"", Identity()},
		{"translate(3)", Translate(3, 0)},
		{"translate(3, 4)", Translate(3, 4)},
		{"scale(2)", Scale(2, 2)},
		{"matrix(1 2 3 4 5 6)", Matrix2D{1, 2, 3, 4, 5, 6}},
		{"translate(1,1) scale(2,3)", Translate(1, 1).Multiply(Scale(2, 3))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTransform(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := ParseTransform("rotate(90 1 1)")
	require.NoError(t, err)
	x, y := got.TransformPoint(2, 1)
	assert.InDelta(t, 1, x, 1e-9)
	assert.InDelta(t, 2, y, 1e-9)

	_, err = ParseTransform("wobble(1)")
	assert.ErrorIs(t, err, ErrBadTransform)
	_, err = ParseTransform("scale(1,2,3)")
	assert.ErrorIs(t, err, ErrBadTransform)
}
