package svg

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/curve"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/path"
)

func buildRectDoc(t *testing.T) *document.Document {
	t.Helper()
	a := document.New()
	events := path.NewBuilder().Rect(1, 2, 10, 5).Events()
	require.NoError(t, a.PushShape(events, document.NewFill(document.RGB(255, 0, 0), 0.5), nil, nil))
	doc, err := a.Build()
	require.NoError(t, err)
	return doc
}

func TestRectangleRoundTrip(t *testing.T) {
	doc := buildRectDoc(t)
	out, err := NewEncoder().Serialize(doc)
	require.NoError(t, err)

	parsed, err := Decode(strings.NewReader(out), StrictErrorMode)
	require.NoError(t, err)
	require.Len(t, parsed.Paths, 1)

	want := doc.Tree.Shapes()[0].Geometry.Bounds()
	got := parsed.Paths[0].Geometry.Bounds()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Width, got.Width, 1e-9)
	assert.InDelta(t, want.Height, got.Height, 1e-9)

	assert.Equal(t, doc.Viewport.ViewBox(), parsed.ViewBox)
	assert.Equal(t, doc.Viewport.Width, parsed.Width)
	require.NotNil(t, parsed.Paths[0].Fill)
	assert.Equal(t, 0.5, parsed.Paths[0].Fill.Opacity)
	assert.Nil(t, parsed.Paths[0].Stroke)
}

func TestEncodeLayout(t *testing.T) {
	a := document.New().WithGlobalTransform(geom.Translate(3, 4))
	stroke, err := document.NewStroke(document.RGB(0, 0, 255), 1, 2)
	require.NoError(t, err)
	require.NoError(t, a.PushShape(path.NewBuilder().Rect(0, 0, 2, 2).Events(), nil, stroke, nil))
	doc, err := a.Build()
	require.NoError(t, err)

	out, err := NewEncoder().Serialize(doc)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="2" height="2" viewBox="0 0 2 2">`), out)
	assert.Contains(t, out, `transform="matrix(1,0,0,1,3,4)"`)
	assert.Contains(t, out, `d="M0,0 L2,0 L2,2 L0,2 L0,0 Z"`)
	assert.Contains(t, out, `fill="none"`)
	assert.Contains(t, out, `stroke="#0000ff"`)
	assert.Contains(t, out, `stroke-width="2"`)
	assert.Equal(t, 2, strings.Count(out, "<g "))
}

func TestEncodeUnflattenedText(t *testing.T) {
	run, err := document.BuildText("a<b", []string{"Go", "serif"}, 12, nil, document.NewFill(document.RGB(0, 0, 0), 1), nil)
	require.NoError(t, err)

	var tree document.Tree
	tree.Nodes = []document.Node{
		{ID: "group_root", Kind: document.KindGroup, Transform: geom.Identity(), Children: []document.NodeID{1}},
		{ID: run.ID, Kind: document.KindText, Transform: run.Transform, Text: &run},
	}
	doc := &document.Document{Viewport: document.Viewport{Width: 2, Height: 2}, Tree: tree}

	out, err := NewEncoder().Serialize(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `x="0 1 2"`)
	assert.Contains(t, out, `font-family="Go, serif"`)
	assert.Contains(t, out, `font-size="12"`)
	assert.Contains(t, out, `>a&lt;b</text>`)
}

func TestEncodeRejectsNonFinite(t *testing.T) {
	g, err := path.Translate([]path.Event{path.Begin{At: path.Pt(0, 0)}, path.Line{From: path.Pt(0, 0), To: path.Pt(math.Inf(1), 0)}})
	require.NoError(t, err)

	var tree document.Tree
	shape := document.ShapeNode{ID: "shape_x", Geometry: g, Transform: geom.Identity()}
	tree.Nodes = []document.Node{
		{Kind: document.KindGroup, Transform: geom.Identity(), Children: []document.NodeID{1}},
		{ID: shape.ID, Kind: document.KindShape, Transform: shape.Transform, Shape: &shape},
	}
	_, err = NewEncoder().Serialize(&document.Document{Viewport: document.Viewport{Width: 2, Height: 2}, Tree: tree})
	assert.ErrorIs(t, err, document.ErrSerializationFailure)

	_, err = NewEncoder().Serialize(nil)
	assert.ErrorIs(t, err, document.ErrSerializationFailure)
}

func TestParsePathData(t *testing.T) {
	const (
		move   = curve.MoveToKind
		line   = curve.LineToKind
		quad   = curve.QuadToKind
		cubic  = curve.CubicToKind
		zclose = curve.ClosePathKind
	)
	tests := []struct {
		name  string
		d     string
		kinds []curve.PathElementKind
		last  curve.Point
	}{
		{"absolute", "M0 0 L10 0 L10 10 Z", []curve.PathElementKind{move, line, line, zclose}, curve.Point{X: 10, Y: 10}},
		{"implicit lineto", "M0,0 10,0 10,10", []curve.PathElementKind{move, line, line}, curve.Point{X: 10, Y: 10}},
		{"relative", "m1 1 l2 0 v3 h-2", []curve.PathElementKind{move, line, line, line}, curve.Point{X: 1, Y: 4}},
		{"horizontal vertical", "M0 0H5V5", []curve.PathElementKind{move, line, line}, curve.Point{X: 5, Y: 5}},
		{"compact numbers", "M0-1.5.5.5L1e1,2", []curve.PathElementKind{move, line, line}, curve.Point{X: 10, Y: 2}},
		{"quad and smooth", "M0 0 Q5 5 10 0 T20 0", []curve.PathElementKind{move, quad, quad}, curve.Point{X: 20, Y: 0}},
		{"cubic and smooth", "M0 0 C1 1 2 1 3 0 s2 -1 3 0", []curve.PathElementKind{move, cubic, cubic}, curve.Point{X: 6, Y: 0}},
		{"draw after close", "M0 0 L1 0 Z L0 1", []curve.PathElementKind{move, line, zclose, move, line}, curve.Point{X: 0, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParsePathData(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.kinds, g.Kinds())

			els := g.Elements()
			var last curve.Point
			for _, el := range els {
				switch el.Kind {
				case curve.MoveToKind, curve.LineToKind:
					last = el.P0
				case curve.QuadToKind:
					last = el.P1
				case curve.CubicToKind:
					last = el.P2
				}
			}
			assert.InDelta(t, tt.last.X, last.X, 1e-9)
			assert.InDelta(t, tt.last.Y, last.Y, 1e-9)
		})
	}
}

func TestParsePathDataSmoothReflects(t *testing.T) {
	g, err := ParsePathData("M0 0 Q5 5 10 0 T20 0")
	require.NoError(t, err)
	els := g.Elements()
	assert.Equal(t, curve.Point{X: 15, Y: -5}, els[2].P0)
}

func TestParsePathDataErrors(t *testing.T) {
	for _, d := range []string{"", "10 10", "M0", "M0 0 A1 1 0 0 1 2 2", "M0 0 Z 1 1"} {
		_, err := ParsePathData(d)
		assert.Error(t, err, d)
	}
}

func TestDecodeGroupTransforms(t *testing.T) {
	src := `<?xml version="1.0" encoding="ISO-8859-1"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100px" height="50" viewBox="0 0 200 100">
  <title>ignored</title>
  <g transform="translate(10,0)">
    <g transform="scale(2)">
      <rect id="r" x="1" y="1" width="2" height="3" fill="#00ff00" stroke="black" stroke-width="0.5"/>
    </g>
    <path d="M0 0 L1 1" fill="none"/>
  </g>
</svg>`
	parsed, err := Decode(strings.NewReader(src), IgnoreErrorMode)
	require.NoError(t, err)

	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 200, Height: 100}, parsed.ViewBox)
	assert.Equal(t, 100.0, parsed.Width)
	require.Len(t, parsed.Paths, 2)

	r := parsed.Paths[0]
	assert.Equal(t, "r", r.ID)
	assert.Equal(t, geom.Translate(10, 0).Multiply(geom.Scale(2, 2)), r.Transform)
	require.NotNil(t, r.Stroke)
	assert.Equal(t, 0.5, r.Stroke.Width)

	assert.Nil(t, parsed.Paths[1].Fill)
	assert.Equal(t, geom.Translate(10, 0), parsed.Paths[1].Transform)

	b := parsed.Bounds()
	assert.InDelta(t, 10, b.X, 1e-9)
	assert.InDelta(t, 0, b.Y, 1e-9)
	assert.InDelta(t, 6, b.Width, 1e-9)
	assert.InDelta(t, 8, b.Height, 1e-9)
}

func TestDecodeStrictRejectsUnknown(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg"><circle r="1"/></svg>`
	_, err := Decode(strings.NewReader(src), StrictErrorMode)
	assert.Error(t, err)

	parsed, err := Decode(strings.NewReader(src), IgnoreErrorMode)
	require.NoError(t, err)
	assert.Empty(t, parsed.Paths)

	_, err = Decode(strings.NewReader(""), IgnoreErrorMode)
	assert.ErrorIs(t, err, ErrInvalidSVG)
}
