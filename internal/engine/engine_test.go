package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/scene"
	"github.com/inamate/pathsvg/internal/sink"
	"github.com/inamate/pathsvg/internal/svg"
	"github.com/inamate/pathsvg/internal/text"
)

func twoRects() *scene.Scene {
	return &scene.Scene{
		ID: "doc_test",
		Shapes: []scene.Shape{
			{ID: "back", Type: scene.ShapeTypeRect, Rect: &scene.RectData{Width: 10, Height: 10}, Style: scene.Style{Fill: "red"}},
			{ID: "front", Type: scene.ShapeTypeRect, Rect: &scene.RectData{X: 5, Y: 5, Width: 10, Height: 10}, Style: scene.Style{Fill: "blue", Stroke: "black"}},
		},
	}
}

func TestRenderShapesOnly(t *testing.T) {
	res, err := New().Render(context.Background(), twoRects())
	require.NoError(t, err)

	assert.InDelta(t, 15, res.Document.Viewport.Width, 1e-9)
	assert.Contains(t, res.SVG, `id="back"`)
	assert.Contains(t, res.SVG, `id="front"`)
	assert.Less(t, strings.Index(res.SVG, `id="back"`), strings.Index(res.SVG, `id="front"`))

	parsed, err := svg.Decode(strings.NewReader(res.SVG), svg.StrictErrorMode)
	require.NoError(t, err)
	assert.Len(t, parsed.Paths, 2)
}

func TestRenderTextNeedsShaper(t *testing.T) {
	_, err := New().Render(context.Background(), scene.Sample())
	assert.ErrorIs(t, err, document.ErrMissingFontProvider)

	e := New(WithShaper(text.NewShaper(text.NewFontDB())))
	res, err := e.Render(context.Background(), scene.Sample())
	require.NoError(t, err)
	assert.Greater(t, len(res.Document.Tree.Shapes()), len(scene.Sample().Shapes))
	assert.NotContains(t, res.SVG, "<text")
}

func TestRenderCenterPolicy(t *testing.T) {
	e := New(WithCenterPolicy(document.CenterMeanOfNodes))
	res, err := e.Render(context.Background(), twoRects())
	require.NoError(t, err)
	// midpoints (5,5) and (10,10) over two nodes
	assert.InDelta(t, 7.5, res.Document.Viewport.CenterX, 1e-9)
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Render(ctx, twoRects())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportAndWriteFile(t *testing.T) {
	var buf bytes.Buffer
	res, err := New().Export(context.Background(), twoRects(), sink.Writer(&buf), "mem")
	require.NoError(t, err)
	assert.Equal(t, res.SVG, buf.String())

	name := filepath.Join(t.TempDir(), "out", "rects.svg")
	res, err = New().WriteFile(context.Background(), twoRects(), name)
	require.NoError(t, err)
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, res.SVG, string(data))

	failing := sink.Func(func(_ context.Context, _, dest string) error {
		return &document.IOError{Dest: dest, Err: os.ErrPermission}
	})
	_, err = New().Export(context.Background(), twoRects(), failing, "x")
	assert.ErrorIs(t, err, document.ErrIO)
}

func TestCompileDrawCommands(t *testing.T) {
	doc, err := New().Assemble(twoRects())
	require.NoError(t, err)

	cmds := CompileDrawCommands(doc)
	require.Len(t, cmds, 2)
	// fill-only sorts before fill and stroke
	assert.Equal(t, "back", cmds[0].ObjectID)
	assert.Equal(t, "#ff0000", cmds[0].Fill)
	assert.Equal(t, 1.0, cmds[0].FillOpacity)
	assert.Empty(t, cmds[0].Stroke)
	assert.Equal(t, "front", cmds[1].ObjectID)
	assert.Equal(t, 1.0, cmds[1].StrokeWidth)

	assert.Equal(t, PathCommand{"M", 0.0, 0.0}, cmds[0].Path[0])
	assert.Equal(t, PathCommand{"Z"}, cmds[0].Path[len(cmds[0].Path)-1])
	assert.Equal(t, []float64{1, 0, 0, 1, 0, 0}, cmds[0].Transform)

	js, err := DrawCommandsToJSON(cmds)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(js, `[{"op":"path","objectId":"back"`), js)

	js, err = DrawCommandsToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", js)
}

func TestHitTest(t *testing.T) {
	doc, err := New().Assemble(twoRects())
	require.NoError(t, err)

	assert.Equal(t, "back", HitTest(doc, 2, 2))
	assert.Equal(t, "front", HitTest(doc, 7, 7))
	assert.Equal(t, "front", HitTest(doc, 14, 14))
	assert.Empty(t, HitTest(doc, 50, 50))
	assert.Empty(t, HitTest(nil, 0, 0))

	b := SelectionBounds(doc, []string{"back", "front"})
	assert.InDelta(t, 15, b.Width, 1e-9)
	assert.Equal(t, 10.0, SelectionBounds(doc, []string{"back"}).Width)
}

func TestHitTestUsesWorldTransform(t *testing.T) {
	sc := twoRects()
	sc.Transform = &scene.Transform{X: 100}
	doc, err := New().Assemble(sc)
	require.NoError(t, err)

	assert.Empty(t, HitTest(doc, 2, 2))
	assert.Equal(t, "back", HitTest(doc, 102, 2))
}
