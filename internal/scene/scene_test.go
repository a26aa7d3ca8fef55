package scene

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/path"
)

const triangleJSON = `{
  "name": "triangle",
  "transform": {"matrix": "translate(5 5)"},
  "shapes": [{
    "type": "path",
    "events": [
      {"type": "begin", "points": [[0, 0]]},
      {"type": "line", "points": [[0, 0], [10, 0]]},
      {"type": "line", "points": [[10, 0], [5, 8]]},
      {"type": "end", "points": [[5, 8], [0, 0]], "closed": true}
    ],
    "style": {"fill": "red"}
  }]
}`

const triangleYAML = `
name: triangle
transform:
  matrix: translate(5 5)
shapes:
  - type: path
    events:
      - {type: begin, points: [[0, 0]]}
      - {type: line, points: [[0, 0], [10, 0]]}
      - {type: line, points: [[10, 0], [5, 8]]}
      - {type: end, points: [[5, 8], [0, 0]], closed: true}
    style:
      fill: red
`

func TestDecodeFormats(t *testing.T) {
	fromJSON, err := Decode(strings.NewReader(triangleJSON), FormatJSON)
	require.NoError(t, err)
	fromYAML, err := Decode(strings.NewReader(triangleYAML), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)

	events, err := fromJSON.Shapes[0].PathEvents()
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, path.End{Last: path.Pt(5, 8), First: path.Pt(0, 0), Closed: true}, events[3])

	m, err := fromJSON.Transform.Matrix2D()
	require.NoError(t, err)
	assert.Equal(t, geom.Translate(5, 5), m)
}

func TestDecodeRejectsBadEvents(t *testing.T) {
	bad := `{"shapes": [{"id": "s1", "type": "path", "events": [{"type": "line", "points": [[0, 0]]}]}]}`
	_, err := Decode(strings.NewReader(bad), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape 0 (s1)")
	assert.Contains(t, err.Error(), "event 0")

	_, err = Decode(strings.NewReader(`{"shapes": [{"type": "path"}]}`), FormatJSON)
	assert.ErrorIs(t, err, document.ErrEmptyGeometry)

	_, err = Decode(strings.NewReader(`{"texts": [{"content": "x", "size": 0}]}`), FormatJSON)
	assert.ErrorIs(t, err, document.ErrInvalidFontSize)

	_, err = Decode(strings.NewReader(`{"shapes": [{"type": "star"}]}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{}`), Format("toml"))
	assert.Error(t, err)
}

func TestTransformDefaults(t *testing.T) {
	var nilT *Transform
	m, err := nilT.Matrix2D()
	require.NoError(t, err)
	assert.True(t, m.IsIdentity())

	m, err = (&Transform{X: 3, Y: 4}).Matrix2D()
	require.NoError(t, err)
	assert.Equal(t, geom.Translate(3, 4), m)

	_, err = (&Transform{Matrix: "wobble(1)"}).Matrix2D()
	assert.Error(t, err)
}

func TestStylePaint(t *testing.T) {
	fill, stroke, err := Style{Fill: "none", Stroke: ""}.Paint()
	require.NoError(t, err)
	assert.Nil(t, fill)
	assert.Nil(t, stroke)

	half := 0.5
	fill, stroke, err = Style{Fill: "#fff", FillOpacity: &half, Stroke: "navy"}.Paint()
	require.NoError(t, err)
	assert.Equal(t, 0.5, fill.Opacity)
	assert.Equal(t, 1.0, stroke.Width)
	assert.Equal(t, 1.0, stroke.Opacity)

	_, _, err = Style{Stroke: "black", StrokeWidth: -1}.Paint()
	assert.ErrorIs(t, err, document.ErrInvalidStrokeWidth)
}

func TestSampleIsValid(t *testing.T) {
	sc := Sample()
	require.NoError(t, sc.Validate())
	assert.NotEmpty(t, sc.Shapes)
	assert.NotEmpty(t, sc.Texts)
}

func TestLoadAndEncode(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, Sample(), format))

		name := filepath.Join(dir, "sample."+string(format))
		require.NoError(t, os.WriteFile(name, buf.Bytes(), 0o644))

		sc, err := Load(name)
		require.NoError(t, err, format)
		assert.Equal(t, "Sample", sc.Name)
		assert.Len(t, sc.Shapes, len(Sample().Shapes))
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	assert.Equal(t, FormatYAML, FormatFromPath("a.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("a.txt"))
}
