package engine

import (
	"encoding/json"
	"strings"

	"honnef.co/go/curve"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/path"
)

// DrawCommand is one drawing operation for a Canvas2D preview. Commands come
// in painter's order and carry world transforms, so groups emit nothing.
type DrawCommand struct {
	Op            string        `json:"op"`                      // "path" or "text"
	ObjectID      string        `json:"objectId,omitempty"`      // For hit correlation
	Transform     []float64     `json:"transform,omitempty"`     // [a, b, c, d, e, f]
	Path          []PathCommand `json:"path,omitempty"`          // Path data for "path" ops
	Fill          string        `json:"fill,omitempty"`          // Fill color
	FillOpacity   float64       `json:"fillOpacity,omitempty"`   // Fill alpha
	Stroke        string        `json:"stroke,omitempty"`        // Stroke color
	StrokeOpacity float64       `json:"strokeOpacity,omitempty"` // Stroke alpha
	StrokeWidth   float64       `json:"strokeWidth,omitempty"`   // Stroke width
	Text          string        `json:"text,omitempty"`          // Content for "text" ops
	Font          string        `json:"font,omitempty"`          // CSS font shorthand
}

// PathCommand is one path segment in Canvas2D form: ["M", x, y],
// ["L", x, y], ["Q", cx, cy, x, y], ["C", x1, y1, x2, y2, x, y] or ["Z"].
type PathCommand []any

// CompileDrawCommands flattens a built document into draw commands.
func CompileDrawCommands(doc *document.Document) []DrawCommand {
	if doc == nil || len(doc.Tree.Nodes) == 0 {
		return nil
	}
	var commands []DrawCommand
	doc.Tree.Walk(func(_ document.NodeID, n *document.Node, world geom.Matrix2D, _ int) bool {
		switch n.Kind {
		case document.KindShape:
			cmd := DrawCommand{
				Op:        "path",
				ObjectID:  n.ID,
				Transform: world.ToSlice(),
				Path:      PathCommands(n.Shape.Geometry),
			}
			paint(&cmd, n.Shape.Style)
			commands = append(commands, cmd)
		case document.KindText:
			cmd := DrawCommand{
				Op:        "text",
				ObjectID:  n.ID,
				Transform: world.ToSlice(),
				Text:      n.Text.Content,
				Font:      geom.FormatFloat(n.Text.Size) + "px " + strings.Join(n.Text.Families, ", "),
			}
			paint(&cmd, n.Text.Style)
			commands = append(commands, cmd)
		}
		return true
	})
	return commands
}

func paint(cmd *DrawCommand, s document.PaintStyle) {
	if s.Fill != nil {
		cmd.Fill = s.Fill.Color.Hex()
		cmd.FillOpacity = s.Fill.Opacity
	}
	if s.Stroke != nil {
		cmd.Stroke = s.Stroke.Color.Hex()
		cmd.StrokeOpacity = s.Stroke.Opacity
		cmd.StrokeWidth = s.Stroke.Width
	}
}

// PathCommands converts geometry into Canvas2D path commands.
func PathCommands(g path.Geometry) []PathCommand {
	els := g.Elements()
	out := make([]PathCommand, 0, len(els))
	for _, el := range els {
		switch el.Kind {
		case curve.MoveToKind:
			out = append(out, PathCommand{"M", el.P0.X, el.P0.Y})
		case curve.LineToKind:
			out = append(out, PathCommand{"L", el.P0.X, el.P0.Y})
		case curve.QuadToKind:
			out = append(out, PathCommand{"Q", el.P0.X, el.P0.Y, el.P1.X, el.P1.Y})
		case curve.CubicToKind:
			out = append(out, PathCommand{"C", el.P0.X, el.P0.Y, el.P1.X, el.P1.Y, el.P2.X, el.P2.Y})
		case curve.ClosePathKind:
			out = append(out, PathCommand{"Z"})
		}
	}
	return out
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

type hitTarget struct {
	id     string
	bounds geom.Rect
}

// worldBounds lists every shape with its world-space bounding box in paint
// order.
func worldBounds(doc *document.Document) []hitTarget {
	var out []hitTarget
	doc.Tree.Walk(func(_ document.NodeID, n *document.Node, world geom.Matrix2D, _ int) bool {
		if n.Kind == document.KindShape {
			out = append(out, hitTarget{id: n.ID, bounds: world.TransformRect(n.Shape.Geometry.Bounds())})
		}
		return true
	})
	return out
}

// HitTest returns the id of the topmost shape whose world bounds contain
// the point, or "".
func HitTest(doc *document.Document, x, y float64) string {
	if doc == nil || len(doc.Tree.Nodes) == 0 {
		return ""
	}
	targets := worldBounds(doc)
	for i := len(targets) - 1; i >= 0; i-- {
		if targets[i].bounds.Contains(x, y) {
			return targets[i].id
		}
	}
	return ""
}

// SelectionBounds returns the combined world bounds of the given shapes.
func SelectionBounds(doc *document.Document, ids []string) geom.Rect {
	if doc == nil || len(ids) == 0 {
		return geom.Rect{}
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var result geom.Rect
	for _, t := range worldBounds(doc) {
		if want[t.id] {
			result = result.Union(t.bounds)
		}
	}
	return result
}
