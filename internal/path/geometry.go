package path

import (
	"errors"
	"slices"
	"strings"

	"honnef.co/go/curve"

	"github.com/inamate/pathsvg/internal/geom"
)

// Geometry is a normalized command sequence. It always starts with a MoveTo
// and is never empty when produced by Translate.
type Geometry struct {
	path curve.BezPath
}

// FromElements builds a Geometry from already-normalized commands, such as
// those read back from an SVG file.
func FromElements(els []curve.PathElement) (Geometry, error) {
	if len(els) == 0 {
		return Geometry{}, ErrEmptyGeometry
	}
	if els[0].Kind != curve.MoveToKind {
		return Geometry{}, errors.New("pathsvg: geometry must start with a move")
	}
	return Geometry{path: slices.Clone(curve.BezPath(els))}, nil
}

// Len returns the number of commands.
func (g Geometry) Len() int { return len(g.path) }

// IsEmpty reports whether g holds no commands.
func (g Geometry) IsEmpty() bool { return len(g.path) == 0 }

// Elements returns a copy of the command sequence.
func (g Geometry) Elements() []curve.PathElement {
	return slices.Clone([]curve.PathElement(g.path))
}

// IsFinite reports whether every coordinate is a finite number.
func (g Geometry) IsFinite() bool {
	return !g.path.IsNaN() && !g.path.IsInf()
}

// Kinds returns the command kinds in order.
func (g Geometry) Kinds() []curve.PathElementKind {
	kinds := make([]curve.PathElementKind, len(g.path))
	for i, el := range g.path {
		kinds[i] = el.Kind
	}
	return kinds
}

// Bounds returns the tight axis-aligned bounds of the geometry in its own
// coordinate space. Geometry made only of moves is boxed over its points.
func (g Geometry) Bounds() geom.Rect {
	if len(g.path) == 0 {
		return geom.Rect{}
	}
	if !g.hasSegments() {
		return g.pointBox()
	}
	bb := g.path.BoundingBox()
	return geom.RectFromCorners(bb.X0, bb.Y0, bb.X1, bb.Y1)
}

func (g Geometry) hasSegments() bool {
	for _, el := range g.path {
		switch el.Kind {
		case curve.LineToKind, curve.QuadToKind, curve.CubicToKind:
			return true
		}
	}
	return false
}

func (g Geometry) pointBox() geom.Rect {
	first := g.path[0].P0
	minX, minY, maxX, maxY := first.X, first.Y, first.X, first.Y
	for _, el := range g.path {
		for _, p := range points(el) {
			minX, minY = min(minX, p.X), min(minY, p.Y)
			maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
		}
	}
	return geom.RectFromCorners(minX, minY, maxX, maxY)
}

// Transform returns a copy of g with m applied to every point.
func (g Geometry) Transform(m geom.Matrix2D) Geometry {
	out := make(curve.BezPath, len(g.path))
	apply := func(p curve.Point) curve.Point {
		x, y := m.TransformPoint(p.X, p.Y)
		return curve.Point{X: x, Y: y}
	}
	for i, el := range g.path {
		out[i] = curve.PathElement{Kind: el.Kind, P0: apply(el.P0), P1: apply(el.P1), P2: apply(el.P2)}
	}
	return Geometry{path: out}
}

// PathData formats the geometry as SVG path data using absolute commands.
func (g Geometry) PathData() string {
	var sb strings.Builder
	for i, el := range g.path {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch el.Kind {
		case curve.MoveToKind:
			sb.WriteByte('M')
		case curve.LineToKind:
			sb.WriteByte('L')
		case curve.QuadToKind:
			sb.WriteByte('Q')
		case curve.CubicToKind:
			sb.WriteByte('C')
		case curve.ClosePathKind:
			sb.WriteByte('Z')
			continue
		}
		for j, p := range points(el) {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(geom.FormatFloat(p.X))
			sb.WriteByte(',')
			sb.WriteString(geom.FormatFloat(p.Y))
		}
	}
	return sb.String()
}

// points returns the meaningful points of el in drawing order.
func points(el curve.PathElement) []curve.Point {
	switch el.Kind {
	case curve.MoveToKind, curve.LineToKind:
		return []curve.Point{el.P0}
	case curve.QuadToKind:
		return []curve.Point{el.P0, el.P1}
	case curve.CubicToKind:
		return []curve.Point{el.P0, el.P1, el.P2}
	}
	return nil
}
