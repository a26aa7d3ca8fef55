package path

import (
	"errors"
	"fmt"

	"honnef.co/go/curve"
)

// ErrEmptyGeometry is returned when a path produces no drawing commands.
var ErrEmptyGeometry = errors.New("pathsvg: path produced no drawing commands")

// translator tracks the current point while events are replayed.
type translator struct {
	out    curve.BezPath
	cursor curve.Point
	set    bool
}

// moveIfDetached emits an implicit MoveTo when from is not the current point.
// Points are compared exactly; near-equal points are not coalesced.
func (t *translator) moveIfDetached(from curve.Point) {
	if t.set && from != t.cursor {
		t.out.MoveTo(from)
	}
}

func (t *translator) advance(to curve.Point) {
	t.cursor = to
	t.set = true
}

// Translate converts one path's event stream into normalized geometry.
// Segments whose start does not match the current point open a new sub-path
// with an implicit MoveTo. An empty result, or a segment arriving before any
// Begin, fails with ErrEmptyGeometry.
func Translate(events []Event) (Geometry, error) {
	var t translator
	for i, ev := range events {
		if _, ok := ev.(Begin); !ok && !t.set {
			return Geometry{}, fmt.Errorf("translate event %d: %v before begin: %w", i, ev, ErrEmptyGeometry)
		}
		switch ev := ev.(type) {
		case Begin:
			t.out.MoveTo(ev.At)
			t.advance(ev.At)
		case Line:
			t.moveIfDetached(ev.From)
			t.out.LineTo(ev.To)
			t.advance(ev.To)
		case Quadratic:
			t.moveIfDetached(ev.From)
			t.out.QuadTo(ev.Ctrl, ev.To)
			t.advance(ev.To)
		case Cubic:
			t.moveIfDetached(ev.From)
			t.out.CubicTo(ev.Ctrl1, ev.Ctrl2, ev.To)
			t.advance(ev.To)
		case End:
			t.moveIfDetached(ev.Last)
			if ev.Closed {
				t.out.LineTo(ev.First)
				t.out.ClosePath()
			}
			t.advance(ev.Last)
		default:
			return Geometry{}, fmt.Errorf("translate event %d: unsupported event %T", i, ev)
		}
	}
	if len(t.out) == 0 {
		return Geometry{}, ErrEmptyGeometry
	}
	return Geometry{path: t.out}, nil
}
