package path

import "honnef.co/go/curve"

// Builder records events the way a path-authoring API emits them: each
// segment carries its start point and End reports both ends of the sub-path.
type Builder struct {
	events  []Event
	current curve.Point
	first   curve.Point
	open    bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Begin starts a sub-path, ending any open one first.
func (b *Builder) Begin(at curve.Point) *Builder {
	if b.open {
		b.End(false)
	}
	b.events = append(b.events, Begin{At: at})
	b.current, b.first, b.open = at, at, true
	return b
}

func (b *Builder) LineTo(to curve.Point) *Builder {
	b.events = append(b.events, Line{From: b.current, To: to})
	b.current = to
	return b
}

func (b *Builder) QuadTo(ctrl, to curve.Point) *Builder {
	b.events = append(b.events, Quadratic{From: b.current, Ctrl: ctrl, To: to})
	b.current = to
	return b
}

func (b *Builder) CubicTo(ctrl1, ctrl2, to curve.Point) *Builder {
	b.events = append(b.events, Cubic{From: b.current, Ctrl1: ctrl1, Ctrl2: ctrl2, To: to})
	b.current = to
	return b
}

// End closes the current sub-path. It is a no-op without an open sub-path.
func (b *Builder) End(closed bool) *Builder {
	if !b.open {
		return b
	}
	b.events = append(b.events, End{Last: b.current, First: b.first, Closed: closed})
	b.open = false
	return b
}

// Rect appends a closed axis-aligned rectangle.
func (b *Builder) Rect(x, y, w, h float64) *Builder {
	return b.Begin(Pt(x, y)).
		LineTo(Pt(x+w, y)).
		LineTo(Pt(x+w, y+h)).
		LineTo(Pt(x, y+h)).
		End(true)
}

// Ellipse appends a closed ellipse made of four cubic arcs.
func (b *Builder) Ellipse(cx, cy, rx, ry float64) *Builder {
	// k = 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	kx, ky := rx*k, ry*k
	return b.Begin(Pt(cx+rx, cy)).
		CubicTo(Pt(cx+rx, cy+ky), Pt(cx+kx, cy+ry), Pt(cx, cy+ry)).
		CubicTo(Pt(cx-kx, cy+ry), Pt(cx-rx, cy+ky), Pt(cx-rx, cy)).
		CubicTo(Pt(cx-rx, cy-ky), Pt(cx-kx, cy-ry), Pt(cx, cy-ry)).
		CubicTo(Pt(cx+kx, cy-ry), Pt(cx+rx, cy-ky), Pt(cx+rx, cy)).
		End(true)
}

// Events returns the recorded events, ending any open sub-path.
func (b *Builder) Events() []Event {
	b.End(false)
	return b.events
}
