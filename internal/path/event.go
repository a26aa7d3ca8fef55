// Package path turns streams of path-construction events into normalized
// path geometry.
package path

import (
	"fmt"

	"honnef.co/go/curve"
)

// Pt is shorthand for a curve.Point.
func Pt(x, y float64) curve.Point {
	return curve.Point{X: x, Y: y}
}

// Event is one drawing instruction of a path. The concrete types are Begin,
// Line, Quadratic, Cubic and End.
type Event interface {
	isEvent()
}

// Begin starts a sub-path at At.
type Begin struct {
	At curve.Point
}

// Line is a straight segment.
type Line struct {
	From, To curve.Point
}

// Quadratic is a quadratic Bézier segment.
type Quadratic struct {
	From, Ctrl, To curve.Point
}

// Cubic is a cubic Bézier segment.
type Cubic struct {
	From, Ctrl1, Ctrl2, To curve.Point
}

// End finishes a sub-path. Last is where the sub-path stopped and First is
// where it began; Closed requests a closing segment back to First.
type End struct {
	Last, First curve.Point
	Closed      bool
}

func (Begin) isEvent()     {}
func (Line) isEvent()      {}
func (Quadratic) isEvent() {}
func (Cubic) isEvent()     {}
func (End) isEvent()       {}

func (e Begin) String() string { return fmt.Sprintf("Begin(%v)", e.At) }
func (e Line) String() string  { return fmt.Sprintf("Line(%v -> %v)", e.From, e.To) }
func (e End) String() string {
	return fmt.Sprintf("End(last=%v first=%v closed=%t)", e.Last, e.First, e.Closed)
}
