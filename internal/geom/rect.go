package geom

import "math"

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCorners builds a rect from its min and max corners.
func RectFromCorners(minX, minY, maxX, maxY float64) Rect {
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Min returns the top-left corner.
func (r Rect) Min() (float64, float64) {
	return r.X, r.Y
}

// Max returns the bottom-right corner.
func (r Rect) Max() (float64, float64) {
	return r.X + r.Width, r.Y + r.Height
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsFinite reports whether all fields are finite.
func (r Rect) IsFinite() bool {
	for _, v := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Union returns the smallest rect containing both rects. Empty rects are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return r.Extend(other)
}

// Extend returns the min/max fold of both rects. Unlike Union, degenerate
// rects still contribute their corners.
func (r Rect) Extend(other Rect) Rect {
	rx1, ry1 := r.Max()
	ox1, oy1 := other.Max()
	return RectFromCorners(
		min(r.X, other.X), min(r.Y, other.Y),
		max(rx1, ox1), max(ry1, oy1),
	)
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}
