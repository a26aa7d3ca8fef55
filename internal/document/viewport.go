package document

import (
	"fmt"
	"math"

	"github.com/inamate/pathsvg/internal/geom"
)

// minExtent replaces a non-positive viewport width or height.
const minExtent = 2.0

// CenterPolicy selects how the viewport center is derived.
type CenterPolicy int

const (
	// CenterBoundingBox centers the viewport on the union box of all shapes.
	CenterBoundingBox CenterPolicy = iota
	// CenterMeanOfNodes averages the midpoints of the shape boxes, dividing
	// by the number of all nodes including text. Reproduces legacy output.
	CenterMeanOfNodes
)

// ParseCenterPolicy maps "bbox" and "mean" to a policy.
func ParseCenterPolicy(s string) (CenterPolicy, error) {
	switch s {
	case "", "bbox":
		return CenterBoundingBox, nil
	case "mean":
		return CenterMeanOfNodes, nil
	}
	return CenterBoundingBox, fmt.Errorf("unknown center policy %q", s)
}

func (p CenterPolicy) String() string {
	if p == CenterMeanOfNodes {
		return "mean"
	}
	return "bbox"
}

// Viewport is the visible region of a document. It is derived from the node
// set on every build.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
}

// ViewBox returns min-x, min-y, width and height of the SVG viewBox.
func (v Viewport) ViewBox() geom.Rect {
	return geom.Rect{
		X:      v.CenterX - v.Width/2,
		Y:      v.CenterY - v.Height/2,
		Width:  v.Width,
		Height: v.Height,
	}
}

// computeViewport folds the local bounds of every shape into one box that
// always contains the origin. Text nodes add nothing to the box but count
// towards the node total used by CenterMeanOfNodes.
func computeViewport(nodes []DocumentNode, policy CenterPolicy) (Viewport, error) {
	box := geom.Rect{}
	var sumX, sumY float64
	for _, n := range nodes {
		s, ok := n.(ShapeNode)
		if !ok {
			continue
		}
		b := s.Geometry.Bounds()
		box = box.Extend(b)
		cx, cy := b.Center()
		sumX += cx
		sumY += cy
	}

	v := Viewport{Width: box.Width, Height: box.Height}
	if v.Width <= 0 {
		v.Width = minExtent
	}
	if v.Height <= 0 {
		v.Height = minExtent
	}

	switch policy {
	case CenterMeanOfNodes:
		if len(nodes) > 0 {
			v.CenterX = sumX / float64(len(nodes))
			v.CenterY = sumY / float64(len(nodes))
		}
	default:
		v.CenterX, v.CenterY = box.Center()
	}

	if !finite(v.Width, v.Height, v.CenterX, v.CenterY) {
		return Viewport{}, fmt.Errorf("viewport %+v: %w", v, ErrDegenerateViewport)
	}
	return v, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
