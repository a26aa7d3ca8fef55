package document

import (
	"fmt"
	"math"
	"slices"

	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/path"
	"github.com/inamate/pathsvg/internal/typeid"
)

// DocumentNode is a pushed node: a ShapeNode or a TextRun.
type DocumentNode interface {
	NodeID() string
	isDocumentNode()
}

// ShapeNode is translated geometry with paint and a local transform.
type ShapeNode struct {
	ID        string
	Geometry  path.Geometry
	Style     PaintStyle
	Transform geom.Matrix2D
}

func (s ShapeNode) NodeID() string { return s.ID }
func (ShapeNode) isDocumentNode()  {}

// TextRun is text awaiting conversion into glyph geometry. A run has a
// single style span covering all of Content.
type TextRun struct {
	ID        string
	Content   string
	Families  []string
	Size      float64
	Style     PaintStyle
	Transform geom.Matrix2D
	// Positions holds the x offset of every character, in character units.
	Positions []float64
}

func (t TextRun) NodeID() string { return t.ID }
func (TextRun) isDocumentNode()  {}

// BuildShape translates events and attaches paint. A nil transform means
// identity. Translation errors are returned unchanged.
func BuildShape(events []path.Event, fill *Fill, stroke *Stroke, transform *geom.Matrix2D) (ShapeNode, error) {
	g, err := path.Translate(events)
	if err != nil {
		return ShapeNode{}, err
	}
	return ShapeNode{
		ID:        typeid.NewShapeID(),
		Geometry:  g,
		Style:     PaintStyle{Fill: fill, Stroke: stroke},
		Transform: orIdentity(transform),
	}, nil
}

// BuildText validates the size and wraps content into a single-span run.
func BuildText(content string, families []string, size float64, transform *geom.Matrix2D, fill *Fill, stroke *Stroke) (TextRun, error) {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return TextRun{}, fmt.Errorf("text size %v: %w", size, ErrInvalidFontSize)
	}
	runes := []rune(content)
	positions := make([]float64, len(runes))
	for i := range positions {
		positions[i] = float64(i)
	}
	return TextRun{
		ID:        typeid.NewTextID(),
		Content:   content,
		Families:  slices.Clone(families),
		Size:      size,
		Style:     PaintStyle{Fill: fill, Stroke: stroke},
		Transform: orIdentity(transform),
		Positions: positions,
	}, nil
}

func orIdentity(m *geom.Matrix2D) geom.Matrix2D {
	if m == nil {
		return geom.Identity()
	}
	return *m
}
