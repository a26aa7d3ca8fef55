// Package text shapes text runs with HarfBuzz and turns the glyph outlines
// into path geometry.
package text

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"honnef.co/go/curve"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/path"
	"github.com/inamate/pathsvg/internal/typeid"
)

// Glyph is one positioned glyph of a shaped run, in run space.
type Glyph struct {
	GID     uint32
	Cluster int
	X, Y    float64
	Advance float64
}

// Shaper implements document.Shaper on top of a FontDB. It is safe for
// concurrent use.
type Shaper struct {
	db   *FontDB
	pool sync.Pool
}

var _ document.Shaper = (*Shaper)(nil)

// NewShaper returns a shaper resolving families against db.
func NewShaper(db *FontDB) *Shaper {
	return &Shaper{
		db: db,
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// DB returns the font database backing the shaper.
func (s *Shaper) DB() *FontDB { return s.db }

// Layout shapes run.Content left to right and returns the glyph positions.
// Y grows downwards.
func (s *Shaper) Layout(run document.TextRun) ([]Glyph, *Font, error) {
	f, err := s.db.Match(run.Families)
	if err != nil {
		return nil, nil, err
	}
	runes := []rune(run.Content)
	if len(runes) == 0 {
		return nil, f, nil
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gtfont.NewFace(f.shape),
		Size:      toFixed(run.Size),
		Script:    scriptOf(runes),
		Language:  language.NewLanguage("en"),
	}
	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	glyphs := make([]Glyph, len(out.Glyphs))
	var pen float64
	for i, g := range out.Glyphs {
		adv := fromFixed(g.Advance)
		glyphs[i] = Glyph{
			GID:     uint32(g.GlyphID),
			Cluster: g.TextIndex(),
			X:       pen + fromFixed(g.XOffset),
			Y:       -fromFixed(g.YOffset),
			Advance: adv,
		}
		pen += adv
	}
	return glyphs, f, nil
}

// Shape returns one shape per glyph with a visible outline. Each shape
// carries the run style and the run transform followed by the glyph offset.
func (s *Shaper) Shape(run document.TextRun) ([]document.ShapeNode, error) {
	glyphs, f, err := s.Layout(run)
	if err != nil {
		return nil, err
	}

	var (
		buf sfnt.Buffer
		out []document.ShapeNode
	)
	ppem := toFixed(run.Size)
	for _, g := range glyphs {
		segs, err := f.sfnt.LoadGlyph(&buf, sfnt.GlyphIndex(g.GID), ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("load glyph %d of %q: %w", g.GID, f.Family, err)
		}
		geo, err := path.Translate(outlineEvents(segs))
		if errors.Is(err, path.ErrEmptyGeometry) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("glyph %d: %w", g.GID, err)
		}
		out = append(out, document.ShapeNode{
			ID:        typeid.NewShapeID(),
			Geometry:  geo,
			Style:     run.Style,
			Transform: run.Transform.Multiply(geom.Translate(g.X, g.Y)),
		})
	}
	Logger().Debug("shaped run", "run", run.ID, "font", f.Family, "glyphs", len(glyphs), "shapes", len(out))
	return out, nil
}

// outlineEvents converts sfnt segments into path events. Every contour is
// closed, as font contours always are.
func outlineEvents(segs sfnt.Segments) []path.Event {
	var (
		events []path.Event
		first  curve.Point
		cur    curve.Point
		open   bool
	)
	closeContour := func() {
		if open {
			events = append(events, path.End{Last: cur, First: first, Closed: true})
			open = false
		}
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			closeContour()
			first = toPoint(seg.Args[0])
			cur = first
			open = true
			events = append(events, path.Begin{At: first})
		case sfnt.SegmentOpLineTo:
			to := toPoint(seg.Args[0])
			events = append(events, path.Line{From: cur, To: to})
			cur = to
		case sfnt.SegmentOpQuadTo:
			to := toPoint(seg.Args[1])
			events = append(events, path.Quadratic{From: cur, Ctrl: toPoint(seg.Args[0]), To: to})
			cur = to
		case sfnt.SegmentOpCubeTo:
			to := toPoint(seg.Args[2])
			events = append(events, path.Cubic{From: cur, Ctrl1: toPoint(seg.Args[0]), Ctrl2: toPoint(seg.Args[1]), To: to})
			cur = to
		}
	}
	closeContour()
	return events
}

func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

func toPoint(p fixed.Point26_6) curve.Point {
	return curve.Point{X: fromFixed(p.X), Y: fromFixed(p.Y)}
}
