// Package scene defines the JSON and YAML input format of a drawing and
// turns it into path events, paint and transforms.
package scene

import (
	"errors"
	"fmt"

	"honnef.co/go/curve"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/path"
)

// Scene is one drawing: shapes and text runs under an optional global
// transform.
type Scene struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Transform *Transform `json:"transform,omitempty" yaml:"transform,omitempty"`
	Shapes    []Shape    `json:"shapes" yaml:"shapes"`
	Texts     []Text     `json:"texts,omitempty" yaml:"texts,omitempty"`
}

type ShapeType string

const (
	ShapeTypePath    ShapeType = "path"
	ShapeTypeRect    ShapeType = "rect"
	ShapeTypeEllipse ShapeType = "ellipse"
)

type EventType string

const (
	EventBegin EventType = "begin"
	EventLine  EventType = "line"
	EventQuad  EventType = "quad"
	EventCubic EventType = "cubic"
	EventEnd   EventType = "end"
)

// Transform is either a decomposed transform or an SVG transform list in
// Matrix. A zero SX or SY means 1.
type Transform struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	SX     float64 `json:"sx" yaml:"sx"`
	SY     float64 `json:"sy" yaml:"sy"`
	R      float64 `json:"r" yaml:"r"`
	AX     float64 `json:"ax" yaml:"ax"`
	AY     float64 `json:"ay" yaml:"ay"`
	Matrix string  `json:"matrix,omitempty" yaml:"matrix,omitempty"`
}

type Style struct {
	Fill          string   `json:"fill" yaml:"fill"`
	FillOpacity   *float64 `json:"fillOpacity,omitempty" yaml:"fillOpacity,omitempty"`
	Stroke        string   `json:"stroke" yaml:"stroke"`
	StrokeOpacity *float64 `json:"strokeOpacity,omitempty" yaml:"strokeOpacity,omitempty"`
	StrokeWidth   float64  `json:"strokeWidth" yaml:"strokeWidth"`
}

// EventSpec is one path event. Points holds, in order: begin [at];
// line [from, to]; quad [from, ctrl, to]; cubic [from, ctrl1, ctrl2, to];
// end [last, first].
type EventSpec struct {
	Type   EventType    `json:"type" yaml:"type"`
	Points [][2]float64 `json:"points" yaml:"points"`
	Closed bool         `json:"closed,omitempty" yaml:"closed,omitempty"`
}

type RectData struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type EllipseData struct {
	CX float64 `json:"cx" yaml:"cx"`
	CY float64 `json:"cy" yaml:"cy"`
	RX float64 `json:"rx" yaml:"rx"`
	RY float64 `json:"ry" yaml:"ry"`
}

type Shape struct {
	ID        string       `json:"id,omitempty" yaml:"id,omitempty"`
	Type      ShapeType    `json:"type" yaml:"type"`
	Events    []EventSpec  `json:"events,omitempty" yaml:"events,omitempty"`
	Rect      *RectData    `json:"rect,omitempty" yaml:"rect,omitempty"`
	Ellipse   *EllipseData `json:"ellipse,omitempty" yaml:"ellipse,omitempty"`
	Transform *Transform   `json:"transform,omitempty" yaml:"transform,omitempty"`
	Style     Style        `json:"style" yaml:"style"`
}

type Text struct {
	Content   string     `json:"content" yaml:"content"`
	Families  []string   `json:"families" yaml:"families"`
	Size      float64    `json:"size" yaml:"size"`
	Transform *Transform `json:"transform,omitempty" yaml:"transform,omitempty"`
	Style     Style      `json:"style" yaml:"style"`
}

// Matrix2D returns the transform as a matrix. A nil transform is the
// identity.
func (t *Transform) Matrix2D() (geom.Matrix2D, error) {
	if t == nil {
		return geom.Identity(), nil
	}
	if t.Matrix != "" {
		return geom.ParseTransform(t.Matrix)
	}
	sx, sy := t.SX, t.SY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return geom.Compose(t.X, t.Y, sx, sy, t.R, t.AX, t.AY), nil
}

// Paint resolves the style into fill and stroke. An empty or "none" color
// disables that paint. Opacity defaults to 1 and stroke width to 1.
func (s Style) Paint() (*document.Fill, *document.Stroke, error) {
	var (
		fill   *document.Fill
		stroke *document.Stroke
	)
	if s.Fill != "" && s.Fill != "none" {
		c, err := document.ParseColor(s.Fill)
		if err != nil {
			return nil, nil, fmt.Errorf("fill: %w", err)
		}
		fill = document.NewFill(c, opacity(s.FillOpacity))
	}
	if s.Stroke != "" && s.Stroke != "none" {
		c, err := document.ParseColor(s.Stroke)
		if err != nil {
			return nil, nil, fmt.Errorf("stroke: %w", err)
		}
		w := s.StrokeWidth
		if w == 0 {
			w = 1
		}
		if stroke, err = document.NewStroke(c, opacity(s.StrokeOpacity), w); err != nil {
			return nil, nil, err
		}
	}
	return fill, stroke, nil
}

func opacity(v *float64) float64 {
	if v == nil {
		return 1
	}
	return *v
}

var wantPoints = map[EventType]int{
	EventBegin: 1,
	EventLine:  2,
	EventQuad:  3,
	EventCubic: 4,
	EventEnd:   2,
}

// Event checks the point count and builds the path event.
func (e EventSpec) Event() (path.Event, error) {
	n, ok := wantPoints[e.Type]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	if len(e.Points) != n {
		return nil, fmt.Errorf("%s event needs %d points, got %d", e.Type, n, len(e.Points))
	}
	at := func(i int) curve.Point { return path.Pt(e.Points[i][0], e.Points[i][1]) }

	switch e.Type {
	case EventBegin:
		return path.Begin{At: at(0)}, nil
	case EventLine:
		return path.Line{From: at(0), To: at(1)}, nil
	case EventQuad:
		return path.Quadratic{From: at(0), Ctrl: at(1), To: at(2)}, nil
	case EventCubic:
		return path.Cubic{From: at(0), Ctrl1: at(1), Ctrl2: at(2), To: at(3)}, nil
	default:
		return path.End{Last: at(0), First: at(1), Closed: e.Closed}, nil
	}
}

// PathEvents returns the event stream that draws the shape.
func (s Shape) PathEvents() ([]path.Event, error) {
	switch s.Type {
	case ShapeTypeRect:
		if s.Rect == nil {
			return nil, errors.New("rect shape without rect data")
		}
		r := s.Rect
		return path.NewBuilder().Rect(r.X, r.Y, r.Width, r.Height).Events(), nil
	case ShapeTypeEllipse:
		if s.Ellipse == nil {
			return nil, errors.New("ellipse shape without ellipse data")
		}
		e := s.Ellipse
		return path.NewBuilder().Ellipse(e.CX, e.CY, e.RX, e.RY).Events(), nil
	case ShapeTypePath, "":
		events := make([]path.Event, 0, len(s.Events))
		for i, es := range s.Events {
			ev, err := es.Event()
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			events = append(events, ev)
		}
		return events, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", s.Type)
}

// Validate checks every shape and text run without building anything and
// reports all problems at once.
func (sc *Scene) Validate() error {
	var errs []error
	if _, err := sc.Transform.Matrix2D(); err != nil {
		errs = append(errs, fmt.Errorf("scene transform: %w", err))
	}
	for i, s := range sc.Shapes {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("shape %d%s: %w", i, label(s.ID), err))
		}
	}
	for i, t := range sc.Texts {
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("text %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (s Shape) validate() error {
	events, err := s.PathEvents()
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return document.ErrEmptyGeometry
	}
	if _, err := s.Transform.Matrix2D(); err != nil {
		return err
	}
	_, _, err = s.Style.Paint()
	return err
}

func (t Text) validate() error {
	if _, err := document.BuildText(t.Content, t.Families, t.Size, nil, nil, nil); err != nil {
		return err
	}
	if _, err := t.Transform.Matrix2D(); err != nil {
		return err
	}
	_, _, err := t.Style.Paint()
	return err
}

func label(id string) string {
	if id == "" {
		return ""
	}
	return " (" + id + ")"
}
