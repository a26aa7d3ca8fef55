package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/path"
)

// ErrorMode selects how the decoder treats elements it does not know.
type ErrorMode int

const (
	// IgnoreErrorMode skips unknown elements, logging them at debug level.
	IgnoreErrorMode ErrorMode = iota
	// StrictErrorMode fails on the first unknown element.
	StrictErrorMode
)

// ErrInvalidSVG is returned for input without any element.
var ErrInvalidSVG = errors.New("svg: no svg element found")

// ParsedPath is one path or rect read back from a file. Transform is the
// accumulated transform of the element and its ancestors.
type ParsedPath struct {
	ID        string
	Geometry  path.Geometry
	Fill      *document.Fill
	Stroke    *document.Stroke
	Transform geom.Matrix2D
}

// Parsed is the outcome of decoding an SVG file.
type Parsed struct {
	ViewBox       geom.Rect
	Width, Height float64
	Paths         []ParsedPath
}

// Bounds returns the union of every path's bounds in document space.
func (p *Parsed) Bounds() geom.Rect {
	var out geom.Rect
	for _, pp := range p.Paths {
		out = out.Union(pp.Transform.TransformRect(pp.Geometry.Bounds()))
	}
	return out
}

type decodeCursor struct {
	parsed     *Parsed
	transforms []geom.Matrix2D
	errorMode  ErrorMode
}

func (c *decodeCursor) current() geom.Matrix2D {
	return c.transforms[len(c.transforms)-1]
}

type elementFunc func(c *decodeCursor, attrs []xml.Attr) error

var elementFuncs = map[string]elementFunc{
	"svg":  svgF,
	"g":    groupF,
	"path": pathF,
	"rect": rectF,
}

// Decode reads SVG from r.
func Decode(r io.Reader, mode ErrorMode) (*Parsed, error) {
	c := &decodeCursor{
		parsed:     &Parsed{},
		transforms: []geom.Matrix2D{geom.Identity()},
		errorMode:  mode,
	}
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	seen := false
	for {
		t, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read svg: %w", err)
		}
		switch se := t.(type) {
		case xml.StartElement:
			seen = true
			if err := c.startElement(se); err != nil {
				return nil, err
			}
		case xml.EndElement:
			c.transforms = c.transforms[:len(c.transforms)-1]
		}
	}
	if !seen {
		return nil, ErrInvalidSVG
	}
	return c.parsed, nil
}

// DecodeFile opens and decodes the named file.
func DecodeFile(name string, mode ErrorMode) (*Parsed, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, mode)
}

// startElement pushes the element's transform and runs its handler. Every
// start element pushes exactly one transform so end elements can pop.
func (c *decodeCursor) startElement(se xml.StartElement) error {
	m := c.current()
	if v, ok := attr(se.Attr, "transform"); ok {
		t, err := geom.ParseTransform(v)
		if err != nil {
			return fmt.Errorf("<%s>: %w", se.Name.Local, err)
		}
		m = m.Multiply(t)
	}
	c.transforms = append(c.transforms, m)

	fn, ok := elementFuncs[se.Name.Local]
	if !ok {
		if c.errorMode == StrictErrorMode {
			return fmt.Errorf("cannot process svg element %s", se.Name.Local)
		}
		slog.Debug("skipping svg element", "element", se.Name.Local)
		return nil
	}
	if err := fn(c, se.Attr); err != nil {
		return fmt.Errorf("<%s>: %w", se.Name.Local, err)
	}
	return nil
}

func svgF(c *decodeCursor, attrs []xml.Attr) error {
	var err error
	for _, a := range attrs {
		switch a.Name.Local {
		case "viewBox":
			var vs []float64
			vs, err = floats(a.Value)
			if err == nil && len(vs) != 4 {
				err = errParamMismatch
			}
			if err == nil {
				c.parsed.ViewBox = geom.Rect{X: vs[0], Y: vs[1], Width: vs[2], Height: vs[3]}
			}
		case "width":
			c.parsed.Width, err = length(a.Value)
		case "height":
			c.parsed.Height, err = length(a.Value)
		}
		if err != nil {
			return err
		}
	}
	if c.parsed.ViewBox.Width == 0 {
		c.parsed.ViewBox.Width = c.parsed.Width
	}
	if c.parsed.ViewBox.Height == 0 {
		c.parsed.ViewBox.Height = c.parsed.Height
	}
	return nil
}

func groupF(*decodeCursor, []xml.Attr) error { return nil }

func pathF(c *decodeCursor, attrs []xml.Attr) error {
	d, _ := attr(attrs, "d")
	g, err := ParsePathData(d)
	if errors.Is(err, path.ErrEmptyGeometry) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.add(attrs, g)
}

func rectF(c *decodeCursor, attrs []xml.Attr) error {
	var x, y, w, h float64
	var err error
	for _, a := range attrs {
		switch a.Name.Local {
		case "x":
			x, err = length(a.Value)
		case "y":
			y, err = length(a.Value)
		case "width":
			w, err = length(a.Value)
		case "height":
			h, err = length(a.Value)
		}
		if err != nil {
			return err
		}
	}
	if w == 0 || h == 0 {
		return nil
	}
	g, err := path.Translate(path.NewBuilder().Rect(x, y, w, h).Events())
	if err != nil {
		return err
	}
	return c.add(attrs, g)
}

func (c *decodeCursor) add(attrs []xml.Attr, g path.Geometry) error {
	pp := ParsedPath{Geometry: g, Transform: c.current()}
	pp.ID, _ = attr(attrs, "id")

	fill, fillOpacity := "black", 1.0
	var stroke string
	strokeOpacity, strokeWidth := 1.0, 1.0
	var err error
	for _, a := range attrs {
		switch a.Name.Local {
		case "fill":
			fill = a.Value
		case "fill-opacity":
			fillOpacity, err = strconv.ParseFloat(a.Value, 64)
		case "stroke":
			stroke = a.Value
		case "stroke-opacity":
			strokeOpacity, err = strconv.ParseFloat(a.Value, 64)
		case "stroke-width":
			strokeWidth, err = length(a.Value)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", a.Name.Local, err)
		}
	}

	if fill != "none" {
		col, err := document.ParseColor(fill)
		if err != nil {
			return err
		}
		pp.Fill = document.NewFill(col, fillOpacity)
	}
	if stroke != "" && stroke != "none" {
		col, err := document.ParseColor(stroke)
		if err != nil {
			return err
		}
		if pp.Stroke, err = document.NewStroke(col, strokeOpacity, strokeWidth); err != nil {
			return err
		}
	}
	c.parsed.Paths = append(c.parsed.Paths, pp)
	return nil
}

func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// length parses a number with an optional px suffix.
func length(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
}

func floats(v string) ([]float64, error) {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]float64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
