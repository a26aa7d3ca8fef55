// Package svg writes built documents as SVG text and reads simple SVG
// files back into path geometry.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/geom"
)

const namespace = "http://www.w3.org/2000/svg"

// Serializer turns a document into SVG text.
type Serializer interface {
	Serialize(doc *document.Document) (string, error)
}

// Encoder writes documents as SVG 1.1. The zero value writes compact
// output.
type Encoder struct {
	// Indent pretty-prints nested elements with two spaces.
	Indent bool
}

var _ Serializer = (*Encoder)(nil)

// NewEncoder returns an Encoder producing compact output.
func NewEncoder() *Encoder { return &Encoder{} }

// Serialize returns doc as an SVG string.
func (e *Encoder) Serialize(doc *document.Document) (string, error) {
	var buf bytes.Buffer
	if err := e.Encode(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Encode writes doc to w. Every failure is a *document.SerializeError.
func (e *Encoder) Encode(w io.Writer, doc *document.Document) error {
	if doc == nil || len(doc.Tree.Nodes) == 0 {
		return &document.SerializeError{Err: fmt.Errorf("empty document")}
	}
	enc := xml.NewEncoder(w)
	if e.Indent {
		enc.Indent("", "  ")
	}
	x := &xmlWriter{enc: enc, tree: &doc.Tree}

	vb := doc.Viewport.ViewBox()
	root := xml.StartElement{Name: xml.Name{Local: "svg"}}
	addAttr(&root.Attr, "xmlns", namespace)
	addAttr(&root.Attr, "width", num(doc.Viewport.Width))
	addAttr(&root.Attr, "height", num(doc.Viewport.Height))
	addAttr(&root.Attr, "viewBox", strings.Join([]string{num(vb.X), num(vb.Y), num(vb.Width), num(vb.Height)}, " "))

	x.start(root)
	x.node(doc.Tree.Root)
	x.end("svg")
	if x.err == nil {
		x.err = enc.Flush()
	}
	if x.err != nil {
		return &document.SerializeError{Err: x.err}
	}
	return nil
}

// xmlWriter keeps the first error and turns later writes into no-ops.
type xmlWriter struct {
	enc  *xml.Encoder
	tree *document.Tree
	err  error
}

func (x *xmlWriter) start(se xml.StartElement) {
	if x.err == nil {
		x.err = x.enc.EncodeToken(se)
	}
}

func (x *xmlWriter) end(name string) {
	if x.err == nil {
		x.err = x.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
	}
}

func (x *xmlWriter) chars(s string) {
	if x.err == nil {
		x.err = x.enc.EncodeToken(xml.CharData(s))
	}
}

func (x *xmlWriter) node(id document.NodeID) {
	if x.err != nil {
		return
	}
	n := x.tree.Node(id)
	switch n.Kind {
	case document.KindGroup:
		se := xml.StartElement{Name: xml.Name{Local: "g"}}
		addAttr(&se.Attr, "id", n.ID)
		addTransform(&se.Attr, n.Transform)
		x.start(se)
		for _, child := range n.Children {
			x.node(child)
		}
		x.end("g")
	case document.KindShape:
		x.shape(n.Shape)
	case document.KindText:
		x.text(n.Text)
	}
}

func (x *xmlWriter) shape(s *document.ShapeNode) {
	if !s.Geometry.IsFinite() || !s.Transform.IsFinite() {
		x.err = fmt.Errorf("shape %s: non-finite coordinates", s.ID)
		return
	}
	se := xml.StartElement{Name: xml.Name{Local: "path"}}
	addAttr(&se.Attr, "id", s.ID)
	addAttr(&se.Attr, "d", s.Geometry.PathData())
	addPaint(&se.Attr, s.Style)
	addTransform(&se.Attr, s.Transform)
	x.start(se)
	x.end("path")
}

func (x *xmlWriter) text(t *document.TextRun) {
	se := xml.StartElement{Name: xml.Name{Local: "text"}}
	addAttr(&se.Attr, "id", t.ID)
	xs := make([]string, len(t.Positions))
	for i, p := range t.Positions {
		xs[i] = num(p)
	}
	addAttr(&se.Attr, "x", strings.Join(xs, " "))
	addAttr(&se.Attr, "y", "0")
	if len(t.Families) > 0 {
		addAttr(&se.Attr, "font-family", strings.Join(t.Families, ", "))
	}
	addAttr(&se.Attr, "font-size", num(t.Size))
	addPaint(&se.Attr, t.Style)
	addTransform(&se.Attr, t.Transform)
	x.start(se)
	x.chars(t.Content)
	x.end("text")
}

func addAttr(attrs *[]xml.Attr, name, val string) {
	*attrs = append(*attrs, xml.Attr{Name: xml.Name{Local: name}, Value: val})
}

func addTransform(attrs *[]xml.Attr, m geom.Matrix2D) {
	if !m.IsIdentity() {
		addAttr(attrs, "transform", m.String())
	}
}

func addPaint(attrs *[]xml.Attr, s document.PaintStyle) {
	if s.Fill == nil {
		addAttr(attrs, "fill", "none")
	} else {
		addAttr(attrs, "fill", s.Fill.Color.Hex())
		if s.Fill.Opacity != 1 {
			addAttr(attrs, "fill-opacity", num(s.Fill.Opacity))
		}
	}
	if s.Stroke != nil {
		addAttr(attrs, "stroke", s.Stroke.Color.Hex())
		if s.Stroke.Opacity != 1 {
			addAttr(attrs, "stroke-opacity", num(s.Stroke.Opacity))
		}
		addAttr(attrs, "stroke-width", num(s.Stroke.Width))
	}
}

func num(v float64) string { return geom.FormatFloat(v) }
