package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/scene"
	"github.com/inamate/pathsvg/internal/sink"
	"github.com/inamate/pathsvg/internal/svg"
)

// Engine runs the scene to SVG pipeline: assemble, build, serialize and
// optionally hand the text to a sink. An Engine holds no per-render state
// and is safe for concurrent use when its shaper is.
type Engine struct {
	serializer svg.Serializer
	shaper     document.Shaper
	policy     document.CenterPolicy
}

type Option func(*Engine)

// WithShaper enables text. Without a shaper, scenes with text fail with
// document.ErrMissingFontProvider.
func WithShaper(s document.Shaper) Option {
	return func(e *Engine) { e.shaper = s }
}

func WithSerializer(s svg.Serializer) Option {
	return func(e *Engine) { e.serializer = s }
}

func WithCenterPolicy(p document.CenterPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// New creates an engine writing compact SVG.
func New(opts ...Option) *Engine {
	e := &Engine{serializer: svg.NewEncoder()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is a built document and its SVG text.
type Result struct {
	Document *document.Document
	SVG      string
}

// Assemble builds the document for sc. Scenes without text use a plain
// assembler; scenes with text need the configured shaper.
func (e *Engine) Assemble(sc *scene.Scene) (*document.Document, error) {
	global, err := sc.Transform.Matrix2D()
	if err != nil {
		return nil, fmt.Errorf("scene transform: %w", err)
	}

	if len(sc.Texts) == 0 {
		a := document.New().WithCenterPolicy(e.policy)
		if sc.Transform != nil {
			a.WithGlobalTransform(global)
		}
		if err := pushShapes(sc.Shapes, a.PushNode); err != nil {
			return nil, err
		}
		return a.Build()
	}

	ta := document.NewText(e.shaper).WithCenterPolicy(e.policy)
	if sc.Transform != nil {
		ta.WithGlobalTransform(global)
	}
	if err := pushShapes(sc.Shapes, func(n document.ShapeNode) error { return ta.PushNode(n) }); err != nil {
		return nil, err
	}
	for i, t := range sc.Texts {
		m, err := t.Transform.Matrix2D()
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		fill, stroke, err := t.Style.Paint()
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		if err := ta.PushText(t.Content, t.Families, t.Size, &m, fill, stroke); err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
	}
	return ta.Build()
}

func pushShapes(shapes []scene.Shape, push func(document.ShapeNode) error) error {
	for i, s := range shapes {
		events, err := s.PathEvents()
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		m, err := s.Transform.Matrix2D()
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		fill, stroke, err := s.Style.Paint()
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		n, err := document.BuildShape(events, fill, stroke, &m)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		if s.ID != "" {
			n.ID = s.ID
		}
		if err := push(n); err != nil {
			return err
		}
	}
	return nil
}

// Render assembles and serializes sc.
func (e *Engine) Render(ctx context.Context, sc *scene.Scene) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := e.Assemble(sc)
	if err != nil {
		return nil, err
	}
	text, err := e.serializer.Serialize(doc)
	if err != nil {
		return nil, err
	}
	slog.Debug("scene rendered", "scene", sc.ID, "shapes", len(sc.Shapes), "texts", len(sc.Texts), "bytes", len(text))
	return &Result{Document: doc, SVG: text}, nil
}

// Export renders sc and writes the SVG to dest through s.
func (e *Engine) Export(ctx context.Context, sc *scene.Scene, s sink.Sink, dest string) (*Result, error) {
	res, err := e.Render(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := s.Write(ctx, res.SVG, dest); err != nil {
		return nil, err
	}
	slog.Info("export complete", "scene", sc.ID, "dest", dest, "bytes", len(res.SVG))
	return res, nil
}

// WriteFile renders sc into the file at name.
func (e *Engine) WriteFile(ctx context.Context, sc *scene.Scene, name string) (*Result, error) {
	return e.Export(ctx, sc, sink.File{}, name)
}
