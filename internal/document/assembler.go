package document

import (
	"slices"

	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/path"
)

// Shaper converts a text run into glyph shapes whose transforms already
// include the run transform. Implementations own their font database.
type Shaper interface {
	Shape(run TextRun) ([]ShapeNode, error)
}

// Document is a built tree together with its viewport.
type Document struct {
	Viewport Viewport
	Tree     Tree
}

// nodeSet is the state shared by both assembler flavours.
type nodeSet struct {
	nodes  []DocumentNode
	global *geom.Matrix2D
	policy CenterPolicy
	spent  bool
}

func (s *nodeSet) pushShape(events []path.Event, fill *Fill, stroke *Stroke, transform *geom.Matrix2D) error {
	if s.spent {
		return ErrAssemblerSpent
	}
	n, err := BuildShape(events, fill, stroke, transform)
	if err != nil {
		return err
	}
	s.nodes = append(s.nodes, n)
	return nil
}

func (s *nodeSet) pushNode(n DocumentNode) error {
	if s.spent {
		return ErrAssemblerSpent
	}
	s.nodes = append(s.nodes, n)
	return nil
}

// build computes the viewport, orders the nodes and lays out the tree.
func (s *nodeSet) build() (*Document, error) {
	if s.spent {
		return nil, ErrAssemblerSpent
	}
	s.spent = true

	vp, err := computeViewport(s.nodes, s.policy)
	if err != nil {
		return nil, err
	}

	ordered := slices.Clone(s.nodes)
	slices.SortStableFunc(ordered, func(a, b DocumentNode) int {
		return paintRank(a) - paintRank(b)
	})

	var tree Tree
	tree.Root = tree.addGroup(geom.Identity())
	content := tree.addGroup(orIdentity(s.global))
	tree.appendChild(tree.Root, content)
	for _, n := range ordered {
		tree.appendChild(content, tree.addDocumentNode(n))
	}

	s.nodes = nil
	return &Document{Viewport: vp, Tree: tree}, nil
}

// paintRank puts shapes first, ordered by their style key, and text last.
func paintRank(n DocumentNode) int {
	if s, ok := n.(ShapeNode); ok {
		return s.Style.orderKey()
	}
	return 4
}

// Assembler collects shapes and builds a Document. It has no text support;
// call WithFonts to obtain a TextAssembler. An Assembler is single-use and
// not safe for concurrent use.
type Assembler struct {
	set nodeSet
}

// New returns an empty Assembler.
func New() *Assembler {
	return &Assembler{}
}

// PushShape translates events into a shape and appends it. On error nothing
// is appended.
func (a *Assembler) PushShape(events []path.Event, fill *Fill, stroke *Stroke, transform *geom.Matrix2D) error {
	return a.set.pushShape(events, fill, stroke, transform)
}

// PushNode appends an already built shape as is. Text runs need a
// TextAssembler.
func (a *Assembler) PushNode(n ShapeNode) error {
	return a.set.pushNode(n)
}

// WithGlobalTransform sets the transform of the group wrapping all nodes,
// replacing any earlier value.
func (a *Assembler) WithGlobalTransform(m geom.Matrix2D) *Assembler {
	a.set.global = &m
	return a
}

// WithCenterPolicy selects how the viewport center is computed.
func (a *Assembler) WithCenterPolicy(p CenterPolicy) *Assembler {
	a.set.policy = p
	return a
}

// Len returns the number of pushed nodes.
func (a *Assembler) Len() int { return len(a.set.nodes) }

// WithFonts moves the collected nodes into a text-capable assembler backed
// by shaper. The receiver is spent afterwards.
func (a *Assembler) WithFonts(shaper Shaper) *TextAssembler {
	ta := &TextAssembler{set: a.set, shaper: shaper}
	a.set = nodeSet{spent: true}
	return ta
}

// Build lays out the document. The assembler cannot be used afterwards.
func (a *Assembler) Build() (*Document, error) {
	return a.set.build()
}

// TextAssembler is an Assembler that also accepts text runs and flattens
// them into glyph geometry on Build.
type TextAssembler struct {
	set    nodeSet
	shaper Shaper
}

// NewText returns an empty TextAssembler using shaper.
func NewText(shaper Shaper) *TextAssembler {
	return New().WithFonts(shaper)
}

func (a *TextAssembler) PushShape(events []path.Event, fill *Fill, stroke *Stroke, transform *geom.Matrix2D) error {
	return a.set.pushShape(events, fill, stroke, transform)
}

// PushText builds a run and appends it. On error nothing is appended.
func (a *TextAssembler) PushText(content string, families []string, size float64, transform *geom.Matrix2D, fill *Fill, stroke *Stroke) error {
	if a.set.spent {
		return ErrAssemblerSpent
	}
	run, err := BuildText(content, families, size, transform, fill, stroke)
	if err != nil {
		return err
	}
	return a.set.pushNode(run)
}

// PushNode appends a shape or a text run as is.
func (a *TextAssembler) PushNode(n DocumentNode) error {
	return a.set.pushNode(n)
}

func (a *TextAssembler) WithGlobalTransform(m geom.Matrix2D) *TextAssembler {
	a.set.global = &m
	return a
}

func (a *TextAssembler) WithCenterPolicy(p CenterPolicy) *TextAssembler {
	a.set.policy = p
	return a
}

func (a *TextAssembler) Len() int { return len(a.set.nodes) }

// Build lays out the document and replaces every text run with a group of
// glyph shapes produced by the shaper. Text runs keep their id on the
// replacing group. Any shaper failure fails the whole build.
func (a *TextAssembler) Build() (*Document, error) {
	if a.shaper == nil && !a.set.spent {
		a.set.spent = true
		return nil, ErrMissingFontProvider
	}
	doc, err := a.set.build()
	if err != nil {
		return nil, err
	}
	if err := flattenText(&doc.Tree, a.shaper); err != nil {
		return nil, err
	}
	return doc, nil
}

func flattenText(t *Tree, shaper Shaper) error {
	children := slices.Clone(t.Content().Children)
	for _, child := range children {
		n := t.Node(child)
		if n.Kind != KindText {
			continue
		}
		run := *n.Text
		glyphs, err := shaper.Shape(run)
		if err != nil {
			return &FontError{RunID: run.ID, Err: err}
		}

		// The glyph shapes already carry the run transform.
		n.Kind = KindGroup
		n.Text = nil
		n.Transform = geom.Identity()
		for _, g := range glyphs {
			id := t.add(Node{ID: g.ID, Kind: KindShape, Transform: g.Transform, Shape: &g})
			t.appendChild(child, id)
		}
	}
	return nil
}
