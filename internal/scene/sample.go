package scene

import "github.com/inamate/pathsvg/internal/typeid"

func ptr(v float64) *float64 { return &v }

// Sample returns the built-in demo scene.
func Sample() *Scene {
	return &Scene{
		ID:   typeid.NewDocumentID(),
		Name: "Sample",
		Shapes: []Shape{
			{
				ID:    typeid.NewShapeID(),
				Type:  ShapeTypeRect,
				Rect:  &RectData{X: 200, Y: 200, Width: 200, Height: 150},
				Style: Style{Fill: "#e94560", Stroke: "#000000", StrokeWidth: 2},
			},
			{
				ID:      typeid.NewShapeID(),
				Type:    ShapeTypeEllipse,
				Ellipse: &EllipseData{CX: 640, CY: 360, RX: 120, RY: 80},
				Style:   Style{Fill: "#0f3460", Stroke: "#16213e", StrokeWidth: 2},
			},
			{
				ID:   typeid.NewShapeID(),
				Type: ShapeTypePath,
				Events: []EventSpec{
					{Type: EventBegin, Points: [][2]float64{{900, 350}}},
					{Type: EventLine, Points: [][2]float64{{900, 350}, {1000, 200}}},
					{Type: EventLine, Points: [][2]float64{{1000, 200}, {1100, 350}}},
					{Type: EventEnd, Points: [][2]float64{{1100, 350}, {900, 350}}, Closed: true},
				},
				Style: Style{Fill: "#53d769", Stroke: "#2d6a4f", StrokeWidth: 2},
			},
			{
				ID:   typeid.NewShapeID(),
				Type: ShapeTypePath,
				Events: []EventSpec{
					{Type: EventBegin, Points: [][2]float64{{470, 560}}},
					{Type: EventCubic, Points: [][2]float64{{470, 560}, {520, 480}, {600, 640}, {650, 560}}},
					{Type: EventQuad, Points: [][2]float64{{650, 560}, {700, 500}, {760, 560}}},
					{Type: EventEnd, Points: [][2]float64{{760, 560}, {470, 560}}},
				},
				Style: Style{Stroke: "#bd10e0", StrokeOpacity: ptr(0.8), StrokeWidth: 4},
			},
			{
				ID:        typeid.NewShapeID(),
				Type:      ShapeTypeRect,
				Rect:      &RectData{X: -30, Y: -50, Width: 60, Height: 100},
				Transform: &Transform{X: 500, Y: 450, R: 30},
				Style:     Style{Fill: "#f5a623", FillOpacity: ptr(0.9)},
			},
		},
		Texts: []Text{
			{
				Content:   "pathsvg",
				Families:  []string{"Go", "sans-serif"},
				Size:      48,
				Transform: &Transform{X: 200, Y: 120},
				Style:     Style{Fill: "#1a1a2e"},
			},
		},
	}
}
