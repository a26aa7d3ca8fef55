package document

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an opaque RGB paint color. Transparency lives in the Fill and
// Stroke opacity fields.
type Color struct {
	R, G, B uint8
}

// RGB returns a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// RGBA implements color.Color with full alpha.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// ParseColor accepts #rgb, #rrggbb, rgb(r, g, b) and SVG color keywords.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("parse color %q: want 3 components", s)
		}
		var out [3]uint8
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return Color{}, fmt.Errorf("parse color %q: bad component %q", s, p)
			}
			out[i] = uint8(v)
		}
		return RGB(out[0], out[1], out[2]), nil
	}
	if c, ok := colornames.Map[s]; ok {
		return RGB(c.R, c.G, c.B), nil
	}
	return Color{}, fmt.Errorf("parse color %q: unknown color", s)
}

func parseHex(h string) (Color, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("parse color #%s: want 3 or 6 hex digits", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color #%s: %w", h, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Fill paints the interior of a shape.
type Fill struct {
	Color   Color
	Opacity float64
}

// Stroke paints the outline of a shape.
type Stroke struct {
	Color   Color
	Opacity float64
	Width   float64
}

// NewFill returns a fill with opacity clamped to [0, 1].
func NewFill(c Color, opacity float64) *Fill {
	return &Fill{Color: c, Opacity: clampOpacity(opacity)}
}

// NewStroke returns a stroke with opacity clamped to [0, 1]. The width must
// be finite and positive.
func NewStroke(c Color, opacity, width float64) (*Stroke, error) {
	if !isPositive(width) {
		return nil, fmt.Errorf("stroke width %v: %w", width, ErrInvalidStrokeWidth)
	}
	return &Stroke{Color: c, Opacity: clampOpacity(opacity), Width: width}, nil
}

// PaintStyle is the optional fill and stroke of a node.
type PaintStyle struct {
	Fill   *Fill
	Stroke *Stroke
}

// orderKey is 2*fill + stroke: unstyled, stroke only, fill only, both.
func (s PaintStyle) orderKey() int {
	k := 0
	if s.Fill != nil {
		k += 2
	}
	if s.Stroke != nil {
		k++
	}
	return k
}

func clampOpacity(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}

func isPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
