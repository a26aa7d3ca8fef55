package svg

import (
	"errors"
	"fmt"
	"strconv"

	"honnef.co/go/curve"

	"github.com/inamate/pathsvg/internal/path"
)

var (
	errParamMismatch = errors.New("svg: wrong number of parameters")
	errUnsupported   = errors.New("svg: unsupported path command")
)

// pathCursor holds the scanning state of one path data string.
type pathCursor struct {
	s   string
	i   int
	out curve.BezPath

	cur, start, lastCtrl curve.Point
	prev                 byte
	needMove             bool
}

// ParsePathData reads SVG path data. Arcs are not supported.
func ParsePathData(d string) (path.Geometry, error) {
	c := &pathCursor{s: d}
	if err := c.run(); err != nil {
		return path.Geometry{}, err
	}
	return path.FromElements(c.out)
}

func (c *pathCursor) run() error {
	var cmd byte
	for {
		c.skipSeparators()
		if c.i >= len(c.s) {
			return nil
		}
		if ch := c.s[c.i]; isLetter(ch) {
			cmd = ch
			c.i++
		} else if cmd == 0 {
			return fmt.Errorf("path data at %d: expected command, got %q", c.i, ch)
		}
		next, err := c.apply(cmd)
		if err != nil {
			return fmt.Errorf("path command %c: %w", cmd, err)
		}
		c.prev = upper(cmd)
		cmd = next
	}
}

// apply consumes the parameters of one command and returns the command an
// implicit repeat uses.
func (c *pathCursor) apply(cmd byte) (byte, error) {
	rel := cmd >= 'a'
	abs := func(p curve.Point) curve.Point {
		if rel {
			return curve.Point{X: c.cur.X + p.X, Y: c.cur.Y + p.Y}
		}
		return p
	}

	switch upper(cmd) {
	case 'M':
		p, err := c.point()
		if err != nil {
			return 0, err
		}
		p = abs(p)
		c.out.MoveTo(p)
		c.cur, c.start = p, p
		c.needMove = false
		if rel {
			return 'l', nil
		}
		return 'L', nil
	case 'L':
		p, err := c.point()
		if err != nil {
			return 0, err
		}
		c.lineTo(abs(p))
	case 'H':
		v, err := c.number()
		if err != nil {
			return 0, err
		}
		if rel {
			v += c.cur.X
		}
		c.lineTo(curve.Point{X: v, Y: c.cur.Y})
	case 'V':
		v, err := c.number()
		if err != nil {
			return 0, err
		}
		if rel {
			v += c.cur.Y
		}
		c.lineTo(curve.Point{X: c.cur.X, Y: v})
	case 'Q':
		pts, err := c.points(2)
		if err != nil {
			return 0, err
		}
		c.quadTo(abs(pts[0]), abs(pts[1]))
	case 'T':
		p, err := c.point()
		if err != nil {
			return 0, err
		}
		ctrl := c.cur
		if c.prev == 'Q' || c.prev == 'T' {
			ctrl = c.reflect()
		}
		c.quadTo(ctrl, abs(p))
	case 'C':
		pts, err := c.points(3)
		if err != nil {
			return 0, err
		}
		c.cubicTo(abs(pts[0]), abs(pts[1]), abs(pts[2]))
	case 'S':
		pts, err := c.points(2)
		if err != nil {
			return 0, err
		}
		ctrl := c.cur
		if c.prev == 'C' || c.prev == 'S' {
			ctrl = c.reflect()
		}
		c.cubicTo(ctrl, abs(pts[0]), abs(pts[1]))
	case 'Z':
		c.out.ClosePath()
		c.cur = c.start
		c.needMove = true
		return 0, nil
	default:
		return 0, fmt.Errorf("%w %q", errUnsupported, cmd)
	}
	return cmd, nil
}

func (c *pathCursor) ensureMove() {
	if c.needMove || len(c.out) == 0 {
		c.out.MoveTo(c.cur)
		c.start = c.cur
		c.needMove = false
	}
}

func (c *pathCursor) lineTo(p curve.Point) {
	c.ensureMove()
	c.out.LineTo(p)
	c.cur = p
}

func (c *pathCursor) quadTo(ctrl, p curve.Point) {
	c.ensureMove()
	c.out.QuadTo(ctrl, p)
	c.lastCtrl, c.cur = ctrl, p
}

func (c *pathCursor) cubicTo(c1, c2, p curve.Point) {
	c.ensureMove()
	c.out.CubicTo(c1, c2, p)
	c.lastCtrl, c.cur = c2, p
}

// reflect mirrors the last control point about the current point.
func (c *pathCursor) reflect() curve.Point {
	return curve.Point{X: 2*c.cur.X - c.lastCtrl.X, Y: 2*c.cur.Y - c.lastCtrl.Y}
}

func (c *pathCursor) point() (curve.Point, error) {
	x, err := c.number()
	if err != nil {
		return curve.Point{}, err
	}
	y, err := c.number()
	if err != nil {
		return curve.Point{}, err
	}
	return curve.Point{X: x, Y: y}, nil
}

func (c *pathCursor) points(n int) ([]curve.Point, error) {
	out := make([]curve.Point, n)
	for i := range out {
		p, err := c.point()
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// number scans one float. "1.5.5" reads as 1.5 followed by .5.
func (c *pathCursor) number() (float64, error) {
	c.skipSeparators()
	j := c.i
	if j < len(c.s) && (c.s[j] == '+' || c.s[j] == '-') {
		j++
	}
	digits := 0
	for j < len(c.s) && isDigit(c.s[j]) {
		j++
		digits++
	}
	if j < len(c.s) && c.s[j] == '.' {
		j++
		for j < len(c.s) && isDigit(c.s[j]) {
			j++
			digits++
		}
	}
	if digits == 0 {
		return 0, errParamMismatch
	}
	if j < len(c.s) && (c.s[j] == 'e' || c.s[j] == 'E') {
		k := j + 1
		if k < len(c.s) && (c.s[k] == '+' || c.s[k] == '-') {
			k++
		}
		if k < len(c.s) && isDigit(c.s[k]) {
			for k < len(c.s) && isDigit(c.s[k]) {
				k++
			}
			j = k
		}
	}
	v, err := strconv.ParseFloat(c.s[c.i:j], 64)
	if err != nil {
		return 0, err
	}
	c.i = j
	return v, nil
}

func (c *pathCursor) skipSeparators() {
	for c.i < len(c.s) {
		switch c.s[c.i] {
		case ' ', ',', '\t', '\n', '\r':
			c.i++
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z' && b != 'e') || (b >= 'A' && b <= 'Z' && b != 'E')
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
