package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadTransform = errors.New("geom: malformed transform")

// ParseTransform parses an SVG transform list such as
// "translate(10 20) rotate(45)". Functions compose left to right.
func ParseTransform(s string) (Matrix2D, error) {
	m := Identity()
	for _, part := range strings.Split(s, ")") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.TrimLeft(part, ", \t\n")
		name, args, ok := strings.Cut(part, "(")
		if !ok {
			return m, fmt.Errorf("%w: %q", ErrBadTransform, part)
		}
		nums, err := parseNumbers(args)
		if err != nil {
			return m, err
		}
		t, err := transformFunc(strings.ToLower(strings.TrimSpace(name)), nums)
		if err != nil {
			return m, err
		}
		m = m.Multiply(t)
	}
	return m, nil
}

func transformFunc(name string, p []float64) (Matrix2D, error) {
	switch {
	case name == "matrix" && len(p) == 6:
		return Matrix2D{p[0], p[1], p[2], p[3], p[4], p[5]}, nil
	case name == "translate" && len(p) == 1:
		return Translate(p[0], 0), nil
	case name == "translate" && len(p) == 2:
		return Translate(p[0], p[1]), nil
	case name == "scale" && len(p) == 1:
		return Scale(p[0], p[0]), nil
	case name == "scale" && len(p) == 2:
		return Scale(p[0], p[1]), nil
	case name == "rotate" && len(p) == 1:
		return RotateDegrees(p[0]), nil
	case name == "rotate" && len(p) == 3:
		return Translate(p[1], p[2]).Multiply(RotateDegrees(p[0])).Multiply(Translate(-p[1], -p[2])), nil
	case name == "skewx" && len(p) == 1:
		return Skew(p[0], 0), nil
	case name == "skewy" && len(p) == 1:
		return Skew(0, p[0]), nil
	}
	return Identity(), fmt.Errorf("%w: %s with %d arguments", ErrBadTransform, name, len(p))
}

func parseNumbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadTransform, err)
		}
		out = append(out, v)
	}
	return out, nil
}
