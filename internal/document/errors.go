package document

import (
	"errors"
	"fmt"

	"github.com/inamate/pathsvg/internal/path"
)

var (
	// ErrEmptyGeometry is returned when a path produced no drawing commands.
	ErrEmptyGeometry = path.ErrEmptyGeometry

	ErrInvalidFontSize      = errors.New("pathsvg: font size must be a finite positive number")
	ErrInvalidStrokeWidth   = errors.New("pathsvg: stroke width must be a finite positive number")
	ErrDegenerateViewport   = errors.New("pathsvg: degenerate viewport")
	ErrMissingFontProvider  = errors.New("pathsvg: no font provider configured")
	ErrFontFailure          = errors.New("pathsvg: font shaping failed")
	ErrSerializationFailure = errors.New("pathsvg: serialization failed")
	ErrIO                   = errors.New("pathsvg: output failed")
	ErrAssemblerSpent       = errors.New("pathsvg: assembler already built")

	// ErrNoFontProvider is an alias kept for callers matching the older name.
	ErrNoFontProvider = ErrMissingFontProvider
)

// FontError reports a shaper failure for one text run.
type FontError struct {
	RunID string
	Err   error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("pathsvg: shape text run %s: %v", e.RunID, e.Err)
}

func (e *FontError) Unwrap() error { return e.Err }

func (e *FontError) Is(target error) bool { return target == ErrFontFailure }

// SerializeError wraps a serializer failure.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("pathsvg: serialize document: %v", e.Err)
}

func (e *SerializeError) Unwrap() error { return e.Err }

func (e *SerializeError) Is(target error) bool { return target == ErrSerializationFailure }

// IOError wraps an output sink failure together with its destination.
type IOError struct {
	Dest string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("pathsvg: write %s: %v", e.Dest, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
