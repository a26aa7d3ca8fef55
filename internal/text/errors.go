package text

import "errors"

var (
	// ErrEmptyFontData is returned when AddFont receives no bytes.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("text: invalid font data")

	// ErrNoFonts is returned when a lookup finds no font at all, not even
	// a fallback.
	ErrNoFonts = errors.New("text: font database is empty")

	// ErrNotFontFile is returned by LoadFile for files without a font
	// extension.
	ErrNotFontFile = errors.New("text: not a font file")
)
