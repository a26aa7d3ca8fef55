package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixGroup    = "group"
	PrefixShape    = "shape"
	PrefixText     = "text"
	PrefixDocument = "doc"
	PrefixExport   = "exp"
	PrefixFont     = "font"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewGroupID() string    { return New(PrefixGroup) }
func NewShapeID() string    { return New(PrefixShape) }
func NewTextID() string     { return New(PrefixText) }
func NewDocumentID() string { return New(PrefixDocument) }
func NewExportID() string   { return New(PrefixExport) }
func NewFontID() string     { return New(PrefixFont) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
