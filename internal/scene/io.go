package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Anything other
// than .yaml or .yml is treated as JSON.
func FormatFromPath(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode reads one scene from r and validates it.
func Decode(r io.Reader, format Format) (*Scene, error) {
	var sc Scene
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
			return nil, fmt.Errorf("decode yaml scene: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&sc); err != nil {
			return nil, fmt.Errorf("decode json scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scene format %q", format)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &sc, nil
}

// Load reads and validates the scene file at name.
func Load(name string) (*Scene, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(name))
}

// Encode writes sc to w in the given format.
func Encode(w io.Writer, sc *Scene, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sc)
	}
	return fmt.Errorf("unknown scene format %q", format)
}
