package text

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/inamate/pathsvg/internal/typeid"
)

// Font is one parsed face. The go-text font drives shaping and the sfnt
// font provides outlines; both are read-only and safe to share.
type Font struct {
	ID       string
	Family   string
	FullName string
	shape    *gtfont.Font
	sfnt     *sfnt.Font
}

// FontDB holds fonts keyed by lower-cased family and full name. The first
// font registered becomes the fallback for unmatched families.
type FontDB struct {
	mu       sync.RWMutex
	fonts    []*Font
	byName   map[string]*Font
	fallback *Font
}

// NewFontDB returns a database seeded with Go Regular as the fallback.
func NewFontDB() *FontDB {
	db := NewEmptyFontDB()
	if _, err := db.AddFont(goregular.TTF); err != nil {
		panic(fmt.Sprintf("text: bundled font: %v", err))
	}
	return db
}

// NewEmptyFontDB returns a database without any font.
func NewEmptyFontDB() *FontDB {
	return &FontDB{byName: make(map[string]*Font)}
}

// AddFont parses a TrueType or OpenType font and registers it under its
// family and full names. A later font with the same family takes over the
// family key; the earlier one stays reachable by full name.
func (db *FontDB) AddFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse outlines: %w: %w", ErrInvalidFont, err)
	}
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse shaping tables: %w: %w", ErrInvalidFont, err)
	}

	var buf sfnt.Buffer
	family, err := sf.Name(&buf, sfnt.NameIDFamily)
	if err != nil || family == "" {
		family = "unnamed"
	}
	full, err := sf.Name(&buf, sfnt.NameIDFull)
	if err != nil || full == "" {
		full = family
	}

	f := &Font{ID: typeid.NewFontID(), Family: family, FullName: full, shape: face.Font, sfnt: sf}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.fonts = append(db.fonts, f)
	db.byName[strings.ToLower(family)] = f
	db.byName[strings.ToLower(full)] = f
	if db.fallback == nil {
		db.fallback = f
	}
	Logger().Debug("font registered", "family", family, "id", f.ID)
	return f, nil
}

// LoadFile reads and registers a single .ttf or .otf file.
func (db *FontDB) LoadFile(name string) (*Font, error) {
	if !isFontFile(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFontFile)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := db.AddFont(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// LoadDir registers every font file below dir. Files that fail to parse
// are logged and skipped. It returns the number of fonts added.
func (db *FontDB) LoadDir(dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isFontFile(p) {
			return nil
		}
		if _, err := db.LoadFile(p); err != nil {
			Logger().Debug("skipping font", "path", p, "error", err)
			return nil
		}
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("load font dir: %w", err)
	}
	Logger().Info("fonts loaded", "dir", dir, "count", n)
	return n, nil
}

// Families returns the distinct registered family names, sorted.
func (db *FontDB) Families() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]string, 0, len(db.fonts))
	for _, f := range db.fonts {
		out = append(out, f.Family)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Len returns the number of registered fonts.
func (db *FontDB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.fonts)
}

// Match returns the font of the first name in families that is registered,
// or the fallback font. Generic names such as sans-serif always resolve to the
// fallback.
func (db *FontDB) Match(families []string) (*Font, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, fam := range families {
		if f, ok := db.byName[strings.ToLower(strings.TrimSpace(fam))]; ok {
			return f, nil
		}
	}
	if db.fallback == nil {
		return nil, ErrNoFonts
	}
	return db.fallback, nil
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}
