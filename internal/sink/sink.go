// Package sink delivers serialized documents to their destination.
package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inamate/pathsvg/internal/document"
)

// Sink writes SVG text to dest. The meaning of dest depends on the sink.
// Every failure is a *document.IOError.
type Sink interface {
	Write(ctx context.Context, text, dest string) error
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, text, dest string) error

func (f Func) Write(ctx context.Context, text, dest string) error { return f(ctx, text, dest) }

func ioError(dest string, err error) error {
	return &document.IOError{Dest: dest, Err: err}
}

// File writes to the file system path dest, creating parent directories.
// The file is replaced atomically.
type File struct {
	Perm os.FileMode
}

func (f File) Write(ctx context.Context, text, dest string) error {
	if err := ctx.Err(); err != nil {
		return ioError(dest, err)
	}
	perm := f.Perm
	if perm == 0 {
		perm = 0o644
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError(dest, fmt.Errorf("create dir: %w", err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return ioError(dest, fmt.Errorf("create temp: %w", err))
	}
	defer os.Remove(tmp.Name())

	if _, err := io.WriteString(tmp, text); err != nil {
		tmp.Close()
		return ioError(dest, fmt.Errorf("write: %w", err))
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return ioError(dest, fmt.Errorf("chmod: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return ioError(dest, fmt.Errorf("close: %w", err))
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return ioError(dest, fmt.Errorf("rename: %w", err))
	}
	slog.Debug("svg written", "path", dest, "bytes", len(text))
	return nil
}

// Writer writes to an io.Writer and ignores dest.
func Writer(w io.Writer) Sink {
	return Func(func(ctx context.Context, text, dest string) error {
		if err := ctx.Err(); err != nil {
			return ioError(dest, err)
		}
		if _, err := io.WriteString(w, text); err != nil {
			return ioError(dest, err)
		}
		return nil
	})
}

// HTTP answers a request with the SVG as an attachment. dest is the
// suggested file name.
func HTTP(w http.ResponseWriter) Sink {
	return Func(func(ctx context.Context, text, dest string) error {
		if err := ctx.Err(); err != nil {
			return ioError(dest, err)
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.svg"`, SanitizeName(dest)))
		w.Header().Set("Content-Length", strconv.Itoa(len(text)))
		if _, err := io.WriteString(w, text); err != nil {
			return ioError(dest, err)
		}
		return nil
	})
}

// Multi writes to every sink in order and stops at the first failure.
func Multi(sinks ...Sink) Sink {
	return Func(func(ctx context.Context, text, dest string) error {
		for _, s := range sinks {
			if err := s.Write(ctx, text, dest); err != nil {
				return err
			}
		}
		return nil
	})
}

// SanitizeName reduces dest to a safe file name stem: the base name without
// a .svg extension, with anything outside [A-Za-z0-9_-] replaced by '-'.
func SanitizeName(dest string) string {
	name := filepath.Base(strings.ReplaceAll(dest, `\`, "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		return "drawing"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
