package sink

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/pathsvg/internal/document"
)

func TestFileWritesAndCreatesDirs(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "nested", "a.svg")
	require.NoError(t, File{}.Write(context.Background(), "<svg/>", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	require.NoError(t, File{}.Write(context.Background(), "<svg></svg>", dest))
	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(data))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileFailureIsIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	dest := filepath.Join(blocker, "a.svg")
	err := File{}.Write(context.Background(), "<svg/>", dest)
	assert.ErrorIs(t, err, document.ErrIO)
	var ioErr *document.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, dest, ioErr.Dest)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := Writer(&buf).Write(ctx, "x", "mem")
	assert.ErrorIs(t, err, document.ErrIO)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestHTTPAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, HTTP(rec).Write(context.Background(), "<svg/>", "../My Drawing.svg"))

	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="My-Drawing.svg"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "6", rec.Header().Get("Content-Length"))
	assert.Equal(t, "<svg/>", rec.Body.String())
}

func TestMultiStopsAtFirstError(t *testing.T) {
	var a, b bytes.Buffer
	boom := errors.New("boom")
	failing := Func(func(context.Context, string, string) error { return boom })

	err := Multi(Writer(&a), failing, Writer(&b)).Write(context.Background(), "svg", "x")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "svg", a.String())
	assert.Zero(t, b.Len())
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"drawing.svg":        "drawing",
		"a/b/My Drawing.svg": "My-Drawing",
		`C:\tmp\x.svg`:       "x",
		"":                   "drawing",
		"héllo":              "h-llo",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}
