// Package asset serves font uploads: it registers uploaded faces with the
// shaper's font database and keeps the files for later restarts.
package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/inamate/pathsvg/internal/text"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url,omitempty"`
	Family   string `json:"family"`
	FullName string `json:"fullName"`
	Name     string `json:"name"`
}

// Handler serves font upload and retrieval endpoints.
type Handler struct {
	db  *text.FontDB
	dir string // directory to store font files, empty keeps uploads in memory only
}

// NewHandler creates a font handler registering uploads with db and storing
// the files in dir.
func NewHandler(db *text.FontDB, dir string) *Handler {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("create font dir", "error", err, "dir", dir)
		}
	}
	return &Handler{db: db, dir: dir}
}

// Upload handles POST /fonts (multipart form with a "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 10MB)"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read file"})
		return
	}

	font, err := h.db.AddFont(data)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, text.ErrInvalidFont) || errors.Is(err, text.ErrEmptyFontData) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	resp := UploadResponse{
		ID:       font.ID,
		Family:   font.Family,
		FullName: font.FullName,
		Name:     header.Filename,
	}

	if h.dir != "" {
		filename := font.ID + fontExt(data)
		if err := os.WriteFile(filepath.Join(h.dir, filename), data, 0644); err != nil {
			slog.Error("write font file", "error", err, "font", font.ID)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save file"})
			return
		}
		resp.URL = fmt.Sprintf("/fonts/%s", filename)
	}

	slog.Info("font uploaded", "font", font.ID, "family", font.Family, "bytes", len(data))
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /fonts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"families": h.db.Families(),
		"count":    h.db.Len(),
	})
}

// Serve returns an http.Handler that serves stored font files with caching headers.
func (h *Handler) Serve() http.Handler {
	if h.dir == "" {
		return http.NotFoundHandler()
	}
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/fonts/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Font IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// fontExt picks the file extension from the sfnt version tag.
func fontExt(data []byte) string {
	if bytes.HasPrefix(data, []byte("OTTO")) {
		return ".otf"
	}
	return ".ttf"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
