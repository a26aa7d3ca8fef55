// Package export serves the HTTP rendering endpoints: scenes go in, SVG
// comes out as a response body, an attachment, or a stored export.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/engine"
	"github.com/inamate/pathsvg/internal/scene"
	"github.com/inamate/pathsvg/internal/sink"
	"github.com/inamate/pathsvg/internal/store"
	"github.com/inamate/pathsvg/internal/typeid"
)

// Exports is the persistence the handler needs. *store.Store satisfies it.
type Exports interface {
	Save(ctx context.Context, name, sceneID, svg string) (*store.Export, error)
	Get(ctx context.Context, id string) (*store.Export, error)
	List(ctx context.Context, limit int) ([]store.Export, error)
}

type Handler struct {
	engine  *engine.Engine
	exports Exports
}

// NewHandler serves renders through eng. A nil exports disables the
// stored-export endpoints; POST /export still returns the attachment.
func NewHandler(eng *engine.Engine, exports Exports) *Handler {
	return &Handler{engine: eng, exports: exports}
}

// Register mounts the handler's routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/render", h.Render).Methods("POST")
	r.HandleFunc("/render/commands", h.Commands).Methods("POST")
	r.HandleFunc("/export", h.Export).Methods("POST")
	r.HandleFunc("/exports", h.List).Methods("GET")
	r.HandleFunc("/exports/{id}", h.Get).Methods("GET")
}

// Render handles POST /render and answers with the SVG inline.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	sc, ok := decodeScene(w, r)
	if !ok {
		return
	}
	res, err := h.engine.Render(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("ETag", etag(store.Digest(res.SVG)))
	w.Write([]byte(res.SVG))
}

type commandsResponse struct {
	Viewport document.Viewport    `json:"viewport"`
	Commands []engine.DrawCommand `json:"commands"`
}

// Commands handles POST /render/commands and answers with canvas draw
// commands instead of SVG.
func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	sc, ok := decodeScene(w, r)
	if !ok {
		return
	}
	doc, err := h.engine.Assemble(sc)
	if err != nil {
		writeError(w, err)
		return
	}
	cmds := engine.CompileDrawCommands(doc)
	if cmds == nil {
		cmds = []engine.DrawCommand{}
	}
	writeJSON(w, http.StatusOK, commandsResponse{Viewport: doc.Viewport, Commands: cmds})
}

// Export handles POST /export?name=... and answers with an SVG attachment.
// With a store configured the SVG is saved first and the response carries
// the export id and digest.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	sc, ok := decodeScene(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = sc.Name
	}
	if name == "" {
		name = "drawing"
	}
	name = sink.SanitizeName(name)

	out := sink.HTTP(w)
	if h.exports != nil {
		saved := &savingSink{exports: h.exports, sceneID: sc.ID}
		headers := sink.Func(func(ctx context.Context, text, dest string) error {
			e := saved.Last()
			w.Header().Set("X-Export-ID", e.ID)
			w.Header().Set("ETag", etag(e.Digest))
			return nil
		})
		out = sink.Multi(saved, headers, out)
	}

	if _, err := h.engine.Export(r.Context(), sc, out, name); err != nil {
		writeError(w, err)
		return
	}
}

// Get handles GET /exports/{id}. It honours If-None-Match and serves the
// SVG inline unless ?download=1 asks for an attachment.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.exports == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "export store disabled"})
		return
	}
	id := mux.Vars(r)["id"]
	if err := typeid.Validate(id, typeid.PrefixExport); err != nil {
		writeError(w, store.ErrNotFound)
		return
	}
	e, err := h.exports.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	tag := etag(e.Digest)
	w.Header().Set("ETag", tag)
	w.Header().Set("X-Export-ID", e.ID)
	if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.URL.Query().Get("download") == "1" {
		if err := sink.HTTP(w).Write(r.Context(), e.SVG, e.Name); err != nil {
			slog.Error("write export", "error", err, "id", e.ID)
		}
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(e.SVG))
}

// List handles GET /exports?limit=N.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.exports == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "export store disabled"})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	list, err := h.exports.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": list})
}

// savingSink stores each write and remembers the saved export.
type savingSink struct {
	exports Exports
	sceneID string

	mu   sync.Mutex
	last *store.Export
}

func (s *savingSink) Write(ctx context.Context, text, dest string) error {
	e, err := s.exports.Save(ctx, dest, s.sceneID, text)
	if err != nil {
		return &document.IOError{Dest: dest, Err: err}
	}
	s.mu.Lock()
	s.last = e
	s.mu.Unlock()
	return nil
}

func (s *savingSink) Last() *store.Export {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// decodeScene reads a JSON or YAML scene from the request body. On failure
// it writes the response and returns false.
func decodeScene(w http.ResponseWriter, r *http.Request) (*scene.Scene, bool) {
	format := scene.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		if strings.HasSuffix(mt, "yaml") {
			format = scene.FormatYAML
		}
	}
	sc, err := scene.Decode(r.Body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	return sc, true
}

// statusFor maps pipeline and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, document.ErrMissingFontProvider),
		errors.Is(err, document.ErrFontFailure),
		errors.Is(err, document.ErrInvalidFontSize),
		errors.Is(err, document.ErrInvalidStrokeWidth),
		errors.Is(err, document.ErrEmptyGeometry),
		errors.Is(err, document.ErrDegenerateViewport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("export request failed", "error", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func etag(digest string) string {
	return fmt.Sprintf("%q", digest)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
