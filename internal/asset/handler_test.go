package asset

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/inamate/pathsvg/internal/text"
)

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/fonts", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadRegistersAndStores(t *testing.T) {
	dir := t.TempDir()
	db := text.NewFontDB()
	h := NewHandler(db, dir)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "gobold.ttf", gobold.TTF))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Go", resp.Family)
	assert.Equal(t, "Go Bold", resp.FullName)
	assert.Equal(t, "gobold.ttf", resp.Name)
	assert.Equal(t, "/fonts/"+resp.ID+".ttf", resp.URL)
	assert.Equal(t, 2, db.Len())

	stored, err := os.ReadFile(filepath.Join(dir, resp.ID+".ttf"))
	require.NoError(t, err)
	assert.Equal(t, gobold.TTF, stored)

	f, err := db.Match([]string{"go bold"})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, f.ID)

	rec = httptest.NewRecorder()
	h.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	assert.Equal(t, len(gobold.TTF), rec.Body.Len())
}

func TestUploadRejectsGarbage(t *testing.T) {
	db := text.NewFontDB()
	h := NewHandler(db, "")

	for name, data := range map[string][]byte{
		"garbage": []byte("definitely not a font"),
		"empty":   {},
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Upload(rec, uploadRequest(t, "x.ttf", data))
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, 1, db.Len())
		})
	}

	rec := httptest.NewRecorder()
	h.Upload(rec, httptest.NewRequest(http.MethodPost, "/fonts", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadWithoutDirAndList(t *testing.T) {
	h := NewHandler(text.NewFontDB(), "")
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "b.ttf", gobold.TTF))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.URL)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/fonts", nil))
	var list struct {
		Families []string `json:"families"`
		Count    int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []string{"Go"}, list.Families)
	assert.Equal(t, 2, list.Count)

	rec = httptest.NewRecorder()
	h.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fonts/x.ttf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
