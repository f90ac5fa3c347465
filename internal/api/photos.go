package api

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/contacthub/internal/checksum"
	"github.com/starford/contacthub/internal/storage"
)

const (
	photoRoute     = "/photos/"
	maxUploadBytes = 5 << 20 // 5 MB
)

var photoExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// PhotoHandler serves and accepts contact photos.
type PhotoHandler struct {
	store storage.Provider
}

// NewPhotoHandler creates a handler backed by the given storage provider.
func NewPhotoHandler(store storage.Provider) *PhotoHandler {
	return &PhotoHandler{store: store}
}

// ServeFile handles GET /photos/{filename}.
func (h *PhotoHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if !photoExts[strings.ToLower(filepath.Ext(filename))] {
		http.Error(w, "invalid filename", http.StatusBadRequest)
		return
	}
	abs, err := h.store.Path(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); errors.Is(statErr, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/photos (multipart/form-data, field "file").
// The stored name is derived from the content so re-uploads are idempotent.
//
//	@Summary		Upload a contact photo
//	@Tags			photos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image file (png, jpg, gif, webp)"
//	@Success		201		{object}	PhotoUploadResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/photos [post]
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !photoExts[ext] {
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported photo type: "+ext))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		writeJSON(w, http.StatusBadRequest, errorBody("file is not an image"))
		return
	}

	name := checksum.Name(data, ext)
	if err := h.store.Write(name, data); err != nil {
		slog.Error("photo write failed", slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return
	}

	writeJSON(w, http.StatusCreated, PhotoUploadResponse{
		Filename: name,
		Size:     int64(len(data)),
		URL:      photoRoute + name,
	})
}
