// Package asset stores uploaded images for image-traced curves.
package asset

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/inamate/playhead/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

var acceptedTypes = []string{"image/png", "image/jpeg", "image/bmp", "image/webp"}

// UploadResponse is returned from the upload endpoint. ID is what a
// curve.image operation names as its assetId.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Name   string `json:"name"`
}

// Handler serves asset upload and retrieval endpoints. Every upload is
// re-encoded as PNG under its asset id.
type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

func (h *Handler) path(id string) string {
	return filepath.Join(h.dir, id+".png")
}

// Upload handles POST /assets/upload (multipart form with a "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large (max 10MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !accepted(header.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, "only PNG, JPEG, BMP and WebP images are supported")
		return
	}

	img, format, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image: "+err.Error())
		return
	}

	assetID := typeid.NewAssetID()
	if err := h.save(assetID, img); err != nil {
		slog.Error("save asset", "error", err, "asset", assetID)
		writeError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	slog.Info("asset uploaded", "asset", assetID, "format", format, "name", header.Filename)

	b := img.Bounds()
	writeJSON(w, http.StatusOK, UploadResponse{
		ID:     assetID,
		URL:    fmt.Sprintf("/assets/%s.png", assetID),
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		Name:   header.Filename,
	})
}

func accepted(contentType string) bool {
	for _, t := range acceptedTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

func (h *Handler) save(id string, img image.Image) error {
	p := h.path(id)
	out, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create asset file: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(p)
		return fmt.Errorf("encode png: %w", err)
	}
	return out.Close()
}

// Open decodes a stored asset. A missing asset yields an error matching
// fs.ErrNotExist.
func (h *Handler) Open(id string) (image.Image, error) {
	if err := typeid.Validate(id, typeid.PrefixAsset); err != nil {
		return nil, err
	}
	f, err := os.Open(h.path(id))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", id, err)
	}
	return img, nil
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Delete removes an asset file from disk.
func (h *Handler) Delete(assetID string) error {
	if err := os.Remove(h.path(assetID)); err != nil {
		return fmt.Errorf("delete asset %s: %w", assetID, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
