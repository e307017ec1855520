package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/izgubljeno/internal/imaging"
)

// ImagesHandler handles photo uploads attached to item reports.
type ImagesHandler struct {
	Images *imaging.Service
}

// Upload handles POST /api/images. The photo is sent as multipart field
// "image" and the response carries the URL to put in an item's image_url.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	url, err := h.Images.Store(r.Context(), file)
	if errors.Is(err, imaging.ErrInvalidImage) {
		slog.Warn("image rejected", "error", err)
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		storeError(w, err, "store image")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]string{"url": url})
}

// Get handles GET /api/images/{id}.
func (h *ImagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	img, err := h.Images.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("failed to load image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load image")
		return
	}
	if img == nil {
		jsonError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", img.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(img.Data)
}
