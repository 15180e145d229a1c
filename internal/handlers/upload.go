package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/hoangminh/cardbox/internal/services"
)

type UploadHandler struct {
	uploadService services.UploadServiceInterface
	maxBytes      int64
}

func NewUploadHandler(uploadService services.UploadServiceInterface, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
	}
}

type UploadResponse struct {
	Success    bool   `json:"success"`
	URL        string `json:"url"`
	DisplayURL string `json:"display_url"`
	DeleteURL  string `json:"delete_url"`
}

// Upload accepts a multipart form with a single "image" field and relays it
// to the hosting provider.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Image is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return
	}
	if len(image) == 0 {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}

	result, err := h.uploadService.Upload(r.Context(), image)
	if errors.Is(err, services.ErrUploadNotConfigured) {
		writeError(w, http.StatusInternalServerError, "Image hosting is not configured")
		return
	}
	if err != nil {
		log.Printf("Error uploading image: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success:    true,
		URL:        result.URL,
		DisplayURL: result.DisplayURL,
		DeleteURL:  result.DeleteURL,
	})
}
