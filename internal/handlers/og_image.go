package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/hoangminh/cardbox/internal/models"
	"github.com/hoangminh/cardbox/internal/services"
)

type OGImageHandler struct {
	cardService services.CardServiceInterface
}

func NewOGImageHandler(cardService services.CardServiceInterface) *OGImageHandler {
	return &OGImageHandler{cardService: cardService}
}

// Serve renders the OpenGraph preview for a card. The ETag covers the only
// fields the renderer draws, so admin edits invalidate cached previews.
func (h *OGImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSuffix(strings.TrimSpace(r.PathValue("slug")), ".png")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	card, err := h.cardService.GetCardBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	etag := `W/"` + previewVersion(card) + `"`
	if inm := r.Header.Get("If-None-Match"); inm != "" && strings.Contains(inm, etag) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	pngBytes, err := services.RenderCardPreviewPNG(*card)
	if err != nil {
		http.Error(w, "Failed to render image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pngBytes)
}

func previewVersion(card *models.Card) string {
	sum := sha256.Sum256([]byte(card.Name1 + "\x00" + card.Name2 + "\x00" + card.CreatedAt.UTC().Format("2006-01-02")))
	return hex.EncodeToString(sum[:8])
}
