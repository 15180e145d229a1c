package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/hoangminh/cardbox/internal/services"
)

type QRHandler struct {
	cardService services.CardServiceInterface
	baseURL     string
}

func NewQRHandler(cardService services.CardServiceInterface, baseURL string) *QRHandler {
	return &QRHandler{
		cardService: cardService,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Serve renders a QR code pointing at the card's shareable URL. The card is
// looked up first so dead slugs do not get a scannable code.
func (h *QRHandler) Serve(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSuffix(strings.TrimSpace(r.PathValue("slug")), ".png")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Card address is required")
		return
	}

	card, err := h.cardService.GetCardBySlug(r.Context(), slug)
	if errors.Is(err, services.ErrCardNotFound) {
		writeError(w, http.StatusNotFound, "Card not found")
		return
	}
	if err != nil {
		log.Printf("Error loading card for QR code: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	png, err := qrcode.Encode(h.baseURL+"/card/"+card.Slug, qrcode.Medium, 512)
	if err != nil {
		log.Printf("Error rendering QR code: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
