package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/hoangminh/cardbox/internal/models"
	"github.com/hoangminh/cardbox/internal/services"
)

type CardHandler struct {
	cardService services.CardServiceInterface
}

func NewCardHandler(cardService services.CardServiceInterface) *CardHandler {
	return &CardHandler{cardService: cardService}
}

type CreateCardRequest struct {
	Name1         string                `json:"name1"`
	Name2         string                `json:"name2"`
	Images        []string              `json:"images"`
	LetterImages  []string              `json:"letterImages"`
	LetterMessage *models.LetterMessage `json:"letterMessage"`
}

type CardResponse struct {
	Success bool         `json:"success"`
	Card    *models.Card `json:"card"`
}

type CardListResponse struct {
	Success bool          `json:"success"`
	Cards   []models.Card `json:"cards"`
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), models.CreateCardParams{
		Name1:         strings.TrimSpace(req.Name1),
		Name2:         strings.TrimSpace(req.Name2),
		Images:        req.Images,
		LetterImages:  req.LetterImages,
		LetterMessage: req.LetterMessage,
	})
	if isValidationError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, services.ErrSlugTaken) {
		writeError(w, http.StatusConflict, "A card with this address already exists, please retry")
		return
	}
	if err != nil {
		log.Printf("Error creating card: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CardResponse{Success: true, Card: card})
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
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
		log.Printf("Error loading card: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CardResponse{Success: true, Card: card})
}

type UpdateCardRequest struct {
	Name1         *string               `json:"name1"`
	Name2         *string               `json:"name2"`
	Images        *[]string             `json:"images"`
	LetterImages  *[]string             `json:"letterImages"`
	LetterMessage *models.LetterMessage `json:"letterMessage"`
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Card address is required")
		return
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	var req UpdateCardRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), slug, models.CardPatch{
		Name1:         req.Name1,
		Name2:         req.Name2,
		Images:        req.Images,
		LetterImages:  req.LetterImages,
		LetterMessage: req.LetterMessage,
	})
	if isValidationError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, services.ErrCardNotFound) {
		writeError(w, http.StatusNotFound, "Card not found")
		return
	}
	if err != nil {
		log.Printf("Error updating card: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CardResponse{Success: true, Card: card})
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Card address is required")
		return
	}

	err := h.cardService.DeleteCard(r.Context(), slug)
	if errors.Is(err, services.ErrCardNotFound) {
		writeError(w, http.StatusNotFound, "Card not found")
		return
	}
	if err != nil {
		log.Printf("Error deleting card: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 0)

	cards, err := h.cardService.ListCards(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing cards: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CardListResponse{Success: true, Cards: cards})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return limit
}

func isValidationError(err error) bool {
	return errors.Is(err, models.ErrNameRequired) ||
		errors.Is(err, models.ErrImageCount) ||
		errors.Is(err, models.ErrTooManyLetterImages)
}
