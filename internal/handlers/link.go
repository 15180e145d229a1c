package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/hoangminh/cardbox/internal/models"
	"github.com/hoangminh/cardbox/internal/services"
)

type LinkHandler struct {
	linkService  services.LinkServiceInterface
	emailService services.EmailServiceInterface
	baseURL      string
}

func NewLinkHandler(linkService services.LinkServiceInterface, emailService services.EmailServiceInterface, baseURL string) *LinkHandler {
	return &LinkHandler{
		linkService:  linkService,
		emailService: emailService,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

type LinkResponse struct {
	Success bool                `json:"success"`
	Link    *models.OneTimeLink `json:"link"`
	URL     string              `json:"url,omitempty"`
}

type LinkListResponse struct {
	Success bool                 `json:"success"`
	Links   []models.OneTimeLink `json:"links"`
}

type ValidateLinkResponse struct {
	Success bool                `json:"success"`
	Valid   bool                `json:"valid"`
	Link    *models.OneTimeLink `json:"link"`
}

type InvalidLinkResponse struct {
	Error string `json:"error"`
	Valid bool   `json:"valid"`
	Used  bool   `json:"used,omitempty"`
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	link, err := h.linkService.CreateLink(r.Context())
	if err != nil {
		log.Printf("Error creating link: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, LinkResponse{
		Success: true,
		Link:    link,
		URL:     h.creationURL(link.Token),
	})
}

func (h *LinkHandler) Validate(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PathValue("token"))
	if token == "" {
		writeJSON(w, http.StatusNotFound, InvalidLinkResponse{Error: "Link not found", Valid: false})
		return
	}

	link, err := h.linkService.ValidateLink(r.Context(), token)
	if errors.Is(err, services.ErrLinkNotFound) {
		writeJSON(w, http.StatusNotFound, InvalidLinkResponse{Error: "Link not found", Valid: false})
		return
	}
	if errors.Is(err, services.ErrLinkUsed) {
		writeJSON(w, http.StatusBadRequest, InvalidLinkResponse{Error: "This link has already been used", Valid: false, Used: true})
		return
	}
	if err != nil {
		log.Printf("Error validating link: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ValidateLinkResponse{Success: true, Valid: true, Link: link})
}

type RedeemLinkRequest struct {
	CardID string `json:"cardId"`
}

func (h *LinkHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PathValue("token"))
	if token == "" {
		writeError(w, http.StatusNotFound, "Link not found or already used")
		return
	}

	var req RedeemLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid card ID")
		return
	}

	link, err := h.linkService.RedeemLink(r.Context(), token, cardID)
	if errors.Is(err, services.ErrLinkUsedOrMissing) {
		writeError(w, http.StatusNotFound, "Link not found or already used")
		return
	}
	if err != nil {
		log.Printf("Error redeeming link: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, LinkResponse{Success: true, Link: link})
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PathValue("token"))
	if token == "" {
		writeError(w, http.StatusBadRequest, "Link token is required")
		return
	}

	err := h.linkService.DeleteLink(r.Context(), token)
	if errors.Is(err, services.ErrLinkNotFound) {
		writeError(w, http.StatusNotFound, "Link not found")
		return
	}
	if err != nil {
		log.Printf("Error deleting link: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 0)

	links, err := h.linkService.ListLinks(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing links: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, LinkListResponse{Success: true, Links: links})
}

type SendLinkRequest struct {
	Email string `json:"email"`
}

// Send emails an unused creation link to a third party. The link itself is
// not mutated; redemption still happens when the card is created.
func (h *LinkHandler) Send(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PathValue("token"))
	if token == "" {
		writeError(w, http.StatusBadRequest, "Link token is required")
		return
	}

	var req SendLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	_, err = h.linkService.ValidateLink(r.Context(), token)
	if errors.Is(err, services.ErrLinkNotFound) {
		writeError(w, http.StatusNotFound, "Link not found")
		return
	}
	if errors.Is(err, services.ErrLinkUsed) {
		writeError(w, http.StatusBadRequest, "This link has already been used")
		return
	}
	if err != nil {
		log.Printf("Error validating link before send: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.emailService.SendCreationLink(r.Context(), addr.Address, h.creationURL(token)); err != nil {
		log.Printf("Error sending creation link: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *LinkHandler) creationURL(token string) string {
	return h.baseURL + "/create/" + token
}
