package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hoangminh/cardbox/internal/models"
	"github.com/hoangminh/cardbox/internal/services"
)

type mockCardService struct {
	services.CardServiceInterface
	CreateCardFunc    func(ctx context.Context, params models.CreateCardParams) (*models.Card, error)
	GetCardBySlugFunc func(ctx context.Context, slug string) (*models.Card, error)
	UpdateCardFunc    func(ctx context.Context, slug string, patch models.CardPatch) (*models.Card, error)
	DeleteCardFunc    func(ctx context.Context, slug string) error
	ListCardsFunc     func(ctx context.Context, limit int) ([]models.Card, error)
}

func (m *mockCardService) CreateCard(ctx context.Context, params models.CreateCardParams) (*models.Card, error) {
	return m.CreateCardFunc(ctx, params)
}

func (m *mockCardService) GetCardBySlug(ctx context.Context, slug string) (*models.Card, error) {
	return m.GetCardBySlugFunc(ctx, slug)
}

func (m *mockCardService) UpdateCard(ctx context.Context, slug string, patch models.CardPatch) (*models.Card, error) {
	return m.UpdateCardFunc(ctx, slug, patch)
}

func (m *mockCardService) DeleteCard(ctx context.Context, slug string) error {
	return m.DeleteCardFunc(ctx, slug)
}

func (m *mockCardService) ListCards(ctx context.Context, limit int) ([]models.Card, error) {
	return m.ListCardsFunc(ctx, limit)
}

func sampleCard() *models.Card {
	return &models.Card{
		ID:            uuid.New(),
		Slug:          "minh-anh-abc123",
		Name1:         "Minh",
		Name2:         "Anh",
		Images:        []string{"u1", "u2", "u3", "u4", "u5", "u6"},
		LetterImages:  []string{},
		LetterMessage: models.DefaultLetterMessage(),
		CreatedAt:     time.Now(),
	}
}

func TestCardHandler_Create(t *testing.T) {
	card := sampleCard()
	handler := NewCardHandler(&mockCardService{
		CreateCardFunc: func(ctx context.Context, params models.CreateCardParams) (*models.Card, error) {
			if params.Name1 != "Minh" || params.Name2 != "Anh" {
				t.Fatalf("unexpected params: %+v", params)
			}
			return card, nil
		},
	})

	body := `{"name1":" Minh ","name2":"Anh","images":["u1","u2","u3","u4","u5","u6"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/cards", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp CardResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.Card.Slug != card.Slug {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCardHandler_Create_ValidationError(t *testing.T) {
	handler := NewCardHandler(&mockCardService{
		CreateCardFunc: func(ctx context.Context, params models.CreateCardParams) (*models.Card, error) {
			return nil, models.ErrImageCount
		},
	})

	body := `{"name1":"Minh","name2":"Anh","images":["u1"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/cards", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error"`) {
		t.Fatalf("expected error body, got %s", rr.Body.String())
	}
}

func TestCardHandler_Create_SlugConflict(t *testing.T) {
	handler := NewCardHandler(&mockCardService{
		CreateCardFunc: func(ctx context.Context, params models.CreateCardParams) (*models.Card, error) {
			return nil, services.ErrSlugTaken
		},
	})

	body := `{"name1":"Minh","name2":"Anh","images":["u1","u2","u3","u4","u5","u6"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/cards", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
}

func TestCardHandler_Get(t *testing.T) {
	card := sampleCard()
	handler := NewCardHandler(&mockCardService{
		GetCardBySlugFunc: func(ctx context.Context, slug string) (*models.Card, error) {
			if slug != card.Slug {
				t.Fatalf("unexpected slug %q", slug)
			}
			return card, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cards/"+card.Slug, nil)
	req.SetPathValue("slug", card.Slug)
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"letterImages":[]`) {
		t.Fatalf("expected letterImages to serialize as an empty array, got %s", body)
	}
	if !strings.Contains(body, `"greeting":"Dear em iu ,"`) {
		t.Fatalf("expected default greeting, got %s", body)
	}
}

func TestCardHandler_Get_NotFound(t *testing.T) {
	handler := NewCardHandler(&mockCardService{
		GetCardBySlugFunc: func(ctx context.Context, slug string) (*models.Card, error) {
			return nil, services.ErrCardNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cards/missing", nil)
	req.SetPathValue("slug", "missing")
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestCardHandler_Update(t *testing.T) {
	card := sampleCard()
	handler := NewCardHandler(&mockCardService{
		UpdateCardFunc: func(ctx context.Context, slug string, patch models.CardPatch) (*models.Card, error) {
			if patch.Name1 == nil || *patch.Name1 != "Hoa" {
				t.Fatalf("unexpected patch: %+v", patch)
			}
			if patch.Name2 != nil || patch.Images != nil {
				t.Fatalf("unsupplied fields must stay nil: %+v", patch)
			}
			return card, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/cards/"+card.Slug, strings.NewReader(`{"name1":"Hoa"}`))
	req.SetPathValue("slug", card.Slug)
	rr := httptest.NewRecorder()

	handler.Update(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCardHandler_Update_UnknownField(t *testing.T) {
	handler := NewCardHandler(&mockCardService{
		UpdateCardFunc: func(ctx context.Context, slug string, patch models.CardPatch) (*models.Card, error) {
			t.Fatal("service must not be called for unknown fields")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/cards/x", strings.NewReader(`{"nickname":"M"}`))
	req.SetPathValue("slug", "x")
	rr := httptest.NewRecorder()

	handler.Update(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestCardHandler_Delete(t *testing.T) {
	handler := NewCardHandler(&mockCardService{
		DeleteCardFunc: func(ctx context.Context, slug string) error {
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/cards/x", nil)
	req.SetPathValue("slug", "x")
	rr := httptest.NewRecorder()

	handler.Delete(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestCardHandler_Delete_NotFound(t *testing.T) {
	handler := NewCardHandler(&mockCardService{
		DeleteCardFunc: func(ctx context.Context, slug string) error {
			return services.ErrCardNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/cards/x", nil)
	req.SetPathValue("slug", "x")
	rr := httptest.NewRecorder()

	handler.Delete(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestCardHandler_List(t *testing.T) {
	handler := NewCardHandler(&mockCardService{
		ListCardsFunc: func(ctx context.Context, limit int) ([]models.Card, error) {
			if limit != 10 {
				t.Fatalf("expected limit 10, got %d", limit)
			}
			return []models.Card{*sampleCard()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cards?limit=10", nil)
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp CardListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || len(resp.Cards) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
