package services

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/hoangminh/cardbox/internal/models"
)

func TestRenderCardPreviewPNG(t *testing.T) {
	card := models.Card{
		Name1:     "Minh",
		Name2:     "Anh",
		CreatedAt: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
	}

	data, err := RenderCardPreviewPNG(card)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 1200 || bounds.Dy() != 630 {
		t.Fatalf("expected 1200x630 preview, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderCardPreviewPNG_ZeroCreatedAt(t *testing.T) {
	data, err := RenderCardPreviewPNG(models.Card{Name1: "A", Name2: "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}
}
