package models

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"
)

func fixedRand(b byte, n int) *bytes.Reader {
	return bytes.NewReader(bytes.Repeat([]byte{b}, n))
}

func TestNewCardSlug_Deterministic(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	slug, err := NewCardSlug("Minh", "Anh", now, fixedRand(0, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "minh-anh-" + strconv.FormatInt(1700000000000, 36) + "-000000"
	if slug != want {
		t.Fatalf("slug = %q, want %q", slug, want)
	}

	again, err := NewCardSlug("Minh", "Anh", now, fixedRand(0, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slug != again {
		t.Fatal("same clock and randomness must yield the same slug")
	}
}

func TestNewCardSlug_NormalizesNames(t *testing.T) {
	now := time.UnixMilli(1)
	slug, err := NewCardSlug("  Hoàng  Minh ", "b*é", now, fixedRand(1, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(slug, "hoàng-minh-b-é-") {
		t.Fatalf("unexpected slug prefix: %q", slug)
	}
}

func TestNewCardSlug_EmptyNameFallsBack(t *testing.T) {
	slug, err := NewCardSlug("!!!", "Anh", time.UnixMilli(1), fixedRand(1, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(slug, "card-anh-") {
		t.Fatalf("expected fallback segment, got %q", slug)
	}
}

func TestNewLinkToken_Shape(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	token, err := NewLinkToken(now, fixedRand(35, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 {
		t.Fatalf("token %q should have timestamp and suffix parts", token)
	}
	if parts[0] != strconv.FormatInt(1700000000000, 36) {
		t.Fatalf("timestamp part = %q", parts[0])
	}
	if len(parts[1]) != 8 {
		t.Fatalf("suffix length = %d, want 8", len(parts[1]))
	}
	// byte 35 maps to the last alphabet character
	if parts[1] != "zzzzzzzz" {
		t.Fatalf("suffix = %q, want zzzzzzzz", parts[1])
	}
}

func TestNewLinkToken_RandError(t *testing.T) {
	if _, err := NewLinkToken(time.Now(), bytes.NewReader(nil)); err == nil {
		t.Fatal("expected error from exhausted randomness source")
	}
}

func TestSlugifyName(t *testing.T) {
	tests := map[string]string{
		"Minh":        "minh",
		"  Minh Anh ": "minh-anh",
		"a--b":        "a-b",
		"":            "card",
		"123":         "123",
	}
	for in, want := range tests {
		if got := slugifyName(in); got != want {
			t.Errorf("slugifyName(%q) = %q, want %q", in, got, want)
		}
	}
}
