package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// CollageImageCount is the fixed number of photo slots in the collage.
	CollageImageCount = 6
	// MaxLetterImages caps the optional letter-screen photos.
	MaxLetterImages = 3

	DefaultLetterGreeting = "Dear em iu ,"
)

var (
	ErrNameRequired        = errors.New("both names are required")
	ErrImageCount          = errors.New("exactly 6 images are required")
	ErrTooManyLetterImages = errors.New("at most 3 letter images are allowed")
)

// LetterMessage is the greeting and body shown on the letter screen.
type LetterMessage struct {
	Greeting string `json:"greeting"`
	Content  string `json:"content"`
}

func DefaultLetterMessage() LetterMessage {
	return LetterMessage{Greeting: DefaultLetterGreeting}
}

type Card struct {
	ID            uuid.UUID     `json:"id"`
	Slug          string        `json:"slug"`
	Name1         string        `json:"name1"`
	Name2         string        `json:"name2"`
	Images        []string      `json:"images"`
	LetterImages  []string      `json:"letterImages"`
	LetterMessage LetterMessage `json:"letterMessage"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type CreateCardParams struct {
	Name1         string
	Name2         string
	Images        []string
	LetterImages  []string
	LetterMessage *LetterMessage
}

func (p CreateCardParams) Validate() error {
	if strings.TrimSpace(p.Name1) == "" || strings.TrimSpace(p.Name2) == "" {
		return ErrNameRequired
	}
	if len(p.Images) != CollageImageCount {
		return ErrImageCount
	}
	if len(CompactURLs(p.LetterImages)) > MaxLetterImages {
		return ErrTooManyLetterImages
	}
	return nil
}

// CardPatch enumerates exactly the fields an update may touch. A nil field
// leaves the stored value unchanged. Images, when supplied, must still be a
// full set of six; a wrong count is rejected rather than ignored.
type CardPatch struct {
	Name1         *string
	Name2         *string
	Images        *[]string
	LetterImages  *[]string
	LetterMessage *LetterMessage
}

func (p CardPatch) Validate() error {
	if p.Name1 != nil && strings.TrimSpace(*p.Name1) == "" {
		return ErrNameRequired
	}
	if p.Name2 != nil && strings.TrimSpace(*p.Name2) == "" {
		return ErrNameRequired
	}
	if p.Images != nil && len(*p.Images) != CollageImageCount {
		return ErrImageCount
	}
	if p.LetterImages != nil && len(CompactURLs(*p.LetterImages)) > MaxLetterImages {
		return ErrTooManyLetterImages
	}
	return nil
}

func (p CardPatch) IsEmpty() bool {
	return p.Name1 == nil && p.Name2 == nil && p.Images == nil &&
		p.LetterImages == nil && p.LetterMessage == nil
}

// CompactURLs drops empty and whitespace-only entries, preserving order.
func CompactURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			out = append(out, u)
		}
	}
	return out
}
