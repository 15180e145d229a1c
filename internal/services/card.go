package services

import (
	"context"
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hoangminh/cardbox/internal/models"
)

const (
	defaultCardListLimit = 50
	maxListLimit         = 200
)

var (
	ErrCardNotFound = errors.New("card not found")
	ErrSlugTaken    = errors.New("card slug already exists")
)

// CardServiceInterface lets handlers depend on an interface for testing.
type CardServiceInterface interface {
	CreateCard(ctx context.Context, params models.CreateCardParams) (*models.Card, error)
	GetCardBySlug(ctx context.Context, slug string) (*models.Card, error)
	UpdateCard(ctx context.Context, slug string, patch models.CardPatch) (*models.Card, error)
	DeleteCard(ctx context.Context, slug string) error
	ListCards(ctx context.Context, limit int) ([]models.Card, error)
}

type CardService struct {
	db   DB
	now  func() time.Time
	rand io.Reader
}

func NewCardService(db DB) *CardService {
	return &CardService{
		db:   db,
		now:  time.Now,
		rand: cryptorand.Reader,
	}
}

const cardColumns = "id, slug, name1, name2, images, letter_images, letter_greeting, letter_content, created_at"

func (s *CardService) CreateCard(ctx context.Context, params models.CreateCardParams) (*models.Card, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	slug, err := models.NewCardSlug(params.Name1, params.Name2, s.now(), s.rand)
	if err != nil {
		return nil, err
	}

	letterMessage := models.DefaultLetterMessage()
	if params.LetterMessage != nil {
		letterMessage = *params.LetterMessage
	}

	card := &models.Card{
		ID:            uuid.New(),
		Slug:          slug,
		Name1:         params.Name1,
		Name2:         params.Name2,
		Images:        params.Images,
		LetterImages:  models.CompactURLs(params.LetterImages),
		LetterMessage: letterMessage,
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO cards (id, slug, name1, name2, images, letter_images, letter_greeting, letter_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, card.ID, card.Slug, card.Name1, card.Name2, card.Images, card.LetterImages,
		card.LetterMessage.Greeting, card.LetterMessage.Content,
	).Scan(&card.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("inserting card: %w", err)
	}

	return card, nil
}

func (s *CardService) GetCardBySlug(ctx context.Context, slug string) (*models.Card, error) {
	row := s.db.QueryRow(ctx,
		"SELECT "+cardColumns+" FROM cards WHERE slug = $1",
		slug,
	)
	card, err := scanCard(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading card: %w", err)
	}
	return card, nil
}

func (s *CardService) UpdateCard(ctx context.Context, slug string, patch models.CardPatch) (*models.Card, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.GetCardBySlug(ctx, slug)
	}

	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name1 != nil {
		add("name1", *patch.Name1)
	}
	if patch.Name2 != nil {
		add("name2", *patch.Name2)
	}
	if patch.Images != nil {
		add("images", *patch.Images)
	}
	if patch.LetterImages != nil {
		add("letter_images", models.CompactURLs(*patch.LetterImages))
	}
	if patch.LetterMessage != nil {
		add("letter_greeting", patch.LetterMessage.Greeting)
		add("letter_content", patch.LetterMessage.Content)
	}

	args = append(args, slug)
	sql := fmt.Sprintf(
		"UPDATE cards SET %s WHERE slug = $%d RETURNING "+cardColumns,
		strings.Join(sets, ", "), len(args),
	)

	card, err := scanCard(s.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}
	return card, nil
}

func (s *CardService) DeleteCard(ctx context.Context, slug string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM cards WHERE slug = $1", slug)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (s *CardService) ListCards(ctx context.Context, limit int) ([]models.Card, error) {
	if limit <= 0 {
		limit = defaultCardListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.db.Query(ctx,
		"SELECT "+cardColumns+" FROM cards ORDER BY created_at DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	defer rows.Close()

	cards := make([]models.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards: %w", err)
	}
	return cards, nil
}

func scanCard(row Row) (*models.Card, error) {
	card := &models.Card{}
	err := row.Scan(
		&card.ID,
		&card.Slug,
		&card.Name1,
		&card.Name2,
		&card.Images,
		&card.LetterImages,
		&card.LetterMessage.Greeting,
		&card.LetterMessage.Content,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if card.LetterImages == nil {
		card.LetterImages = []string{}
	}
	return card, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ CardServiceInterface = (*CardService)(nil)
