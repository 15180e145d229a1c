package services

import (
	"context"
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hoangminh/cardbox/internal/models"
)

const defaultLinkListLimit = 100

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrLinkUsed     = errors.New("link already used")
	// ErrLinkUsedOrMissing is returned by Redeem, which cannot tell a spent
	// token from an absent one without a second read. Validate exists for
	// friendlier messaging; Redeem stays the authoritative check.
	ErrLinkUsedOrMissing = errors.New("link not found or already used")
	ErrTokenTaken        = errors.New("link token already exists")
)

// LinkServiceInterface lets handlers depend on an interface for testing.
type LinkServiceInterface interface {
	CreateLink(ctx context.Context) (*models.OneTimeLink, error)
	ValidateLink(ctx context.Context, token string) (*models.OneTimeLink, error)
	RedeemLink(ctx context.Context, token string, cardID uuid.UUID) (*models.OneTimeLink, error)
	DeleteLink(ctx context.Context, token string) error
	ListLinks(ctx context.Context, limit int) ([]models.OneTimeLink, error)
}

type LinkService struct {
	db   DB
	now  func() time.Time
	rand io.Reader
}

func NewLinkService(db DB) *LinkService {
	return &LinkService{
		db:   db,
		now:  time.Now,
		rand: cryptorand.Reader,
	}
}

const linkColumns = "id, token, used, used_at, created_card_id, created_at"

func (s *LinkService) CreateLink(ctx context.Context) (*models.OneTimeLink, error) {
	token, err := models.NewLinkToken(s.now(), s.rand)
	if err != nil {
		return nil, err
	}

	link := &models.OneTimeLink{
		ID:    uuid.New(),
		Token: token,
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO one_time_links (id, token)
		VALUES ($1, $2)
		RETURNING created_at
	`, link.ID, link.Token).Scan(&link.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrTokenTaken
	}
	if err != nil {
		return nil, fmt.Errorf("inserting link: %w", err)
	}

	return link, nil
}

// ValidateLink is a pure read: it reports whether a token can still be
// redeemed and never mutates the record.
func (s *LinkService) ValidateLink(ctx context.Context, token string) (*models.OneTimeLink, error) {
	link, err := scanLink(s.db.QueryRow(ctx,
		"SELECT "+linkColumns+" FROM one_time_links WHERE token = $1",
		token,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading link: %w", err)
	}
	if link.Used {
		return link, ErrLinkUsed
	}
	return link, nil
}

// RedeemLink marks a link as used in association with the card it produced.
// The conditional UPDATE is the only mutual exclusion in the system: of N
// concurrent redemptions of one token, exactly one matches used = FALSE.
func (s *LinkService) RedeemLink(ctx context.Context, token string, cardID uuid.UUID) (*models.OneTimeLink, error) {
	link, err := scanLink(s.db.QueryRow(ctx, `
		UPDATE one_time_links
		SET used = TRUE, used_at = NOW(), created_card_id = $2
		WHERE token = $1 AND used = FALSE
		RETURNING `+linkColumns,
		token, cardID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkUsedOrMissing
	}
	if err != nil {
		return nil, fmt.Errorf("redeeming link: %w", err)
	}
	return link, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, token string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM one_time_links WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (s *LinkService) ListLinks(ctx context.Context, limit int) ([]models.OneTimeLink, error) {
	if limit <= 0 {
		limit = defaultLinkListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.db.Query(ctx,
		"SELECT "+linkColumns+" FROM one_time_links ORDER BY created_at DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	defer rows.Close()

	links := make([]models.OneTimeLink, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		links = append(links, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return links, nil
}

func scanLink(row Row) (*models.OneTimeLink, error) {
	link := &models.OneTimeLink{}
	err := row.Scan(
		&link.ID,
		&link.Token,
		&link.Used,
		&link.UsedAt,
		&link.CreatedCardID,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return link, nil
}

var _ LinkServiceInterface = (*LinkService)(nil)
