package models

import (
	"time"

	"github.com/google/uuid"
)

// OneTimeLink gates access to the card-creation flow. Used is monotonic:
// once a link is redeemed it never returns to unused.
type OneTimeLink struct {
	ID            uuid.UUID  `json:"id"`
	Token         string     `json:"token"`
	Used          bool       `json:"used"`
	UsedAt        *time.Time `json:"usedAt,omitempty"`
	CreatedCardID *uuid.UUID `json:"createdCardId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
