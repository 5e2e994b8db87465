package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one account's vote in one poll. Append-only: the database
// enforces at most one row per (poll_id, user_id) and votes are never
// edited or withdrawn.
type Vote struct {
	ID           uuid.UUID `json:"id"`
	PollID       uuid.UUID `json:"poll_id"`
	NominationID uuid.UUID `json:"nomination_id"`
	UserID       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
