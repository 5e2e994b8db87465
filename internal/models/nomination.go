package models

import (
	"time"

	"github.com/google/uuid"
)

// Nomination represents a nominee submitted to a poll. Only approved
// nominations are visible to voters or counted in tallies.
type Nomination struct {
	ID          uuid.UUID `json:"id"`
	PollID      uuid.UUID `json:"poll_id"`
	NomineeName string    `json:"nominee_name"`
	ImageURL    string    `json:"image_url,omitempty"`
	NominatedBy uuid.UUID `json:"nominated_by"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// NominationWithSubmitter is a nomination joined with the submitting
// account's email for the admin moderation view.
type NominationWithSubmitter struct {
	Nomination
	SubmitterEmail string `json:"submitter_email"`
}
