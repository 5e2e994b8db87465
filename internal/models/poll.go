package models

import (
	"time"

	"github.com/google/uuid"
)

// PollStatus is the lifecycle label of an award poll. Admins may set any
// status directly; the only automatic transition is the deadline close
// (VOTING_OPEN -> VOTING_CLOSED once ends_at has passed).
type PollStatus string

const (
	StatusNominationOpen   PollStatus = "NOMINATION_OPEN"
	StatusNominationClosed PollStatus = "NOMINATION_CLOSED"
	StatusVotingOpen       PollStatus = "VOTING_OPEN"
	StatusVotingClosed     PollStatus = "VOTING_CLOSED"
)

// ValidPollStatus reports whether s is one of the four poll statuses.
func ValidPollStatus(s string) bool {
	switch PollStatus(s) {
	case StatusNominationOpen, StatusNominationClosed, StatusVotingOpen, StatusVotingClosed:
		return true
	}
	return false
}

// Poll represents an award poll.
type Poll struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      PollStatus `json:"status"`
	EndsAt      *time.Time `json:"ends_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// VotingOpenAt reports whether votes may be cast in the poll at the given
// instant: status VOTING_OPEN and strictly before the deadline when one is set.
func (p *Poll) VotingOpenAt(now time.Time) bool {
	if p.Status != StatusVotingOpen {
		return false
	}
	return p.EndsAt == nil || now.Before(*p.EndsAt)
}
