package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidPollStatus(t *testing.T) {
	for _, s := range []string{"NOMINATION_OPEN", "NOMINATION_CLOSED", "VOTING_OPEN", "VOTING_CLOSED"} {
		assert.True(t, ValidPollStatus(s), s)
	}
	assert.False(t, ValidPollStatus("voting_open"))
	assert.False(t, ValidPollStatus("DRAFT"))
	assert.False(t, ValidPollStatus(""))
}

func TestVotingOpenAt(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		status PollStatus
		endsAt *time.Time
		want   bool
	}{
		{"open without deadline", StatusVotingOpen, nil, true},
		{"open before deadline", StatusVotingOpen, &future, true},
		{"open past deadline", StatusVotingOpen, &past, false},
		{"deadline exactly now", StatusVotingOpen, &now, false},
		{"nomination phase", StatusNominationOpen, &future, false},
		{"closed", StatusVotingClosed, &future, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Poll{Status: tt.status, EndsAt: tt.endsAt}
			assert.Equal(t, tt.want, p.VotingOpenAt(now))
		})
	}
}
