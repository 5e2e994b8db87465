package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("admin"))
	assert.True(t, ValidRole("voter"))
	assert.True(t, ValidRole("viewer"))
	assert.False(t, ValidRole("Admin"))
	assert.False(t, ValidRole("moderator"))
	assert.False(t, ValidRole(""))
}

func TestCanVote(t *testing.T) {
	assert.True(t, CanVote(RoleVoter, false))
	assert.True(t, CanVote(RoleVoter, true))
	assert.False(t, CanVote(RoleViewer, false))
	assert.False(t, CanVote(RoleViewer, true))
	assert.False(t, CanVote(RoleAdmin, false))
	assert.True(t, CanVote(RoleAdmin, true))
}

func TestCanModerate(t *testing.T) {
	assert.True(t, CanModerate(RoleAdmin))
	assert.False(t, CanModerate(RoleVoter))
	assert.False(t, CanModerate(RoleViewer))
}
