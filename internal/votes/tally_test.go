package votes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-awards/backend/internal/models"
)

func nomination(name string) models.Nomination {
	return models.Nomination{ID: uuid.New(), NomineeName: name}
}

func TestTallyRanksByCountDescending(t *testing.T) {
	a, b, c := nomination("Alice"), nomination("Bob"), nomination("Carol")
	counts := map[uuid.UUID]int{a.ID: 2, b.ID: 5, c.ID: 3}

	ranked := Tally([]models.Nomination{a, b, c}, counts)

	require.Len(t, ranked, 3)
	assert.Equal(t, "Bob", ranked[0].NomineeName)
	assert.Equal(t, "Carol", ranked[1].NomineeName)
	assert.Equal(t, "Alice", ranked[2].NomineeName)
	assert.Equal(t, 10, Total(ranked))
}

func TestTallyTiesKeepCreationOrder(t *testing.T) {
	a, b, c := nomination("first"), nomination("second"), nomination("third")
	counts := map[uuid.UUID]int{a.ID: 1, b.ID: 1, c.ID: 1}

	ranked := Tally([]models.Nomination{a, b, c}, counts)

	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].NomineeName)
	assert.Equal(t, "second", ranked[1].NomineeName)
	assert.Equal(t, "third", ranked[2].NomineeName)
}

func TestTallyPercentages(t *testing.T) {
	a, b := nomination("a"), nomination("b")
	counts := map[uuid.UUID]int{a.ID: 3, b.ID: 1}

	ranked := Tally([]models.Nomination{a, b}, counts)

	assert.InDelta(t, 75.0, ranked[0].Percent, 0.001)
	assert.InDelta(t, 25.0, ranked[1].Percent, 0.001)
}

func TestTallyPercentSumsToHundred(t *testing.T) {
	a, b, c := nomination("a"), nomination("b"), nomination("c")
	counts := map[uuid.UUID]int{a.ID: 1, b.ID: 1, c.ID: 1}

	ranked := Tally([]models.Nomination{a, b, c}, counts)

	sum := 0.0
	for _, r := range ranked {
		sum += r.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.001)
}

func TestTallyNoVotes(t *testing.T) {
	a, b := nomination("a"), nomination("b")

	ranked := Tally([]models.Nomination{a, b}, map[uuid.UUID]int{})

	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.Equal(t, 0, r.Count)
		assert.Equal(t, 0.0, r.Percent)
	}
	assert.Equal(t, 0, Total(ranked))
}

func TestTallyZeroCountNominationsIncluded(t *testing.T) {
	a, b := nomination("voted"), nomination("unvoted")
	counts := map[uuid.UUID]int{a.ID: 4}

	ranked := Tally([]models.Nomination{b, a}, counts)

	require.Len(t, ranked, 2)
	assert.Equal(t, "voted", ranked[0].NomineeName)
	assert.Equal(t, "unvoted", ranked[1].NomineeName)
	assert.Equal(t, 0, ranked[1].Count)
	assert.InDelta(t, 100.0, ranked[0].Percent, 0.001)
}

func TestTallyEmpty(t *testing.T) {
	ranked := Tally(nil, nil)
	assert.Empty(t, ranked)
	assert.Equal(t, 0, Total(ranked))
}

func TestTrackerAppliesNewVotes(t *testing.T) {
	nomA, nomB := uuid.New(), uuid.New()
	tr := NewTracker(map[uuid.UUID]int{nomA: 2})

	assert.True(t, tr.Apply(uuid.New(), nomA))
	assert.True(t, tr.Apply(uuid.New(), nomB))

	counts := tr.Counts()
	assert.Equal(t, 3, counts[nomA])
	assert.Equal(t, 1, counts[nomB])
}

func TestTrackerIgnoresDuplicateDeliveries(t *testing.T) {
	nom := uuid.New()
	voteID := uuid.New()
	tr := NewTracker(nil)

	assert.True(t, tr.Apply(voteID, nom))
	assert.False(t, tr.Apply(voteID, nom))
	assert.False(t, tr.Apply(voteID, nom))

	assert.Equal(t, 1, tr.Counts()[nom])
}

func TestTrackerCountsReturnsCopy(t *testing.T) {
	nom := uuid.New()
	tr := NewTracker(map[uuid.UUID]int{nom: 1})

	counts := tr.Counts()
	counts[nom] = 99

	assert.Equal(t, 1, tr.Counts()[nom])
}
