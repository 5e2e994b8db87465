package votes

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/campus-awards/backend/internal/models"
)

// RankedNomination is a nomination with its vote count and share of the
// poll's total.
type RankedNomination struct {
	models.Nomination
	Count   int     `json:"vote_count"`
	Percent float64 `json:"percent"`
}

// Tally aggregates per-nomination vote counts into rank order: descending
// by count, ties kept in the input (creation) order. Percent is the share
// of the poll total, 0 when no votes exist. Pure function; callers pass
// only approved nominations, which is what keeps unapproved nominees out
// of every result view.
func Tally(nominations []models.Nomination, counts map[uuid.UUID]int) []RankedNomination {
	ranked := make([]RankedNomination, 0, len(nominations))
	total := 0
	for _, n := range nominations {
		c := counts[n.ID]
		total += c
		ranked = append(ranked, RankedNomination{Nomination: n, Count: c})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if total > 0 {
		for i := range ranked {
			ranked[i].Percent = float64(ranked[i].Count) / float64(total) * 100
		}
	}
	return ranked
}

// Total returns the poll-wide vote count of a ranked result.
func Total(ranked []RankedNomination) int {
	total := 0
	for _, r := range ranked {
		total += r.Count
	}
	return total
}

// Tracker maintains a live tally fed by the vote event stream. Increments
// are keyed by vote ID so duplicate or replayed deliveries are no-ops;
// the stream is at-least-once.
type Tracker struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
	seen   map[uuid.UUID]struct{}
}

// NewTracker starts a tracker from a snapshot of per-nomination counts.
func NewTracker(counts map[uuid.UUID]int) *Tracker {
	snapshot := make(map[uuid.UUID]int, len(counts))
	for k, v := range counts {
		snapshot[k] = v
	}
	return &Tracker{counts: snapshot, seen: make(map[uuid.UUID]struct{})}
}

// Apply records one vote event. Returns true when the event was new.
func (t *Tracker) Apply(voteID, nominationID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.seen[voteID]; dup {
		return false
	}
	t.seen[voteID] = struct{}{}
	t.counts[nominationID]++
	return true
}

// Counts returns a copy of the current per-nomination counts.
func (t *Tracker) Counts() map[uuid.UUID]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[uuid.UUID]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}
