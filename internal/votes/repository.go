package votes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-awards/backend/internal/models"
)

// ErrAlreadyVoted is returned when the (poll, account) uniqueness
// constraint rejects an insert.
var ErrAlreadyVoted = errors.New("already voted in this poll")

const uniqueViolation = "23505"

// Repository handles the append-only vote ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a votes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert records a vote. The insert is optimistic: uniqueness of
// (poll_id, user_id) is enforced by the votes_poll_user_key constraint, and
// a violation maps to ErrAlreadyVoted. This is the only race-free way to
// reject a double vote from concurrent requests; there is deliberately no
// check-then-insert here.
func (r *Repository) Insert(ctx context.Context, v *models.Vote) error {
	const q = `INSERT INTO votes (poll_id, nomination_id, user_id) VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, v.PollID, v.NominationID, v.UserID).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyVoted
		}
		return err
	}
	return nil
}

// HasVoted reports whether the account already has a vote in the poll.
// Display only; casting never relies on this check.
func (r *Repository) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2)`
	var voted bool
	err := r.pool.QueryRow(ctx, q, pollID, userID).Scan(&voted)
	return voted, err
}

// CountsByNomination returns vote counts grouped by nomination for a poll.
func (r *Repository) CountsByNomination(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int, error) {
	const q = `SELECT nomination_id, COUNT(*) FROM votes WHERE poll_id = $1 GROUP BY nomination_id`
	rows, err := r.pool.Query(ctx, q, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// CountAll returns the total number of votes across all polls.
func (r *Repository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes`).Scan(&n)
	return n, err
}
