package polls

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-awards/backend/internal/models"
)

// Repository handles poll persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a polls repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new poll.
func (r *Repository) Create(ctx context.Context, p *models.Poll) error {
	const q = `INSERT INTO polls (title, description, status, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, p.Title, p.Description, string(p.Status), p.EndsAt).
		Scan(&p.ID, &p.CreatedAt)
}

// GetByID returns a poll by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	const q = `SELECT id, title, description, status, ends_at, created_at FROM polls WHERE id = $1`
	var p models.Poll
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.EndsAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all polls, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Poll, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, description, status, ends_at, created_at
		FROM polls ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Poll
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.EndsAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update sets title, description, status and deadline.
func (r *Repository) Update(ctx context.Context, p *models.Poll) error {
	const q = `UPDATE polls SET title = $2, description = $3, status = $4, ends_at = $5 WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, p.ID, p.Title, p.Description, string(p.Status), p.EndsAt)
	return err
}

// UpdateStatus sets only the status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PollStatus) error {
	const q = `UPDATE polls SET status = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, string(status))
	return err
}

// CloseExpired transitions every VOTING_OPEN poll whose deadline has passed
// to VOTING_CLOSED. Lazy, read-triggered: callers run it before reading
// polls for display so results are never shown against a stale open status.
// Idempotent; returns the number of polls closed.
func (r *Repository) CloseExpired(ctx context.Context) (int64, error) {
	const q = `UPDATE polls SET status = 'VOTING_CLOSED'
		WHERE status = 'VOTING_OPEN' AND ends_at IS NOT NULL AND ends_at < NOW()`
	tag, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
