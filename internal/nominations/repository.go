package nominations

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-awards/backend/internal/models"
)

// Repository handles nomination persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a nominations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new nomination, unapproved.
func (r *Repository) Create(ctx context.Context, n *models.Nomination) error {
	const q = `INSERT INTO nominations (poll_id, nominee_name, image_url, nominated_by, approved)
		VALUES ($1, $2, NULLIF($3, ''), $4, FALSE)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, n.PollID, n.NomineeName, n.ImageURL, n.NominatedBy).
		Scan(&n.ID, &n.CreatedAt)
}

// GetByID returns a nomination by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Nomination, error) {
	const q = `SELECT id, poll_id, nominee_name, COALESCE(image_url, ''), nominated_by, approved, created_at
		FROM nominations WHERE id = $1`
	var n models.Nomination
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&n.ID, &n.PollID, &n.NomineeName, &n.ImageURL, &n.NominatedBy, &n.Approved, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// SetApproval sets the approval flag. Toggling either way is always legal.
func (r *Repository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	const q = `UPDATE nominations SET approved = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, approved)
	return err
}

// ListApproved returns a poll's approved nominations in creation order.
// This is the voter-facing set; it is also the tally input, so the
// approved filter here is what keeps unapproved nominees out of results.
func (r *Repository) ListApproved(ctx context.Context, pollID uuid.UUID) ([]models.Nomination, error) {
	const q = `SELECT id, poll_id, nominee_name, COALESCE(image_url, ''), nominated_by, approved, created_at
		FROM nominations WHERE poll_id = $1 AND approved = TRUE ORDER BY created_at`
	return r.list(ctx, q, pollID)
}

// ListAll returns every nomination of a poll joined with the submitter's
// email, for the admin moderation view.
func (r *Repository) ListAll(ctx context.Context, pollID uuid.UUID) ([]models.NominationWithSubmitter, error) {
	const q = `SELECT n.id, n.poll_id, n.nominee_name, COALESCE(n.image_url, ''), n.nominated_by, n.approved, n.created_at, u.email
		FROM nominations n JOIN users u ON u.id = n.nominated_by
		WHERE n.poll_id = $1 ORDER BY n.created_at`
	rows, err := r.pool.Query(ctx, q, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.NominationWithSubmitter
	for rows.Next() {
		var n models.NominationWithSubmitter
		if err := rows.Scan(&n.ID, &n.PollID, &n.NomineeName, &n.ImageURL, &n.NominatedBy, &n.Approved, &n.CreatedAt, &n.SubmitterEmail); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *Repository) list(ctx context.Context, q string, pollID uuid.UUID) ([]models.Nomination, error) {
	rows, err := r.pool.Query(ctx, q, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Nomination
	for rows.Next() {
		var n models.Nomination
		if err := rows.Scan(&n.ID, &n.PollID, &n.NomineeName, &n.ImageURL, &n.NominatedBy, &n.Approved, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
