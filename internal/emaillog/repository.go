package emaillog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-awards/backend/internal/models"
)

// Repository persists email delivery attempts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts a delivery attempt row.
func (r *Repository) Record(ctx context.Context, log *models.EmailLog) error {
	query := `
		INSERT INTO email_logs (recipient_email, email_type, status, error_message)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		log.RecipientEmail, log.EmailType, log.Status, log.ErrorMessage,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert email log: %w", err)
	}
	return nil
}

// List returns the most recent delivery attempts, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.EmailLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT id, recipient_email, email_type, status, COALESCE(error_message, ''), created_at
		FROM email_logs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()

	var logs []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.RecipientEmail, &l.EmailType, &l.Status, &l.ErrorMessage, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan email log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
