package settings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-awards/backend/internal/gate"
	"github.com/campus-awards/backend/internal/models"
)

// Repository handles key/value settings persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a settings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetAll returns the values for the given keys; missing keys are absent
// from the map.
func (r *Repository) GetAll(ctx context.Context, keys ...string) (map[string]string, error) {
	const q = `SELECT key, value FROM settings WHERE key = ANY($1)`
	rows, err := r.pool.Query(ctx, q, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// List returns all settings rows.
func (r *Repository) List(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Set upserts one key/value pair. Last write wins; admin edits are rare
// enough that no version check is kept.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	const q = `INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, key, value)
	return err
}

// AllowlistSettings loads the email gate configuration from the store.
func (r *Repository) AllowlistSettings(ctx context.Context) (gate.Settings, error) {
	m, err := r.GetAll(ctx,
		models.SettingAllowlistEnabled,
		models.SettingAllowlistRegex,
		models.SettingAllowlistMessage,
	)
	if err != nil {
		return gate.Settings{}, err
	}
	return gate.Settings{
		Enabled: m[models.SettingAllowlistEnabled] == "true",
		Pattern: m[models.SettingAllowlistRegex],
		Message: m[models.SettingAllowlistMessage],
	}, nil
}
