package repository

import (
	"context"
	"database/sql"
)

// SettingsRepo handles the string-keyed settings table. It is the durable
// store behind runtime flags such as the cover migration marker.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get(ctx context.Context, key string) (*Setting, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM settings WHERE key = ?`, key)
	var s Setting
	if err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO settings(key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP;
	`, key, value)
	return err
}

// Flag reads a boolean-valued setting. A missing key reads as false.
func (r *SettingsRepo) Flag(ctx context.Context, key string) (bool, error) {
	s, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return s != nil && s.Value == "true", nil
}

// SetFlag writes a boolean-valued setting.
func (r *SettingsRepo) SetFlag(ctx context.Context, key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}
	return r.Set(ctx, key, v)
}
