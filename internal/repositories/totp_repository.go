package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TOTPRepository struct {
	DB *pgxpool.Pool
}

func NewTOTPRepository(db *pgxpool.Pool) *TOTPRepository {
	return &TOTPRepository{DB: db}
}

// SaveSecret stores a user's pending TOTP secret (not yet verified)
func (r *TOTPRepository) SaveSecret(ctx context.Context, userID int, secret string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO user_totp (user_id, secret, enabled)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO UPDATE SET secret = EXCLUDED.secret, enabled = FALSE, enabled_at = NULL
	`, userID, secret)
	return err
}

// GetSecret retrieves a user's secret and whether 2FA is enabled
func (r *TOTPRepository) GetSecret(ctx context.Context, userID int) (string, bool, error) {
	var secret string
	var enabled bool
	err := r.DB.QueryRow(ctx, `SELECT secret, enabled FROM user_totp WHERE user_id = $1`, userID).Scan(&secret, &enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return secret, enabled, nil
}

// Enable flips 2FA on after the first successful code verification
func (r *TOTPRepository) Enable(ctx context.Context, userID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE user_totp SET enabled = TRUE, enabled_at = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no TOTP setup found for user %d", userID)
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Disable removes a user's 2FA enrollment
func (r *TOTPRepository) Disable(ctx context.Context, userID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_totp WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET totp_enabled = FALSE, updated_at = NOW() WHERE id = $1`, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// EnabledAt returns when 2FA was enabled, nil when not enabled
func (r *TOTPRepository) EnabledAt(ctx context.Context, userID int) (*time.Time, error) {
	var enabledAt *time.Time
	err := r.DB.QueryRow(ctx, `SELECT enabled_at FROM user_totp WHERE user_id = $1 AND enabled = TRUE`, userID).Scan(&enabledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return enabledAt, nil
}
