package repositories

import (
	"context"
	"errors"
	"fmt"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SealRepository struct {
	DB *pgxpool.Pool
}

func NewSealRepository(db *pgxpool.Pool) *SealRepository {
	return &SealRepository{DB: db}
}

// CreateSeal registers a purchased batch of seals
func (r *SealRepository) CreateSeal(ctx context.Context, s *models.Seal) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO seals (seal_prefix, unit_price, quantity_purchased, quantity_exported, purchased_at)
		VALUES ($1, $2, $3, 0, NOW())
		RETURNING id, quantity_exported, purchased_at, created_at, updated_at
	`, s.SealPrefix, s.UnitPrice, s.QuantityPurchased).Scan(
		&s.ID, &s.QuantityExported, &s.PurchasedAt, &s.CreatedAt, &s.UpdatedAt)
}

// GetSeal retrieves a seal batch; quantity_remaining is derived in SQL
func (r *SealRepository) GetSeal(ctx context.Context, id int) (*models.Seal, error) {
	s := &models.Seal{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, seal_prefix, unit_price, quantity_purchased, quantity_exported,
		       quantity_purchased - quantity_exported AS quantity_remaining,
		       purchased_at, created_at, updated_at
		FROM seals WHERE id = $1
	`, id).Scan(
		&s.ID, &s.SealPrefix, &s.UnitPrice, &s.QuantityPurchased, &s.QuantityExported,
		&s.QuantityRemaining, &s.PurchasedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSeals retrieves all seal batches
func (r *SealRepository) ListSeals(ctx context.Context) ([]models.Seal, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, seal_prefix, unit_price, quantity_purchased, quantity_exported,
		       quantity_purchased - quantity_exported AS quantity_remaining,
		       purchased_at, created_at, updated_at
		FROM seals ORDER BY purchased_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seals []models.Seal
	for rows.Next() {
		var s models.Seal
		if err := rows.Scan(
			&s.ID, &s.SealPrefix, &s.UnitPrice, &s.QuantityPurchased, &s.QuantityExported,
			&s.QuantityRemaining, &s.PurchasedAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		seals = append(seals, s)
	}
	return seals, rows.Err()
}

// IssueSeal consumes one seal from a batch for a container: a usage row is
// written and the exported count incremented, atomically.
func (r *SealRepository) IssueSeal(ctx context.Context, usage *models.SealUsage) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE seals SET quantity_exported = quantity_exported + 1, updated_at = NOW()
		WHERE id = $1 AND quantity_exported < quantity_purchased
	`, usage.SealID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("seal batch %d not found or exhausted", usage.SealID)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO seal_usages (seal_id, seal_number, container_number, booking_number, issued_by_user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, used_at
	`, usage.SealID, usage.SealNumber, usage.ContainerNo, usage.BookingNumber, usage.IssuedByID,
	).Scan(&usage.ID, &usage.UsedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListUsageByContainer retrieves a container's seal usage rows, newest first
func (r *SealRepository) ListUsageByContainer(ctx context.Context, containerNo string) ([]models.SealUsage, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, seal_id, seal_number, container_number, booking_number, issued_by_user_id, used_at
		FROM seal_usages WHERE container_number = $1 ORDER BY used_at DESC
	`, containerNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []models.SealUsage
	for rows.Next() {
		var u models.SealUsage
		if err := rows.Scan(&u.ID, &u.SealID, &u.SealNumber, &u.ContainerNo, &u.BookingNumber, &u.IssuedByID, &u.UsedAt); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

// GetLatestUsageByContainer returns the newest usage row for a
// container, nil when the container never consumed a seal.
func (r *SealRepository) GetLatestUsageByContainer(ctx context.Context, containerNo string) (*models.SealUsage, error) {
	u := &models.SealUsage{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, seal_id, seal_number, container_number, booking_number, issued_by_user_id, used_at
		FROM seal_usages WHERE container_number = $1 ORDER BY used_at DESC LIMIT 1
	`, containerNo).Scan(&u.ID, &u.SealID, &u.SealNumber, &u.ContainerNo, &u.BookingNumber, &u.IssuedByID, &u.UsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SumUsageCostByContainer totals the unit price of every seal a container
// consumed. Seals are billed at the purchase price of their batch.
func (r *SealRepository) SumUsageCostByContainer(ctx context.Context, containerNo string) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(s.unit_price), 0)
		FROM seal_usages u JOIN seals s ON s.id = u.seal_id
		WHERE u.container_number = $1
	`, containerNo).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum seal cost: %w", err)
	}
	return total, nil
}

// BackfillBooking fills booking numbers that are still NULL for one
// container. Rows that already carry a booking number are untouched, which
// is what makes the synchronizer idempotent: a second run matches zero rows.
func (r *SealRepository) BackfillBooking(ctx context.Context, containerNo, bookingRef string) (int, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE seal_usages SET booking_number = $1
		WHERE container_number = $2 AND booking_number IS NULL
	`, bookingRef, containerNo)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
