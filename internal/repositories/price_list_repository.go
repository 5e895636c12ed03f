package repositories

import (
	"context"
	"errors"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PriceListRepository struct {
	DB *pgxpool.Pool
}

func NewPriceListRepository(db *pgxpool.Pool) *PriceListRepository {
	return &PriceListRepository{DB: db}
}

// Upsert inserts or replaces one tariff line keyed by (service_type, item_code)
func (r *PriceListRepository) Upsert(ctx context.Context, e *models.PriceListEntry) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO price_list (service_type, item_code, label, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (service_type, item_code)
		DO UPDATE SET label = EXCLUDED.label, amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, e.ServiceType, e.ItemCode, e.Label, e.Amount).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// ListByType retrieves the tariff lines for one service type
func (r *PriceListRepository) ListByType(ctx context.Context, serviceType string) ([]models.PriceListEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, service_type, item_code, label, amount, created_at, updated_at
		FROM price_list WHERE service_type = $1 ORDER BY item_code
	`, serviceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.PriceListEntry
	for rows.Next() {
		var e models.PriceListEntry
		if err := rows.Scan(&e.ID, &e.ServiceType, &e.ItemCode, &e.Label, &e.Amount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetAmount returns one tariff line's amount, false when no line exists
func (r *PriceListRepository) GetAmount(ctx context.Context, serviceType, itemCode string) (float64, bool, error) {
	var amount float64
	err := r.DB.QueryRow(ctx, `
		SELECT amount FROM price_list WHERE service_type = $1 AND item_code = $2
	`, serviceType, itemCode).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

// SumByType totals the base tariff for one service type. This is the
// price-list default shown while a request is unpaid.
func (r *PriceListRepository) SumByType(ctx context.Context, serviceType string) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM price_list WHERE service_type = $1
	`, serviceType).Scan(&total)
	return total, err
}
