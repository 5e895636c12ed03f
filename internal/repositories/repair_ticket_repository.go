package repositories

import (
	"context"
	"errors"
	"fmt"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepairTicketRepository struct {
	DB *pgxpool.Pool
}

func NewRepairTicketRepository(db *pgxpool.Pool) *RepairTicketRepository {
	return &RepairTicketRepository{DB: db}
}

const repairColumns = `
	id, container_no, service_request_id, status, description,
	estimated_cost, labor_cost, created_by_user_id, completed_at,
	created_at, updated_at
`

func scanRepairTicket(row pgx.Row) (*models.RepairTicket, error) {
	t := &models.RepairTicket{}
	err := row.Scan(
		&t.ID, &t.ContainerNo, &t.ServiceRequestID, &t.Status, &t.Description,
		&t.EstimatedCost, &t.LaborCost, &t.CreatedByUserID, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create opens a repair ticket in CHECKING status
func (r *RepairTicketRepository) Create(ctx context.Context, t *models.RepairTicket) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO repair_tickets (
			container_no, service_request_id, status, description,
			estimated_cost, labor_cost, created_by_user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, t.ContainerNo, t.ServiceRequestID, t.Status, t.Description,
		t.EstimatedCost, t.LaborCost, t.CreatedByUserID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Get retrieves a repair ticket by ID
func (r *RepairTicketRepository) Get(ctx context.Context, id int) (*models.RepairTicket, error) {
	return scanRepairTicket(r.DB.QueryRow(ctx, `SELECT `+repairColumns+` FROM repair_tickets WHERE id = $1`, id))
}

// GetLatestByContainer returns the newest repair ticket for a container,
// or nil when the container has none.
func (r *RepairTicketRepository) GetLatestByContainer(ctx context.Context, containerNo string) (*models.RepairTicket, error) {
	t, err := scanRepairTicket(r.DB.QueryRow(ctx, `
		SELECT `+repairColumns+` FROM repair_tickets
		WHERE container_no = $1 ORDER BY created_at DESC LIMIT 1
	`, containerNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// GetCompletedByRequest returns the COMPLETED ticket for a request, nil if none.
// The cost aggregator charges only completed repair work.
func (r *RepairTicketRepository) GetCompletedByRequest(ctx context.Context, requestID int) (*models.RepairTicket, error) {
	t, err := scanRepairTicket(r.DB.QueryRow(ctx, `
		SELECT `+repairColumns+` FROM repair_tickets
		WHERE service_request_id = $1 AND status = 'COMPLETED'
		ORDER BY completed_at DESC LIMIT 1
	`, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// List retrieves tickets with an optional status filter
func (r *RepairTicketRepository) List(ctx context.Context, status string) ([]models.RepairTicket, error) {
	query := `SELECT ` + repairColumns + ` FROM repair_tickets`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.RepairTicket
	for rows.Next() {
		t, err := scanRepairTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// UpdateStatus moves a ticket along its pipeline
func (r *RepairTicketRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE repair_tickets SET status = $1, updated_at = NOW() WHERE id = $2`
	if status == models.RepairCompleted {
		query = `UPDATE repair_tickets SET status = $1, completed_at = NOW(), updated_at = NOW() WHERE id = $2`
	}
	tag, err := r.DB.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repair ticket %d not found", id)
	}
	return nil
}

// UpdateEstimate records the surveyor's estimate on an open ticket
func (r *RepairTicketRepository) UpdateEstimate(ctx context.Context, id int, estimated, labor float64) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE repair_tickets
		SET estimated_cost = $1, labor_cost = $2, status = 'PENDING_ACCEPT', updated_at = NOW()
		WHERE id = $3 AND status IN ('CHECKING', 'PENDING_ACCEPT')
	`, estimated, labor, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repair ticket %d not found or not open for estimation", id)
	}
	return nil
}
