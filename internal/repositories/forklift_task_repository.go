package repositories

import (
	"context"
	"fmt"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ForkliftTaskRepository struct {
	DB *pgxpool.Pool
}

func NewForkliftTaskRepository(db *pgxpool.Pool) *ForkliftTaskRepository {
	return &ForkliftTaskRepository{DB: db}
}

const forkliftColumns = `
	id, container_no, service_request_id, task_type, status, cost,
	driver_name, assigned_at, completed_at, created_at, updated_at
`

func scanForkliftTask(row pgx.Row) (*models.ForkliftTask, error) {
	t := &models.ForkliftTask{}
	err := row.Scan(
		&t.ID, &t.ContainerNo, &t.ServiceRequestID, &t.TaskType, &t.Status,
		&t.Cost, &t.DriverName, &t.AssignedAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create enqueues a new forklift task in PENDING status
func (r *ForkliftTaskRepository) Create(ctx context.Context, t *models.ForkliftTask) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO forklift_tasks (container_no, service_request_id, task_type, status)
		VALUES ($1, $2, $3, 'PENDING')
		RETURNING id, status, created_at, updated_at
	`, t.ContainerNo, t.ServiceRequestID, t.TaskType).Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// Get retrieves a forklift task by ID
func (r *ForkliftTaskRepository) Get(ctx context.Context, id int) (*models.ForkliftTask, error) {
	return scanForkliftTask(r.DB.QueryRow(ctx, `SELECT `+forkliftColumns+` FROM forklift_tasks WHERE id = $1`, id))
}

// List retrieves tasks with an optional status filter
func (r *ForkliftTaskRepository) List(ctx context.Context, status string) ([]models.ForkliftTask, error) {
	query := `SELECT ` + forkliftColumns + ` FROM forklift_tasks`
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

	var tasks []models.ForkliftTask
	for rows.Next() {
		t, err := scanForkliftTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// SumCompletedCostByRequest totals LOLO charges for one request's completed
// tasks. Cancelled and still-open tasks never bill.
func (r *ForkliftTaskRepository) SumCompletedCostByRequest(ctx context.Context, requestID int) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(cost), 0) FROM forklift_tasks
		WHERE service_request_id = $1 AND status = 'COMPLETED'
	`, requestID).Scan(&total)
	return total, err
}

// Assign hands a pending task to a driver
func (r *ForkliftTaskRepository) Assign(ctx context.Context, id int, driverName string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE forklift_tasks
		SET status = 'IN_PROGRESS', driver_name = $1, assigned_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = 'PENDING'
	`, driverName, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("forklift task %d not found or not pending", id)
	}
	return nil
}

// Complete closes an in-progress task and captures its cost
func (r *ForkliftTaskRepository) Complete(ctx context.Context, id int, cost float64) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE forklift_tasks
		SET status = 'COMPLETED', cost = $1, completed_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = 'IN_PROGRESS'
	`, cost, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("forklift task %d not found or not in progress", id)
	}
	return nil
}

// Cancel voids a task that has not completed
func (r *ForkliftTaskRepository) Cancel(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE forklift_tasks
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status IN ('PENDING', 'IN_PROGRESS')
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("forklift task %d not found or already closed", id)
	}
	return nil
}
