package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceRequestRepository struct {
	DB *pgxpool.Pool
}

func NewServiceRequestRepository(db *pgxpool.Pool) *ServiceRequestRepository {
	return &ServiceRequestRepository{DB: db}
}

const serviceRequestColumns = `
	id, request_no, container_no, type, status, booking_reference,
	customer_name, license_plate, is_paid, history, created_by_user_id,
	created_at, updated_at
`

func scanServiceRequest(row pgx.Row) (*models.ServiceRequest, error) {
	req := &models.ServiceRequest{}
	var historyRaw []byte
	err := row.Scan(
		&req.ID, &req.RequestNo, &req.ContainerNo, &req.Type, &req.Status,
		&req.BookingReference, &req.CustomerName, &req.LicensePlate,
		&req.IsPaid, &historyRaw, &req.CreatedByUserID,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(historyRaw) > 0 {
		if err := json.Unmarshal(historyRaw, &req.History); err != nil {
			return nil, fmt.Errorf("failed to decode history for request %d: %w", req.ID, err)
		}
	}
	return req, nil
}

// GenerateRequestNo generates a unique request number from the DB sequence
func (r *ServiceRequestRepository) GenerateRequestNo(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('service_request_no_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next request number: %w", err)
	}
	return fmt.Sprintf("SR-%06d", nextNum), nil
}

// Create inserts a new service request in PENDING status
func (r *ServiceRequestRepository) Create(ctx context.Context, req *models.ServiceRequest) error {
	if req.RequestNo == "" {
		requestNo, err := r.GenerateRequestNo(ctx)
		if err != nil {
			return err
		}
		req.RequestNo = requestNo
	}

	query := `
		INSERT INTO service_requests (
			request_no, container_no, type, status, booking_reference,
			customer_name, license_plate, created_by_user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		req.RequestNo, req.ContainerNo, req.Type, req.Status,
		req.BookingReference, req.CustomerName, req.LicensePlate,
		req.CreatedByUserID,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

// Get retrieves a service request by ID
func (r *ServiceRequestRepository) Get(ctx context.Context, id int) (*models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id = $1`
	return scanServiceRequest(r.DB.QueryRow(ctx, query, id))
}

// ListByContainer retrieves all requests for a container, newest first.
// This ordering is what the state resolver depends on: the first
// non-terminal row is the container's active request.
func (r *ServiceRequestRepository) ListByContainer(ctx context.Context, containerNo string) ([]models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + `
		FROM service_requests WHERE container_no = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.Query(ctx, query, containerNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ServiceRequest
	for rows.Next() {
		req, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// List retrieves requests with optional status and type filters
func (r *ServiceRequestRepository) List(ctx context.Context, status, reqType string) ([]models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE 1=1`
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if reqType != "" {
		args = append(args, reqType)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ServiceRequest
	for rows.Next() {
		req, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// ListActiveContainers returns distinct container numbers that have at least
// one non-terminal request or an active yard placement. This drives the
// batch reconciliation scan.
func (r *ServiceRequestRepository) ListActiveContainers(ctx context.Context) ([]string, error) {
	query := `
		SELECT container_no FROM service_requests
		WHERE status NOT IN ('COMPLETED', 'REJECTED', 'GATE_REJECTED')
		UNION
		SELECT container_no FROM yard_placements
		WHERE status = 'OCCUPIED' AND removed_at IS NULL
		ORDER BY container_no
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var containers []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}
	return containers, rows.Err()
}

// UpdateStatusTx updates a request's status and appends one history entry
// inside the caller's transaction. The guard clause refuses to move a row
// that is already in a terminal status, whatever the caller thinks the
// current state is.
func (r *ServiceRequestRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int, newStatus string, entry models.HistoryEntry) error {
	entryJSON, err := json.Marshal([]models.HistoryEntry{entry})
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE service_requests
		SET status = $1, history = history || $2::jsonb, updated_at = NOW()
		WHERE id = $3 AND status NOT IN ('COMPLETED', 'REJECTED', 'GATE_REJECTED')
	`, newStatus, entryJSON, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("service request %d not found or already closed", id)
	}
	return nil
}

// SetPaid marks the request's service cycle as settled
func (r *ServiceRequestRepository) SetPaid(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `UPDATE service_requests SET is_paid = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("service request %d not found", id)
	}
	return nil
}

// ListContainersWithBooking returns container numbers that have at least one
// request carrying a booking reference, with the newest such reference.
// Used by the batch seal/booking synchronizer.
func (r *ServiceRequestRepository) ListContainersWithBooking(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT DISTINCT ON (container_no) container_no, booking_reference
		FROM service_requests
		WHERE booking_reference IS NOT NULL
		ORDER BY container_no, created_at DESC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make(map[string]string)
	for rows.Next() {
		var containerNo, booking string
		if err := rows.Scan(&containerNo, &booking); err != nil {
			return nil, err
		}
		bookings[containerNo] = booking
	}
	return bookings, rows.Err()
}
