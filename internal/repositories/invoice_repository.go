package repositories

import (
	"context"
	"errors"
	"fmt"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// GenerateInvoiceNumber generates a unique invoice number from the DB sequence
func (r *InvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('invoice_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", nextNum), nil
}

// Create creates a new invoice with its line items in one transaction
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if invoice.InvoiceNumber == "" {
		invoiceNumber, err := r.GenerateInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = invoiceNumber
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, service_request_id, container_no, total_amount, issued_by_user_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_paid, created_at, updated_at
	`, invoice.InvoiceNumber, invoice.ServiceRequestID, invoice.ContainerNo,
		invoice.TotalAmount, invoice.IssuedByUserID, invoice.Notes,
	).Scan(&invoice.ID, &invoice.IsPaid, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return err
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, item_code, label, amount)
			VALUES ($1, $2, $3, $4)
		`, invoice.ID, item.ItemCode, item.Label, item.Amount)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves an invoice with its items
func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.InvoiceWithItems, error) {
	inv := &models.InvoiceWithItems{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, invoice_number, service_request_id, container_no, total_amount,
		       is_paid, paid_at, issued_by_user_id, notes, created_at, updated_at
		FROM invoices WHERE id = $1
	`, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ServiceRequestID, &inv.ContainerNo,
		&inv.TotalAmount, &inv.IsPaid, &inv.PaidAt, &inv.IssuedByUserID,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, invoice_id, item_code, label, amount, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.ItemCode, &item.Label, &item.Amount, &item.CreatedAt); err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}
	return inv, rows.Err()
}

// GetByRequest returns a request's invoice, nil when none has been drafted
func (r *InvoiceRepository) GetByRequest(ctx context.Context, requestID int) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, invoice_number, service_request_id, container_no, total_amount,
		       is_paid, paid_at, issued_by_user_id, notes, created_at, updated_at
		FROM invoices WHERE service_request_id = $1 ORDER BY created_at DESC LIMIT 1
	`, requestID).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ServiceRequestID, &inv.ContainerNo,
		&inv.TotalAmount, &inv.IsPaid, &inv.PaidAt, &inv.IssuedByUserID,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// List retrieves all invoices, newest first
func (r *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, invoice_number, service_request_id, container_no, total_amount,
		       is_paid, paid_at, issued_by_user_id, notes, created_at, updated_at
		FROM invoices ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.ServiceRequestID, &inv.ContainerNo,
			&inv.TotalAmount, &inv.IsPaid, &inv.PaidAt, &inv.IssuedByUserID,
			&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// MarkPaid settles an invoice; from this point its total is authoritative
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE invoices SET is_paid = TRUE, paid_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_paid = FALSE
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %d not found or already paid", id)
	}
	return nil
}
