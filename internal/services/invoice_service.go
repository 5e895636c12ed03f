package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

// InvoiceService turns a request's cost breakdown into an invoice. The
// invoice total stays a draft figure until payment; paying flips both the
// invoice and the owning request.
type InvoiceService struct {
	InvoiceRepo *repositories.InvoiceRepository
	RequestRepo *repositories.ServiceRequestRepository
	CostSvc     *CostService
}

func NewInvoiceService(
	invoiceRepo *repositories.InvoiceRepository,
	requestRepo *repositories.ServiceRequestRepository,
	costSvc *CostService,
) *InvoiceService {
	return &InvoiceService{InvoiceRepo: invoiceRepo, RequestRepo: requestRepo, CostSvc: costSvc}
}

// Generate builds an invoice from the request's current cost breakdown.
// One invoice per request; re-generating an unpaid one is not supported,
// the draft is corrected by completing or cancelling the underlying work.
func (s *InvoiceService) Generate(ctx context.Context, requestID, actorID int, notes string) (*models.InvoiceWithItems, error) {
	existing, err := s.InvoiceRepo.GetByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("request %d already has invoice %s", requestID, existing.InvoiceNumber)
	}

	bd, err := s.CostSvc.ComputeCost(ctx, requestID)
	if err != nil {
		return nil, err
	}

	number, err := s.InvoiceRepo.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceNumber:    number,
		ServiceRequestID: requestID,
		ContainerNo:      bd.ContainerNo,
		TotalAmount:      bd.Total,
		IssuedByUserID:   actorID,
		Notes:            notes,
	}

	var items []models.InvoiceItem
	items = append(items, models.InvoiceItem{ItemCode: models.ItemCodeBase, Label: "Base service charge", Amount: bd.BaseAmount})
	if bd.RepairAmount > 0 {
		items = append(items, models.InvoiceItem{ItemCode: models.ItemCodeRepair, Label: "Container repair", Amount: bd.RepairAmount})
	}
	if bd.ForkliftAmount > 0 {
		items = append(items, models.InvoiceItem{ItemCode: models.ItemCodeLOLO, Label: "Lift on/off handling", Amount: bd.ForkliftAmount})
	}
	if bd.SealAmount > 0 {
		items = append(items, models.InvoiceItem{ItemCode: models.ItemCodeSeal, Label: "Security seals", Amount: bd.SealAmount})
	}

	if err := s.InvoiceRepo.Create(ctx, invoice, items); err != nil {
		return nil, err
	}

	log.Printf("[Invoice] generated %s for request %d, total %.0f", number, requestID, bd.Total)
	return s.InvoiceRepo.Get(ctx, invoice.ID)
}

// MarkPaid settles an invoice and flips the owning request's paid flag.
// From this point the invoice total is authoritative for display.
func (s *InvoiceService) MarkPaid(ctx context.Context, id int) error {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if inv.IsPaid {
		return errors.New("invoice is already paid")
	}
	if err := s.InvoiceRepo.MarkPaid(ctx, id); err != nil {
		return err
	}
	if err := s.RequestRepo.SetPaid(ctx, inv.ServiceRequestID); err != nil {
		return err
	}
	log.Printf("[Invoice] %s marked paid", inv.InvoiceNumber)
	return nil
}

// Get returns one invoice with its lines
func (s *InvoiceService) Get(ctx context.Context, id int) (*models.InvoiceWithItems, error) {
	return s.InvoiceRepo.Get(ctx, id)
}

// List returns all invoices, newest first
func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	return s.InvoiceRepo.List(ctx)
}
