package services

import (
	"bytes"
	"context"
	"fmt"

	"depot-backend/internal/repositories"
	"depot-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// DocumentService renders the printable paperwork: invoices and the
// Equipment Interchange Receipt (EIR) handed to the driver at the gate.
type DocumentService struct {
	InvoiceRepo *repositories.InvoiceRepository
	RequestRepo *repositories.ServiceRequestRepository
	YardRepo    *repositories.YardRepository
	SealRepo    *repositories.SealRepository
}

func NewDocumentService(
	invoiceRepo *repositories.InvoiceRepository,
	requestRepo *repositories.ServiceRequestRepository,
	yardRepo *repositories.YardRepository,
	sealRepo *repositories.SealRepository,
) *DocumentService {
	return &DocumentService{
		InvoiceRepo: invoiceRepo,
		RequestRepo: requestRepo,
		YardRepo:    yardRepo,
		SealRepo:    sealRepo,
	}
}

// GenerateInvoicePDF renders one invoice with its line items
func (s *DocumentService) GenerateInvoicePDF(ctx context.Context, invoiceID int) ([]byte, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	req, err := s.RequestRepo.Get(ctx, inv.ServiceRequestID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Container Depot - Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Invoice Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Invoice %s", inv.InvoiceNumber), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Container: %s", inv.ContainerNo), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Request: %s", req.RequestNo), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", req.CustomerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Type: %s", req.Type), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line items
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(35, 7, "Code", "1", 0, "C", true, 0, "")
	pdf.CellFormat(105, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(35, 6, item.ItemCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(105, 6, item.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.0f VND", item.Amount), "1", 1, "R", false, 0, "")
	}

	// Total - highlight by payment state
	if inv.IsPaid {
		pdf.SetFillColor(200, 255, 200)
	} else {
		pdf.SetFillColor(255, 200, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	totalText := fmt.Sprintf("Total: %.0f VND", inv.TotalAmount)
	if inv.IsPaid {
		totalText += " (PAID)"
	} else {
		totalText += " (UNPAID)"
	}
	pdf.CellFormat(190, 10, totalText, "1", 1, "C", true, 0, "")

	if inv.Notes != "" {
		pdf.Ln(5)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(190, 5, fmt.Sprintf("Notes: %s", inv.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateEIRPDF renders the Equipment Interchange Receipt for a request:
// container, truck, placement and seal details as handed over at the gate.
func (s *DocumentService) GenerateEIRPDF(ctx context.Context, requestID int) ([]byte, error) {
	req, err := s.RequestRepo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Equipment Interchange Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Request %s - %s", req.RequestNo, timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Container & Carrier", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Container: %s", req.ContainerNo), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Direction: %s", req.Type), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("License plate: %s", req.LicensePlate), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", req.Status), "RB", 1, "L", false, 0, "")
	if req.BookingReference != nil {
		pdf.CellFormat(190, 7, fmt.Sprintf("Booking: %s", *req.BookingReference), "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	placement, err := s.YardRepo.GetActivePlacement(ctx, req.ContainerNo)
	if err == nil && placement != nil {
		slot, slotErr := s.YardRepo.GetSlot(ctx, placement.SlotID)
		if slotErr == nil {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(190, 8, "Yard Position", "1", 1, "L", true, 0, "")
			pdf.SetFont("Arial", "", 11)
			pdf.CellFormat(95, 7, fmt.Sprintf("Slot: %s", slot.Code), "LB", 0, "L", false, 0, "")
			pdf.CellFormat(95, 7, fmt.Sprintf("Tier: %d", placement.Tier), "RB", 1, "L", false, 0, "")
			pdf.Ln(5)
		}
	}

	usage, err := s.SealRepo.GetLatestUsageByContainer(ctx, req.ContainerNo)
	if err == nil && usage != nil {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Seal", "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(95, 7, fmt.Sprintf("Seal number: %s", usage.SealNumber), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("Issued: %s", usage.UsedAt.Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
		pdf.Ln(5)
	}

	// Signature lines
	pdf.Ln(15)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, "Depot representative: ____________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Driver: ____________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate EIR PDF: %w", err)
	}
	return buf.Bytes(), nil
}
