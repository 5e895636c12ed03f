package services

import (
	"bytes"
	"context"
	"fmt"

	"depot-backend/internal/repositories"
	"depot-backend/internal/timeutil"

	"github.com/xuri/excelize/v2"
)

// ReportService builds the Excel exports operators pull for stock takes
// and month-end billing.
type ReportService struct {
	YardRepo    *repositories.YardRepository
	RequestRepo *repositories.ServiceRequestRepository
	InvoiceRepo *repositories.InvoiceRepository
}

func NewReportService(
	yardRepo *repositories.YardRepository,
	requestRepo *repositories.ServiceRequestRepository,
	invoiceRepo *repositories.InvoiceRepository,
) *ReportService {
	return &ReportService{YardRepo: yardRepo, RequestRepo: requestRepo, InvoiceRepo: invoiceRepo}
}

// YardInventoryExcel exports every active placement with its slot position.
// This is the list a stock take is checked against, so it reads from
// placements, not from the slot cache.
func (s *ReportService) YardInventoryExcel(ctx context.Context) ([]byte, error) {
	occupancy, err := s.YardRepo.OccupancyMap(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Slot Code")
	f.SetCellValue(sheet, "B1", "Block")
	f.SetCellValue(sheet, "C1", "Tier")
	f.SetCellValue(sheet, "D1", "Container")
	f.SetCellValue(sheet, "E1", "Status")
	f.SetCellValue(sheet, "F1", "Placed At")

	row := 2
	for _, occ := range occupancy {
		for _, p := range occ.Placements {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), occ.Slot.Code)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), occ.Slot.Block)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Tier)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.ContainerNo)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.Status)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.PlacedAt.In(timeutil.Location()).Format("02-Jan-2006 15:04"))
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate yard inventory export: %w", err)
	}
	return buf.Bytes(), nil
}

// InvoiceSummaryExcel exports all invoices with their payment states
func (s *ReportService) InvoiceSummaryExcel(ctx context.Context) ([]byte, error) {
	invoices, err := s.InvoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Invoice No")
	f.SetCellValue(sheet, "B1", "Container")
	f.SetCellValue(sheet, "C1", "Total")
	f.SetCellValue(sheet, "D1", "Paid")
	f.SetCellValue(sheet, "E1", "Paid At")
	f.SetCellValue(sheet, "F1", "Created At")

	for i, inv := range invoices {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), inv.InvoiceNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), inv.ContainerNo)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), inv.TotalAmount)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), inv.IsPaid)
		if inv.PaidAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", r), inv.PaidAt.In(timeutil.Location()).Format("02-Jan-2006"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), inv.CreatedAt.In(timeutil.Location()).Format("02-Jan-2006"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate invoice summary export: %w", err)
	}
	return buf.Bytes(), nil
}

// RequestLedger summarizes request counts per status for the dashboard
func (s *ReportService) RequestLedger(ctx context.Context) (map[string]int, error) {
	requests, err := s.RequestRepo.List(ctx, "", "")
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range requests {
		counts[r.Status]++
	}
	return counts, nil
}
