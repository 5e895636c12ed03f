package services

import (
	"context"

	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

// CostService aggregates the billable charges of a service request from the
// price list and the request's repair, forklift and seal history.
type CostService struct {
	PriceRepo    *repositories.PriceListRepository
	RepairRepo   *repositories.RepairTicketRepository
	ForkliftRepo *repositories.ForkliftTaskRepository
	SealRepo     *repositories.SealRepository
	InvoiceRepo  *repositories.InvoiceRepository
	RequestRepo  *repositories.ServiceRequestRepository
}

func NewCostService(
	priceRepo *repositories.PriceListRepository,
	repairRepo *repositories.RepairTicketRepository,
	forkliftRepo *repositories.ForkliftTaskRepository,
	sealRepo *repositories.SealRepository,
	invoiceRepo *repositories.InvoiceRepository,
	requestRepo *repositories.ServiceRequestRepository,
) *CostService {
	return &CostService{
		PriceRepo:    priceRepo,
		RepairRepo:   repairRepo,
		ForkliftRepo: forkliftRepo,
		SealRepo:     sealRepo,
		InvoiceRepo:  invoiceRepo,
		RequestRepo:  requestRepo,
	}
}

// ComputeCost builds the full charge breakdown for one request. Repair work
// is billed at the completed tickets' estimated cost; labor cost is an
// internal figure and never reaches the customer's total.
func (s *CostService) ComputeCost(ctx context.Context, requestID int) (*models.CostBreakdown, error) {
	req, err := s.RequestRepo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	base, _, err := s.PriceRepo.GetAmount(ctx, req.Type, models.ItemCodeBase)
	if err != nil {
		return nil, err
	}

	repair, err := s.RepairRepo.GetCompletedByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	forklift, err := s.ForkliftRepo.SumCompletedCostByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	seal, err := s.SealRepo.SumUsageCostByContainer(ctx, req.ContainerNo)
	if err != nil {
		return nil, err
	}

	bd := &models.CostBreakdown{
		ContainerNo:    req.ContainerNo,
		RequestType:    req.Type,
		BaseAmount:     base,
		ForkliftAmount: forklift,
		SealAmount:     seal,
		RepairAmount:   RepairContribution(repair),
	}
	bd.Total = SumBreakdown(bd)
	return bd, nil
}

// RepairContribution is what a repair ticket adds to the customer total.
// Only the quoted estimate is billable; labor cost is an internal figure
// and never reaches the breakdown.
func RepairContribution(repair *models.RepairTicket) float64 {
	if repair == nil {
		return 0
	}
	return repair.EstimatedCost
}

// SumBreakdown totals a breakdown's component amounts
func SumBreakdown(bd *models.CostBreakdown) float64 {
	return bd.BaseAmount + bd.RepairAmount + bd.ForkliftAmount + bd.SealAmount
}

// DisplayedAmount picks the figure list views show: the invoice total once
// paid, otherwise the price-list base for the request type. Until payment
// the real total stays hidden, so a customer never sees a figure that is
// still under negotiation.
func DisplayedAmount(invoice *models.Invoice, base float64) float64 {
	if invoice != nil && invoice.IsPaid {
		return invoice.TotalAmount
	}
	return base
}

// DisplayAmount resolves a request's list-view amount per DisplayedAmount.
func (s *CostService) DisplayAmount(ctx context.Context, req *models.ServiceRequest) (float64, error) {
	invoice, err := s.InvoiceRepo.GetByRequest(ctx, req.ID)
	if err != nil {
		return 0, err
	}
	base, _, err := s.PriceRepo.GetAmount(ctx, req.Type, models.ItemCodeBase)
	if err != nil {
		return 0, err
	}
	return DisplayedAmount(invoice, base), nil
}
