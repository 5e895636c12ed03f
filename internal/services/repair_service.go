package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

// RepairService runs the damage-check pipeline. Estimated cost is the
// customer-facing figure; labor cost is recorded for internal accounting
// and never billed on top of the estimate.
type RepairService struct {
	RepairRepo  *repositories.RepairTicketRepository
	RequestRepo *repositories.ServiceRequestRepository
}

func NewRepairService(repairRepo *repositories.RepairTicketRepository, requestRepo *repositories.ServiceRequestRepository) *RepairService {
	return &RepairService{RepairRepo: repairRepo, RequestRepo: requestRepo}
}

// Create opens a ticket while the container is in its CHECKING stage
func (s *RepairService) Create(ctx context.Context, req *models.CreateRepairTicketRequest, actorID int) (*models.RepairTicket, error) {
	sr, err := s.RequestRepo.Get(ctx, req.ServiceRequestID)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalStatus(sr.Status) {
		return nil, fmt.Errorf("request %s is closed, no new repair work", sr.RequestNo)
	}

	t := &models.RepairTicket{
		ContainerNo:      strings.ToUpper(strings.TrimSpace(req.ContainerNo)),
		ServiceRequestID: req.ServiceRequestID,
		Status:           models.RepairChecking,
		Description:      req.Description,
		EstimatedCost:    req.EstimatedCost,
		LaborCost:        req.LaborCost,
		CreatedByUserID:  actorID,
	}
	if err := s.RepairRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Estimate records the quoted costs and parks the ticket in PENDING_ACCEPT
// until the customer approves.
func (s *RepairService) Estimate(ctx context.Context, id int, estimated, labor float64) error {
	if estimated < 0 || labor < 0 {
		return errors.New("costs cannot be negative")
	}
	t, err := s.RepairRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != models.RepairChecking {
		return fmt.Errorf("ticket %d is %s, estimates are made during CHECKING", id, t.Status)
	}
	return s.RepairRepo.UpdateEstimate(ctx, id, estimated, labor)
}

// Accept marks the estimate as approved by the customer
func (s *RepairService) Accept(ctx context.Context, id int) error {
	t, err := s.RepairRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != models.RepairPendingAccept {
		return fmt.Errorf("ticket %d is %s, only PENDING_ACCEPT tickets can be accepted", id, t.Status)
	}
	return s.RepairRepo.UpdateStatus(ctx, id, models.RepairChecked)
}

// Complete closes the ticket after the work is done, making its estimated
// cost billable.
func (s *RepairService) Complete(ctx context.Context, id int) error {
	t, err := s.RepairRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != models.RepairChecked {
		return fmt.Errorf("ticket %d is %s, only CHECKED tickets can complete", id, t.Status)
	}
	return s.RepairRepo.UpdateStatus(ctx, id, models.RepairCompleted)
}

// Cancel voids a ticket that has not completed
func (s *RepairService) Cancel(ctx context.Context, id int) error {
	t, err := s.RepairRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.Status == models.RepairCompleted {
		return errors.New("completed tickets cannot be cancelled")
	}
	return s.RepairRepo.UpdateStatus(ctx, id, models.RepairCancelled)
}

// List returns tickets with an optional status filter
func (s *RepairService) List(ctx context.Context, status string) ([]models.RepairTicket, error) {
	return s.RepairRepo.List(ctx, status)
}

// Get returns one ticket
func (s *RepairService) Get(ctx context.Context, id int) (*models.RepairTicket, error) {
	return s.RepairRepo.Get(ctx, id)
}
