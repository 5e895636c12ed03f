package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"depot-backend/internal/cache"
	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
	"depot-backend/internal/timeutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ServiceRequestService owns the gate workflow: creating requests and
// moving them through the lifecycle. Every status change is validated
// against the transition table and lands an audit entry on the request's
// history.
type ServiceRequestService struct {
	DB          *pgxpool.Pool
	RequestRepo *repositories.ServiceRequestRepository
	CostSvc     *CostService
}

func NewServiceRequestService(db *pgxpool.Pool, requestRepo *repositories.ServiceRequestRepository) *ServiceRequestService {
	return &ServiceRequestService{DB: db, RequestRepo: requestRepo}
}

// SetCostService wires the cost aggregator for list display amounts
func (s *ServiceRequestService) SetCostService(costSvc *CostService) {
	s.CostSvc = costSvc
}

// Create opens a new PENDING request. A container may only have one open
// request at a time; a second gate intent must wait for the first to close.
func (s *ServiceRequestService) Create(ctx context.Context, req *models.CreateServiceRequestRequest, actorID int) (*models.ServiceRequest, error) {
	containerNo := strings.ToUpper(strings.TrimSpace(req.ContainerNo))
	if containerNo == "" {
		return nil, errors.New("container number is required")
	}
	if req.Type != models.RequestTypeImport && req.Type != models.RequestTypeExport {
		return nil, errors.New("request type must be IMPORT or EXPORT")
	}

	existing, err := s.RequestRepo.ListByContainer(ctx, containerNo)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if !models.IsTerminalStatus(e.Status) {
			return nil, fmt.Errorf("container %s already has an open request (%s)", containerNo, e.RequestNo)
		}
	}

	requestNo, err := s.RequestRepo.GenerateRequestNo(ctx)
	if err != nil {
		return nil, err
	}

	sr := &models.ServiceRequest{
		RequestNo:        requestNo,
		ContainerNo:      containerNo,
		Type:             req.Type,
		Status:           models.StatusPending,
		BookingReference: req.BookingReference,
		CustomerName:     req.CustomerName,
		LicensePlate:     req.LicensePlate,
		CreatedByUserID:  actorID,
	}
	if err := s.RequestRepo.Create(ctx, sr); err != nil {
		return nil, err
	}
	log.Printf("[ServiceRequest] created %s for container %s (%s)", sr.RequestNo, containerNo, sr.Type)
	return sr, nil
}

// Advance moves a request one step forward through its pipeline. Illegal
// jumps and any write against a closed request are refused.
func (s *ServiceRequestService) Advance(ctx context.Context, id int, newStatus, reason string, actorID int) (*models.ServiceRequest, error) {
	req, err := s.RequestRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalStatus(req.Status) {
		return nil, fmt.Errorf("request %s is closed (%s) and cannot change", req.RequestNo, req.Status)
	}
	if !CanTransition(req.Type, req.Status, newStatus) {
		return nil, fmt.Errorf("illegal transition %s -> %s for %s request", req.Status, newStatus, req.Type)
	}

	entry := models.HistoryEntry{
		PreviousStatus: req.Status,
		NewStatus:      newStatus,
		Reason:         reason,
		Timestamp:      timeutil.Now(),
		ActorID:        actorID,
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.RequestRepo.UpdateStatusTx(ctx, tx, id, newStatus, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	cache.InvalidateResolution(ctx, req.ContainerNo)

	req.Status = newStatus
	req.History = append(req.History, entry)
	return req, nil
}

// Reject closes a request as REJECTED, or GATE_REJECTED when the refusal
// happens at the gate.
func (s *ServiceRequestService) Reject(ctx context.Context, id int, atGate bool, reason string, actorID int) (*models.ServiceRequest, error) {
	target := models.StatusRejected
	if atGate {
		target = models.StatusGateRejected
	}
	return s.Advance(ctx, id, target, reason, actorID)
}

// Get returns one request by ID
func (s *ServiceRequestService) Get(ctx context.Context, id int) (*models.ServiceRequest, error) {
	return s.RequestRepo.Get(ctx, id)
}

// List returns requests with optional status/type filters. Each row's
// display amount respects the unpaid-invoice gating rule.
func (s *ServiceRequestService) List(ctx context.Context, status, reqType string) ([]map[string]interface{}, error) {
	requests, err := s.RequestRepo.List(ctx, status, reqType)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(requests))
	for i := range requests {
		row := map[string]interface{}{"request": &requests[i]}
		if s.CostSvc != nil {
			amount, err := s.CostSvc.DisplayAmount(ctx, &requests[i])
			if err != nil {
				log.Printf("[ServiceRequest] display amount for %s: %v", requests[i].RequestNo, err)
			} else {
				row["display_amount"] = amount
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// History returns all requests ever filed for a container, newest first
func (s *ServiceRequestService) History(ctx context.Context, containerNo string) ([]models.ServiceRequest, error) {
	return s.RequestRepo.ListByContainer(ctx, strings.ToUpper(strings.TrimSpace(containerNo)))
}
