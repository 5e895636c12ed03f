package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

// ForkliftService dispatches LOLO tasks. A task's cost is only billable
// once the task is COMPLETED; the cost aggregator sums completed tasks per
// request.
type ForkliftService struct {
	TaskRepo    *repositories.ForkliftTaskRepository
	RequestRepo *repositories.ServiceRequestRepository
	PriceRepo   *repositories.PriceListRepository
}

func NewForkliftService(
	taskRepo *repositories.ForkliftTaskRepository,
	requestRepo *repositories.ServiceRequestRepository,
	priceRepo *repositories.PriceListRepository,
) *ForkliftService {
	return &ForkliftService{TaskRepo: taskRepo, RequestRepo: requestRepo, PriceRepo: priceRepo}
}

// Create opens a PENDING task against an open service request. The task
// type must match the request direction: imports lift off, exports lift on.
func (s *ForkliftService) Create(ctx context.Context, req *models.CreateForkliftTaskRequest) (*models.ForkliftTask, error) {
	if req.TaskType != models.TaskLiftOn && req.TaskType != models.TaskLiftOff {
		return nil, errors.New("task type must be LIFT_ON or LIFT_OFF")
	}

	sr, err := s.RequestRepo.Get(ctx, req.ServiceRequestID)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalStatus(sr.Status) {
		return nil, fmt.Errorf("request %s is closed, no new forklift work", sr.RequestNo)
	}
	if sr.Type == models.RequestTypeImport && req.TaskType != models.TaskLiftOff {
		return nil, errors.New("import requests take LIFT_OFF tasks")
	}
	if sr.Type == models.RequestTypeExport && req.TaskType != models.TaskLiftOn {
		return nil, errors.New("export requests take LIFT_ON tasks")
	}

	t := &models.ForkliftTask{
		ContainerNo:      strings.ToUpper(strings.TrimSpace(req.ContainerNo)),
		ServiceRequestID: req.ServiceRequestID,
		TaskType:         req.TaskType,
		Status:           models.TaskPending,
	}
	if err := s.TaskRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Assign puts a driver on a pending task
func (s *ForkliftService) Assign(ctx context.Context, id int, driverName string) error {
	if strings.TrimSpace(driverName) == "" {
		return errors.New("driver name is required")
	}
	return s.TaskRepo.Assign(ctx, id, driverName)
}

// Complete closes a task with its billable cost. A zero cost falls back to
// the LOLO tariff line for the owning request's type.
func (s *ForkliftService) Complete(ctx context.Context, id int, cost float64) error {
	if cost < 0 {
		return errors.New("cost cannot be negative")
	}
	if cost == 0 {
		t, err := s.TaskRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		sr, err := s.RequestRepo.Get(ctx, t.ServiceRequestID)
		if err != nil {
			return err
		}
		tariff, ok, err := s.PriceRepo.GetAmount(ctx, sr.Type, models.ItemCodeLOLO)
		if err != nil {
			return err
		}
		if ok {
			cost = tariff
		}
	}
	return s.TaskRepo.Complete(ctx, id, cost)
}

// Cancel voids a task; cancelled tasks never bill
func (s *ForkliftService) Cancel(ctx context.Context, id int) error {
	return s.TaskRepo.Cancel(ctx, id)
}

// List returns tasks with an optional status filter
func (s *ForkliftService) List(ctx context.Context, status string) ([]models.ForkliftTask, error) {
	return s.TaskRepo.List(ctx, status)
}

// Get returns one task
func (s *ForkliftService) Get(ctx context.Context, id int) (*models.ForkliftTask, error) {
	return s.TaskRepo.Get(ctx, id)
}
