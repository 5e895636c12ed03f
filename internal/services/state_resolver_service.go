package services

import (
	"context"
	"errors"
	"fmt"

	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

// StateResolverService loads a container's records and runs the resolver
// over them. Read-only: corrections live in ReconcileService.
type StateResolverService struct {
	RequestRepo *repositories.ServiceRequestRepository
	YardRepo    *repositories.YardRepository
	RepairRepo  *repositories.RepairTicketRepository
}

func NewStateResolverService(
	requestRepo *repositories.ServiceRequestRepository,
	yardRepo *repositories.YardRepository,
	repairRepo *repositories.RepairTicketRepository,
) *StateResolverService {
	return &StateResolverService{
		RequestRepo: requestRepo,
		YardRepo:    yardRepo,
		RepairRepo:  repairRepo,
	}
}

// Resolve computes the canonical state of one container. An integrity
// violation on the occupancy read comes back as *models.IntegrityError;
// everything else the resolver finds is data, not an error.
func (s *StateResolverService) Resolve(ctx context.Context, containerNo string) (*models.Resolution, error) {
	requests, err := s.RequestRepo.ListByContainer(ctx, containerNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load requests for %s: %w", containerNo, err)
	}

	active, err := s.YardRepo.GetActivePlacement(ctx, containerNo)
	if err != nil {
		var integrity *models.IntegrityError
		if errors.As(err, &integrity) {
			return nil, integrity
		}
		return nil, fmt.Errorf("failed to load occupancy for %s: %w", containerNo, err)
	}

	if len(requests) == 0 && active == nil {
		return nil, fmt.Errorf("no records found for container %s", containerNo)
	}

	res := ResolveState(containerNo, requests, active != nil)

	// Slot-cache drift is detected alongside the request/yard rules so a
	// single resolve call gives the operator the complete picture.
	if active != nil {
		slot, err := s.YardRepo.GetSlot(ctx, active.SlotID)
		if err != nil {
			return nil, fmt.Errorf("failed to load slot %d: %w", active.SlotID, err)
		}
		if drift := CheckSlotCache(slot, active); drift != nil {
			res.Inconsistencies = append(res.Inconsistencies, *drift)
		}
	}

	return &res, nil
}
