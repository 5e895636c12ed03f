package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

// SealService manages seal inventory and issuance. Issuing decrements the
// batch and writes the usage row atomically; the booking reference is
// attached at issue time when the container's request already carries one,
// otherwise the synchronizer back-fills it later.
type SealService struct {
	SealRepo    *repositories.SealRepository
	RequestRepo *repositories.ServiceRequestRepository
}

func NewSealService(sealRepo *repositories.SealRepository, requestRepo *repositories.ServiceRequestRepository) *SealService {
	return &SealService{SealRepo: sealRepo, RequestRepo: requestRepo}
}

// CreateBatch registers a purchased batch
func (s *SealService) CreateBatch(ctx context.Context, req *models.CreateSealRequest) (*models.Seal, error) {
	if req.QuantityPurchased < 1 {
		return nil, errors.New("quantity purchased must be positive")
	}
	if req.UnitPrice < 0 {
		return nil, errors.New("unit price cannot be negative")
	}
	seal := &models.Seal{
		SealPrefix:        strings.ToUpper(strings.TrimSpace(req.SealPrefix)),
		UnitPrice:         req.UnitPrice,
		QuantityPurchased: req.QuantityPurchased,
	}
	if err := s.SealRepo.CreateSeal(ctx, seal); err != nil {
		return nil, err
	}
	seal.QuantityRemaining = seal.QuantityPurchased
	return seal, nil
}

// Issue consumes one seal from a batch for a container
func (s *SealService) Issue(ctx context.Context, req *models.IssueSealRequest, actorID int) (*models.SealUsage, error) {
	containerNo := strings.ToUpper(strings.TrimSpace(req.ContainerNo))
	if containerNo == "" {
		return nil, errors.New("container number is required")
	}
	if strings.TrimSpace(req.SealNumber) == "" {
		return nil, errors.New("seal number is required")
	}

	usage := &models.SealUsage{
		SealID:      req.SealID,
		SealNumber:  strings.ToUpper(strings.TrimSpace(req.SealNumber)),
		ContainerNo: containerNo,
		IssuedByID:  actorID,
	}

	requests, err := s.RequestRepo.ListByContainer(ctx, containerNo)
	if err != nil {
		return nil, err
	}
	for _, sr := range requests {
		if !models.IsTerminalStatus(sr.Status) && sr.BookingReference != nil && *sr.BookingReference != "" {
			usage.BookingNumber = sr.BookingReference
			break
		}
	}

	if err := s.SealRepo.IssueSeal(ctx, usage); err != nil {
		return nil, fmt.Errorf("failed to issue seal: %w", err)
	}
	return usage, nil
}

// ListBatches returns every batch with its derived remaining quantity
func (s *SealService) ListBatches(ctx context.Context) ([]models.Seal, error) {
	return s.SealRepo.ListSeals(ctx)
}

// UsageHistory returns a container's issued seals, newest first
func (s *SealService) UsageHistory(ctx context.Context, containerNo string) ([]models.SealUsage, error) {
	return s.SealRepo.ListUsageByContainer(ctx, strings.ToUpper(strings.TrimSpace(containerNo)))
}
