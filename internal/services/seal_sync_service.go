package services

import (
	"context"
	"errors"
	"log"

	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

// SealSyncService backfills booking references onto seal usage rows. Seals
// are issued at the gate before the booking is always known, so usage rows
// can lag behind the request that carries the booking number.
type SealSyncService struct {
	RequestRepo *repositories.ServiceRequestRepository
	SealRepo    *repositories.SealRepository
}

func NewSealSyncService(requestRepo *repositories.ServiceRequestRepository, sealRepo *repositories.SealRepository) *SealSyncService {
	return &SealSyncService{RequestRepo: requestRepo, SealRepo: sealRepo}
}

// Sync backfills one container. Only usage rows whose booking number is
// still NULL are touched, so running it twice updates zero rows the second
// time.
func (s *SealSyncService) Sync(ctx context.Context, containerNo string) (*models.SealSyncResult, error) {
	requests, err := s.RequestRepo.ListByContainer(ctx, containerNo)
	if err != nil {
		return nil, err
	}

	var bookingRef string
	for _, req := range requests {
		if req.BookingReference != nil && *req.BookingReference != "" {
			bookingRef = *req.BookingReference
			break
		}
	}
	if bookingRef == "" {
		return nil, errors.New("no service request with a booking reference for this container")
	}

	updated, err := s.SealRepo.BackfillBooking(ctx, containerNo, bookingRef)
	if err != nil {
		return nil, err
	}

	return &models.SealSyncResult{
		ContainerNo:      containerNo,
		BookingReference: bookingRef,
		UpdatedCount:     updated,
	}, nil
}

// SyncAll runs the backfill for every container that has both a booking
// reference and seal usage. Per-container failures are captured in the
// result list; the sweep never aborts.
func (s *SealSyncService) SyncAll(ctx context.Context) ([]models.SealSyncResult, error) {
	pairs, err := s.RequestRepo.ListContainersWithBooking(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.SealSyncResult, 0, len(pairs))
	for containerNo, bookingRef := range pairs {
		updated, err := s.SealRepo.BackfillBooking(ctx, containerNo, bookingRef)
		res := models.SealSyncResult{
			ContainerNo:      containerNo,
			BookingReference: bookingRef,
			UpdatedCount:     updated,
		}
		if err != nil {
			res.Error = err.Error()
			log.Printf("[SealSync] container %s: %v", containerNo, err)
		}
		results = append(results, res)
	}
	return results, nil
}
