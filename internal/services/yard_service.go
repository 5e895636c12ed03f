package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"depot-backend/internal/cache"
	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

// YardService manages physical slot occupancy. Placements are the source
// of truth; the slot cache is rebuilt inside the same transaction as every
// placement write.
type YardService struct {
	YardRepo *repositories.YardRepository
}

func NewYardService(yardRepo *repositories.YardRepository) *YardService {
	return &YardService{YardRepo: yardRepo}
}

// CreateSlot registers a new physical slot
func (s *YardService) CreateSlot(ctx context.Context, req *models.CreateYardSlotRequest) (*models.YardSlot, error) {
	if req.Code == "" {
		return nil, errors.New("slot code is required")
	}
	if req.MaxTier < 1 {
		return nil, errors.New("max tier must be at least 1")
	}
	slot := &models.YardSlot{
		Code:    strings.ToUpper(req.Code),
		Block:   strings.ToUpper(req.Block),
		MaxTier: req.MaxTier,
		Status:  models.SlotEmpty,
	}
	if err := s.YardRepo.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// Place puts a container into a slot tier. The occupancy guard inside the
// repository transaction rejects a second OCCUPIED placement for the same
// (slot, tier), which is what keeps the duplicate-occupancy invariant from
// ever being written in the first place.
func (s *YardService) Place(ctx context.Context, req *models.PlaceContainerRequest, actorID int) (*models.YardPlacement, error) {
	containerNo := strings.ToUpper(strings.TrimSpace(req.ContainerNo))
	if containerNo == "" {
		return nil, errors.New("container number is required")
	}

	slot, err := s.YardRepo.GetSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}
	if req.Tier < 1 || req.Tier > slot.MaxTier {
		return nil, fmt.Errorf("tier %d out of range for slot %s (max %d)", req.Tier, slot.Code, slot.MaxTier)
	}

	existing, err := s.YardRepo.GetActivePlacement(ctx, containerNo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("container %s is already placed in slot %d tier %d", containerNo, existing.SlotID, existing.Tier)
	}

	p := &models.YardPlacement{
		SlotID:           req.SlotID,
		Tier:             req.Tier,
		ContainerNo:      containerNo,
		Status:           models.SlotOccupied,
		ServiceRequestID: req.ServiceRequestID,
		PlacedByUserID:   actorID,
	}
	if err := s.YardRepo.Place(ctx, p); err != nil {
		return nil, err
	}

	cache.InvalidateYardCaches(ctx)
	log.Printf("[Yard] placed %s at slot %d tier %d", containerNo, p.SlotID, p.Tier)
	return p, nil
}

// Remove closes a container's active placement and rebuilds its slot cache
func (s *YardService) Remove(ctx context.Context, containerNo string) (*models.YardPlacement, error) {
	containerNo = strings.ToUpper(strings.TrimSpace(containerNo))
	p, err := s.YardRepo.Remove(ctx, containerNo)
	if err != nil {
		return nil, err
	}

	cache.InvalidateYardCaches(ctx)
	log.Printf("[Yard] removed %s from slot %d tier %d", containerNo, p.SlotID, p.Tier)
	return p, nil
}

// Map returns every slot with its active placements, served from the
// short-lived Redis cache when available.
func (s *YardService) Map(ctx context.Context) ([]models.SlotOccupancy, error) {
	if raw, ok := cache.GetCachedYardMap(ctx); ok {
		var occupancy []models.SlotOccupancy
		if err := json.Unmarshal(raw, &occupancy); err == nil {
			return occupancy, nil
		}
	}
	occupancy, err := s.YardRepo.OccupancyMap(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(occupancy); err == nil {
		cache.CacheYardMap(ctx, raw)
	}
	return occupancy, nil
}

// ListSlots returns the slot cache rows
func (s *YardService) ListSlots(ctx context.Context) ([]models.YardSlot, error) {
	return s.YardRepo.ListSlots(ctx)
}

// RebuildSlot forces a cache rebuild for one slot, for operators chasing drift
func (s *YardService) RebuildSlot(ctx context.Context, slotID int) error {
	if err := s.YardRepo.RebuildSlotCache(ctx, slotID); err != nil {
		return err
	}
	cache.InvalidateYardCaches(ctx)
	return nil
}
