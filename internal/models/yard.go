package models

import "time"

// Yard slot / placement statuses.
const (
	SlotEmpty    = "EMPTY"
	SlotOccupied = "OCCUPIED"
	SlotHold     = "HOLD"
)

// YardSlot is the denormalized occupancy cache for one physical slot.
// The single source of truth for occupancy is the yard_placements table;
// this row is a materialized view of it and can be rebuilt at any time.
type YardSlot struct {
	ID                  int       `json:"id"`
	Code                string    `json:"code"` // e.g. "A-03-2" (block-bay-row)
	Block               string    `json:"block"`
	MaxTier             int       `json:"max_tier"`
	Status              string    `json:"status"`
	OccupantContainerNo *string   `json:"occupant_container_no,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// YardPlacement is one physical slot-occupancy event. A placement with
// status OCCUPIED and removed_at NULL is active; at most one active
// OCCUPIED placement may exist per (slot_id, tier).
type YardPlacement struct {
	ID               int        `json:"id"`
	SlotID           int        `json:"slot_id"`
	Tier             int        `json:"tier"`
	ContainerNo      string     `json:"container_no"`
	Status           string     `json:"status"`
	ServiceRequestID *int       `json:"service_request_id,omitempty"`
	PlacedByUserID   int        `json:"placed_by_user_id"`
	PlacedAt         time.Time  `json:"placed_at"`
	RemovedAt        *time.Time `json:"removed_at,omitempty"`
}

type PlaceContainerRequest struct {
	SlotID           int    `json:"slot_id"`
	Tier             int    `json:"tier"`
	ContainerNo      string `json:"container_no"`
	ServiceRequestID *int   `json:"service_request_id,omitempty"`
}

type RemoveContainerRequest struct {
	ContainerNo string `json:"container_no"`
	Reason      string `json:"reason"`
}

type CreateYardSlotRequest struct {
	Code    string `json:"code"`
	Block   string `json:"block"`
	MaxTier int    `json:"max_tier"`
}

// SlotOccupancy pairs a slot with its active placements for the yard map.
type SlotOccupancy struct {
	Slot       YardSlot        `json:"slot"`
	Placements []YardPlacement `json:"placements"`
}
