package models

import "time"

// Repair ticket statuses mirror the request check pipeline: a ticket opens
// while the container is CHECKING and the estimate waits in PENDING_ACCEPT
// until the customer approves it.
const (
	RepairChecking      = "CHECKING"
	RepairPendingAccept = "PENDING_ACCEPT"
	RepairChecked       = "CHECKED"
	RepairCompleted     = "COMPLETED"
	RepairCancelled     = "CANCELLED"
)

type RepairTicket struct {
	ID               int        `json:"id"`
	ContainerNo      string     `json:"container_no"`
	ServiceRequestID int        `json:"service_request_id"`
	Status           string     `json:"status"`
	Description      string     `json:"description"`
	EstimatedCost    float64    `json:"estimated_cost"`
	LaborCost        float64    `json:"labor_cost"`
	CreatedByUserID  int        `json:"created_by_user_id"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type CreateRepairTicketRequest struct {
	ContainerNo      string  `json:"container_no"`
	ServiceRequestID int     `json:"service_request_id"`
	Description      string  `json:"description"`
	EstimatedCost    float64 `json:"estimated_cost"`
	LaborCost        float64 `json:"labor_cost"`
}

type EstimateRepairRequest struct {
	EstimatedCost float64 `json:"estimated_cost"`
	LaborCost     float64 `json:"labor_cost"`
}
