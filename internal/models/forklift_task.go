package models

import "time"

// Forklift task types and statuses. LOLO = lift-on / lift-off handling.
const (
	TaskLiftOn  = "LIFT_ON"  // yard -> truck (export leg)
	TaskLiftOff = "LIFT_OFF" // truck -> yard (import leg)

	TaskPending    = "PENDING"
	TaskInProgress = "IN_PROGRESS"
	TaskCompleted  = "COMPLETED"
	TaskCancelled  = "CANCELLED"
)

type ForkliftTask struct {
	ID               int        `json:"id"`
	ContainerNo      string     `json:"container_no"`
	ServiceRequestID int        `json:"service_request_id"`
	TaskType         string     `json:"task_type"`
	Status           string     `json:"status"`
	Cost             float64    `json:"cost"`
	DriverName       *string    `json:"driver_name,omitempty"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type CreateForkliftTaskRequest struct {
	ContainerNo      string `json:"container_no"`
	ServiceRequestID int    `json:"service_request_id"`
	TaskType         string `json:"task_type"`
}

type AssignForkliftTaskRequest struct {
	DriverName string `json:"driver_name"`
}

type CompleteForkliftTaskRequest struct {
	Cost float64 `json:"cost"`
}
