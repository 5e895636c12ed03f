package models

import "time"

// Request direction relative to the depot: IMPORT brings a container in
// for storage, EXPORT lifts one out.
const (
	RequestTypeImport = "IMPORT"
	RequestTypeExport = "EXPORT"
)

// Service request lifecycle statuses. A request moves forward through the
// gate/check/forklift pipeline; COMPLETED, REJECTED and GATE_REJECTED are
// terminal and must never be touched by later reconciliation passes.
const (
	StatusPending       = "PENDING"
	StatusPendingAccept = "PENDING_ACCEPT"
	StatusGateIn        = "GATE_IN"
	StatusChecking      = "CHECKING"
	StatusChecked       = "CHECKED"
	StatusForklifting   = "FORKLIFTING"
	StatusInYard        = "IN_YARD"
	StatusInCar         = "IN_CAR"
	StatusDoneLifting   = "DONE_LIFTING"
	StatusGateOut       = "GATE_OUT"
	StatusCompleted     = "COMPLETED"
	StatusRejected      = "REJECTED"
	StatusGateRejected  = "GATE_REJECTED"
)

// IsTerminalStatus reports whether a request in this status is closed.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusRejected, StatusGateRejected:
		return true
	}
	return false
}

type ServiceRequest struct {
	ID               int            `json:"id"`
	RequestNo        string         `json:"request_no"`
	ContainerNo      string         `json:"container_no"`
	Type             string         `json:"type"` // IMPORT or EXPORT
	Status           string         `json:"status"`
	BookingReference *string        `json:"booking_reference,omitempty"`
	CustomerName     string         `json:"customer_name"`
	LicensePlate     string         `json:"license_plate"`
	IsPaid           bool           `json:"is_paid"`
	History          []HistoryEntry `json:"history"`
	CreatedByUserID  int            `json:"created_by_user_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// HistoryEntry is one append-only audit record on a service request.
// Entries live in the request's history JSONB column and are never rewritten.
type HistoryEntry struct {
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
	ActorID        int       `json:"actor_id"`
}

type CreateServiceRequestRequest struct {
	ContainerNo      string  `json:"container_no"`
	Type             string  `json:"type"`
	BookingReference *string `json:"booking_reference,omitempty"`
	CustomerName     string  `json:"customer_name"`
	LicensePlate     string  `json:"license_plate"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type RejectRequestRequest struct {
	AtGate bool   `json:"at_gate"` // true -> GATE_REJECTED, false -> REJECTED
	Reason string `json:"reason"`
}
