package models

import "fmt"

// CanonicalEmptyInYard is a resolver-only status for containers an
// administrator placed directly in the yard with no gate workflow behind
// them. It never appears on a service request row.
const CanonicalEmptyInYard = "EMPTY_IN_YARD"

// Inconsistency rule identifiers.
const (
	RuleImportGateOutOccupied = "IMPORT_GATE_OUT_OCCUPIED" // auto-correctable to IN_YARD
	RuleExportGateOutOccupied = "EXPORT_GATE_OUT_OCCUPIED" // flagged for manual review
	RuleClosedStillOccupied   = "CLOSED_STILL_OCCUPIED"    // terminal request but slot occupied
	RuleSlotCacheDrift        = "SLOT_CACHE_DRIFT"         // yard_slots disagrees with placements
)

// Inconsistency is one detected mismatch between a container's request,
// placement and slot-cache records. Detection never mutates anything;
// corrections are a separate operator action.
type Inconsistency struct {
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

// Resolution is the canonical view of one container's state.
type Resolution struct {
	ContainerNo     string          `json:"container_no"`
	CanonicalStatus string          `json:"canonical_status"`
	Inconsistencies []Inconsistency `json:"inconsistencies"`
	AutoCorrectable bool            `json:"auto_correctable"`
}

// Consistent reports whether no mismatch was detected.
func (r *Resolution) Consistent() bool {
	return len(r.Inconsistencies) == 0
}

// IntegrityError is a fatal data-integrity violation: two placements hold
// the same (slot, tier) at once. It aborts the affected container's
// transaction and is surfaced to an operator, never silently resolved.
type IntegrityError struct {
	ContainerNo string `json:"container_no"`
	SlotID      int    `json:"slot_id"`
	Tier        int    `json:"tier"`
	Count       int    `json:"count"`
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation: %d OCCUPIED placements for slot %d tier %d (container %s)",
		e.Count, e.SlotID, e.Tier, e.ContainerNo)
}

// CorrectionResult reports what a single applied correction changed.
type CorrectionResult struct {
	ContainerNo    string `json:"container_no"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Rule           string `json:"rule"`
}

// ReconcileReport is the operator-facing summary of a batch run.
type ReconcileReport struct {
	Scanned int                  `json:"scanned"`
	Fixed   int                  `json:"fixed"`
	Skipped int                  `json:"skipped"`
	Flagged int                  `json:"flagged"`
	Fixes   []CorrectionResult   `json:"fixes"`
	Flags   []Resolution         `json:"flags"`
	Errors  []ReconcileItemError `json:"errors"`
}

// ReconcileItemError records a single container's failure inside a batch.
// The batch itself always runs to completion.
type ReconcileItemError struct {
	ContainerNo string `json:"container_no"`
	Error       string `json:"error"`
}
