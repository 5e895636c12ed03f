package services

import (
	"fmt"

	"depot-backend/internal/models"
)

// ResolveState derives a container's single canonical status from its
// service requests (newest first, terminal rows included) and its current
// yard occupancy. Pure: it reads nothing and writes nothing, so racing
// callers can resolve the same container freely; only corrections need the
// per-container lock.
//
// The rules are ordered and the first match wins:
//
//  1. never requested but sitting in the yard      -> EMPTY_IN_YARD
//  2. IMPORT + GATE_OUT + occupied                 -> IN_YARD, auto-correctable
//  3. EXPORT + GATE_OUT + occupied                 -> flagged, manual review
//  4. EXPORT + GATE_OUT + gone                     -> consistent GATE_OUT
//  5. otherwise                                    -> the active request's status
func ResolveState(containerNo string, requests []models.ServiceRequest, occupied bool) models.Resolution {
	res := models.Resolution{ContainerNo: containerNo}

	var active *models.ServiceRequest
	for i := range requests {
		if !models.IsTerminalStatus(requests[i].Status) {
			active = &requests[i]
			break
		}
	}

	if active == nil {
		if len(requests) == 0 && occupied {
			// Administrator-placed container with no gate workflow at all.
			res.CanonicalStatus = models.CanonicalEmptyInYard
			return res
		}
		if len(requests) == 0 {
			res.CanonicalStatus = ""
			return res
		}
		// Only closed requests remain. A slot still held by a closed
		// request is worth an operator's eyes, but the closed row itself
		// is untouchable.
		res.CanonicalStatus = requests[0].Status
		if occupied {
			res.Inconsistencies = append(res.Inconsistencies, models.Inconsistency{
				Rule: models.RuleClosedStillOccupied,
				Detail: fmt.Sprintf("latest request %s is %s but container %s still occupies a yard slot",
					requests[0].RequestNo, requests[0].Status, containerNo),
			})
		}
		return res
	}

	switch {
	case active.Type == models.RequestTypeImport && active.Status == models.StatusGateOut && occupied:
		// The container physically arrived; GATE_OUT on an inbound move
		// contradicts yard occupancy and is safe to fix forward.
		res.CanonicalStatus = models.StatusInYard
		res.AutoCorrectable = true
		res.Inconsistencies = append(res.Inconsistencies, models.Inconsistency{
			Rule: models.RuleImportGateOutOccupied,
			Detail: fmt.Sprintf("IMPORT request %s is GATE_OUT while container %s occupies a yard slot",
				active.RequestNo, containerNo),
		})

	case active.Type == models.RequestTypeExport && active.Status == models.StatusGateOut && occupied:
		// Ambiguous: the lift may not have fully cleared the yard.
		// Reported for manual decision, never fixed automatically.
		res.CanonicalStatus = models.StatusGateOut
		res.Inconsistencies = append(res.Inconsistencies, models.Inconsistency{
			Rule: models.RuleExportGateOutOccupied,
			Detail: fmt.Sprintf("EXPORT request %s is GATE_OUT but container %s still occupies a yard slot; manual review required",
				active.RequestNo, containerNo),
		})

	default:
		res.CanonicalStatus = active.Status
	}

	return res
}

// CheckSlotCache compares the yard_slots cache row against
// placement-derived occupancy and reports drift. The cache is rebuildable,
// so drift is always auto-correctable.
func CheckSlotCache(slot *models.YardSlot, active *models.YardPlacement) *models.Inconsistency {
	if slot == nil {
		return nil
	}
	switch {
	case active == nil && slot.Status == models.SlotOccupied:
		return &models.Inconsistency{
			Rule:   models.RuleSlotCacheDrift,
			Detail: fmt.Sprintf("slot %s cached as OCCUPIED but has no active placement", slot.Code),
		}
	case active != nil && slot.Status != models.SlotOccupied:
		return &models.Inconsistency{
			Rule:   models.RuleSlotCacheDrift,
			Detail: fmt.Sprintf("slot %s cached as %s but placement %d is active", slot.Code, slot.Status, active.ID),
		}
	case active != nil && slot.OccupantContainerNo != nil && *slot.OccupantContainerNo != active.ContainerNo:
		return &models.Inconsistency{
			Rule:   models.RuleSlotCacheDrift,
			Detail: fmt.Sprintf("slot %s cached occupant %s disagrees with placement container %s", slot.Code, *slot.OccupantContainerNo, active.ContainerNo),
		}
	}
	return nil
}
