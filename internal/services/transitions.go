package services

import "depot-backend/internal/models"

// Legal forward transitions per request type. IMPORT ends in the yard;
// EXPORT ends with the container on a truck past the gate. GATE_OUT is not
// reachable for IMPORT requests: the historical rows that carry it are
// exactly what the state resolver corrects back to IN_YARD.
var transitions = map[string]map[string][]string{
	models.RequestTypeImport: {
		models.StatusPending:       {models.StatusGateIn, models.StatusRejected},
		models.StatusGateIn:        {models.StatusChecking, models.StatusGateRejected},
		models.StatusChecking:      {models.StatusChecked, models.StatusPendingAccept, models.StatusGateRejected},
		models.StatusPendingAccept: {models.StatusChecked, models.StatusRejected},
		models.StatusChecked:       {models.StatusForklifting},
		models.StatusForklifting:   {models.StatusInYard},
		models.StatusInYard:        {models.StatusCompleted},
	},
	models.RequestTypeExport: {
		models.StatusPending:     {models.StatusGateIn, models.StatusRejected},
		models.StatusGateIn:      {models.StatusForklifting, models.StatusGateRejected},
		models.StatusForklifting: {models.StatusInCar},
		models.StatusInCar:       {models.StatusDoneLifting},
		models.StatusDoneLifting: {models.StatusGateOut},
		models.StatusGateOut:     {models.StatusCompleted},
	},
}

// CanTransition reports whether a request of the given type may move from
// one status to another. Terminal statuses have no outgoing edges.
func CanTransition(reqType, from, to string) bool {
	if models.IsTerminalStatus(from) {
		return false
	}
	for _, next := range transitions[reqType][from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses a request may legally move to.
func NextStatuses(reqType, from string) []string {
	return transitions[reqType][from]
}
