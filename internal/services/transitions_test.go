package services

import (
	"testing"

	"depot-backend/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		reqType string
		from    string
		to      string
		valid   bool
	}{
		{models.RequestTypeImport, models.StatusPending, models.StatusGateIn, true},
		{models.RequestTypeImport, models.StatusGateIn, models.StatusChecking, true},
		{models.RequestTypeImport, models.StatusChecking, models.StatusChecked, true},
		{models.RequestTypeImport, models.StatusChecking, models.StatusPendingAccept, true},
		{models.RequestTypeImport, models.StatusChecking, models.StatusGateRejected, true},
		{models.RequestTypeImport, models.StatusPendingAccept, models.StatusChecked, true},
		{models.RequestTypeImport, models.StatusPendingAccept, models.StatusRejected, true},
		{models.RequestTypeImport, models.StatusChecked, models.StatusForklifting, true},
		{models.RequestTypeImport, models.StatusForklifting, models.StatusInYard, true},
		{models.RequestTypeImport, models.StatusInYard, models.StatusCompleted, true},

		// GATE_OUT is not a legal step anywhere in the inbound flow.
		{models.RequestTypeImport, models.StatusInYard, models.StatusGateOut, false},
		{models.RequestTypeImport, models.StatusChecked, models.StatusGateOut, false},
		{models.RequestTypeImport, models.StatusGateOut, models.StatusCompleted, false},

		{models.RequestTypeImport, models.StatusPending, models.StatusChecking, false},
		{models.RequestTypeImport, models.StatusGateIn, models.StatusInYard, false},

		{models.RequestTypeExport, models.StatusPending, models.StatusGateIn, true},
		{models.RequestTypeExport, models.StatusGateIn, models.StatusForklifting, true},
		{models.RequestTypeExport, models.StatusForklifting, models.StatusInCar, true},
		{models.RequestTypeExport, models.StatusInCar, models.StatusDoneLifting, true},
		{models.RequestTypeExport, models.StatusDoneLifting, models.StatusGateOut, true},
		{models.RequestTypeExport, models.StatusGateOut, models.StatusCompleted, true},

		{models.RequestTypeExport, models.StatusGateIn, models.StatusChecking, false},
		{models.RequestTypeExport, models.StatusGateIn, models.StatusGateOut, false},

		// Terminal rows never move again, whatever the target.
		{models.RequestTypeImport, models.StatusCompleted, models.StatusInYard, false},
		{models.RequestTypeImport, models.StatusRejected, models.StatusPending, false},
		{models.RequestTypeImport, models.StatusGateRejected, models.StatusGateIn, false},
		{models.RequestTypeExport, models.StatusCompleted, models.StatusGateOut, false},

		{"UNKNOWN", models.StatusPending, models.StatusGateIn, false},
	}

	for _, tt := range cases {
		if got := CanTransition(tt.reqType, tt.from, tt.to); got != tt.valid {
			t.Fatalf("CanTransition(%q, %q, %q)=%v, want %v", tt.reqType, tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestNextStatuses(t *testing.T) {
	next := NextStatuses(models.RequestTypeImport, models.StatusChecking)
	if len(next) != 3 {
		t.Fatalf("expected 3 next statuses from CHECKING, got %v", next)
	}

	if next := NextStatuses(models.RequestTypeImport, models.StatusCompleted); next != nil {
		t.Fatalf("terminal status must have no next statuses, got %v", next)
	}

	if next := NextStatuses(models.RequestTypeExport, models.StatusDoneLifting); len(next) != 1 || next[0] != models.StatusGateOut {
		t.Fatalf("expected [GATE_OUT] from DONE_LIFTING, got %v", next)
	}
}
