package services

import (
	"testing"

	"depot-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func req(reqType, status string) models.ServiceRequest {
	return models.ServiceRequest{
		RequestNo:   "SR-2024-0001",
		ContainerNo: "TCLU1234567",
		Type:        reqType,
		Status:      status,
	}
}

func TestResolveStateEmptyInYard(t *testing.T) {
	res := ResolveState("TCLU1234567", nil, true)

	assert.Equal(t, models.CanonicalEmptyInYard, res.CanonicalStatus)
	assert.True(t, res.Consistent())
	assert.False(t, res.AutoCorrectable)
}

func TestResolveStateUnknownContainer(t *testing.T) {
	res := ResolveState("TCLU1234567", nil, false)

	assert.Empty(t, res.CanonicalStatus)
	assert.True(t, res.Consistent())
}

func TestResolveStateImportGateOutOccupied(t *testing.T) {
	requests := []models.ServiceRequest{req(models.RequestTypeImport, models.StatusGateOut)}

	res := ResolveState("TCLU1234567", requests, true)

	assert.Equal(t, models.StatusInYard, res.CanonicalStatus)
	assert.True(t, res.AutoCorrectable)
	require.Len(t, res.Inconsistencies, 1)
	assert.Equal(t, models.RuleImportGateOutOccupied, res.Inconsistencies[0].Rule)
}

func TestResolveStateExportGateOutOccupiedIsFlaggedOnly(t *testing.T) {
	requests := []models.ServiceRequest{req(models.RequestTypeExport, models.StatusGateOut)}

	res := ResolveState("TCLU1234567", requests, true)

	assert.Equal(t, models.StatusGateOut, res.CanonicalStatus)
	assert.False(t, res.AutoCorrectable, "export ambiguity must never auto-correct")
	require.Len(t, res.Inconsistencies, 1)
	assert.Equal(t, models.RuleExportGateOutOccupied, res.Inconsistencies[0].Rule)
}

func TestResolveStateExportGateOutGoneIsConsistent(t *testing.T) {
	requests := []models.ServiceRequest{req(models.RequestTypeExport, models.StatusGateOut)}

	res := ResolveState("TCLU1234567", requests, false)

	assert.Equal(t, models.StatusGateOut, res.CanonicalStatus)
	assert.True(t, res.Consistent())
}

func TestResolveStateActiveRequestWins(t *testing.T) {
	// Newest first: an active IN_YARD request on top of an old completed one.
	requests := []models.ServiceRequest{
		req(models.RequestTypeImport, models.StatusInYard),
		req(models.RequestTypeImport, models.StatusCompleted),
	}

	res := ResolveState("TCLU1234567", requests, true)

	assert.Equal(t, models.StatusInYard, res.CanonicalStatus)
	assert.True(t, res.Consistent())
}

func TestResolveStateClosedStillOccupied(t *testing.T) {
	requests := []models.ServiceRequest{req(models.RequestTypeExport, models.StatusCompleted)}

	res := ResolveState("TCLU1234567", requests, true)

	// The terminal row keeps its status; the mismatch is only flagged.
	assert.Equal(t, models.StatusCompleted, res.CanonicalStatus)
	assert.False(t, res.AutoCorrectable)
	require.Len(t, res.Inconsistencies, 1)
	assert.Equal(t, models.RuleClosedStillOccupied, res.Inconsistencies[0].Rule)
}

func TestResolveStateClosedAndGoneIsConsistent(t *testing.T) {
	requests := []models.ServiceRequest{req(models.RequestTypeImport, models.StatusCompleted)}

	res := ResolveState("TCLU1234567", requests, false)

	assert.Equal(t, models.StatusCompleted, res.CanonicalStatus)
	assert.True(t, res.Consistent())
}

func TestResolveStateSkipsTerminalRowsWhenPickingActive(t *testing.T) {
	requests := []models.ServiceRequest{
		req(models.RequestTypeImport, models.StatusGateRejected),
		req(models.RequestTypeImport, models.StatusGateOut),
	}

	res := ResolveState("TCLU1234567", requests, true)

	// The rejected row is newest but terminal; the older GATE_OUT row is
	// the active one and triggers the import correction rule.
	assert.Equal(t, models.StatusInYard, res.CanonicalStatus)
	assert.True(t, res.AutoCorrectable)
}

func TestCheckSlotCacheNoDrift(t *testing.T) {
	containerNo := "TCLU1234567"
	slot := &models.YardSlot{Code: "A-01", Status: models.SlotOccupied, OccupantContainerNo: &containerNo}
	active := &models.YardPlacement{ID: 7, ContainerNo: containerNo}

	assert.Nil(t, CheckSlotCache(slot, active))
	assert.Nil(t, CheckSlotCache(nil, active))
	assert.Nil(t, CheckSlotCache(&models.YardSlot{Code: "A-02", Status: models.SlotEmpty}, nil))
}

func TestCheckSlotCacheDrift(t *testing.T) {
	stale := "MSKU0000001"

	// Cached occupied, nothing actually there.
	inc := CheckSlotCache(&models.YardSlot{Code: "A-01", Status: models.SlotOccupied}, nil)
	require.NotNil(t, inc)
	assert.Equal(t, models.RuleSlotCacheDrift, inc.Rule)

	// Cached empty, placement active.
	inc = CheckSlotCache(
		&models.YardSlot{Code: "A-01", Status: models.SlotEmpty},
		&models.YardPlacement{ID: 3, ContainerNo: "TCLU1234567"},
	)
	require.NotNil(t, inc)
	assert.Equal(t, models.RuleSlotCacheDrift, inc.Rule)

	// Cached occupant disagrees with the placement.
	inc = CheckSlotCache(
		&models.YardSlot{Code: "A-01", Status: models.SlotOccupied, OccupantContainerNo: &stale},
		&models.YardPlacement{ID: 3, ContainerNo: "TCLU1234567"},
	)
	require.NotNil(t, inc)
	assert.Equal(t, models.RuleSlotCacheDrift, inc.Rule)
}
