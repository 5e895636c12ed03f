package services

import (
	"errors"
	"testing"

	"depot-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyResolution(t *testing.T) {
	tests := []struct {
		name string
		res  *models.Resolution
		want batchOutcome
	}{
		{
			name: "auto-correctable finding is fixed",
			res: &models.Resolution{
				Inconsistencies: []models.Inconsistency{{Rule: models.RuleImportGateOutOccupied}},
				AutoCorrectable: true,
			},
			want: outcomeFix,
		},
		{
			name: "export mismatch is flagged, never fixed",
			res: &models.Resolution{
				Inconsistencies: []models.Inconsistency{{Rule: models.RuleExportGateOutOccupied}},
			},
			want: outcomeFlag,
		},
		{
			name: "closed but still occupied is flagged",
			res: &models.Resolution{
				Inconsistencies: []models.Inconsistency{{Rule: models.RuleClosedStillOccupied}},
			},
			want: outcomeFlag,
		},
		{
			name: "consistent container is skipped",
			res:  &models.Resolution{},
			want: outcomeSkip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyResolution(tt.res))
		})
	}
}

func TestBatchReportAccounting(t *testing.T) {
	report := &models.ReconcileReport{}

	recordFix(report, &models.CorrectionResult{
		ContainerNo: "MSKU1234567",
		NewStatus:   models.StatusInYard,
		Rule:        models.RuleImportGateOutOccupied,
	})
	recordFlag(report, &models.Resolution{
		ContainerNo:     "TGHU7654321",
		Inconsistencies: []models.Inconsistency{{Rule: models.RuleExportGateOutOccupied}},
	})
	recordSkip(report)
	recordSkip(report)
	recordError(report, "OOLU0000001", errors.New("resolve failed"))

	assert.Equal(t, 1, report.Fixed)
	assert.Equal(t, 1, report.Flagged)
	assert.Equal(t, 2, report.Skipped)
	assert.Len(t, report.Fixes, 1)
	assert.Len(t, report.Flags, 1)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, "MSKU1234567", report.Fixes[0].ContainerNo)
	assert.Equal(t, "OOLU0000001", report.Errors[0].ContainerNo)
	assert.Equal(t, "resolve failed", report.Errors[0].Error)
}
