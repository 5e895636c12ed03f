package services

import (
	"testing"

	"depot-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSumBreakdown(t *testing.T) {
	bd := &models.CostBreakdown{
		BaseAmount:     850000,
		RepairAmount:   1100000,
		ForkliftAmount: 350000,
		SealAmount:     50000,
	}

	assert.Equal(t, float64(2350000), SumBreakdown(bd))
}

func TestSumBreakdownBaseOnly(t *testing.T) {
	bd := &models.CostBreakdown{BaseAmount: 750000}

	assert.Equal(t, float64(750000), SumBreakdown(bd))
}

func TestRepairContributionExcludesLaborCost(t *testing.T) {
	// A completed ticket quoted at 1,100,000 with 100,000 internal labor
	// contributes exactly its estimated cost.
	ticket := &models.RepairTicket{
		EstimatedCost: 1100000,
		LaborCost:     100000,
		Status:        models.RepairCompleted,
	}

	assert.Equal(t, float64(1100000), RepairContribution(ticket))
}

func TestRepairContributionNoTicket(t *testing.T) {
	assert.Equal(t, float64(0), RepairContribution(nil))
}

func TestDisplayedAmountHidesUnpaidTotal(t *testing.T) {
	invoice := &models.Invoice{TotalAmount: 2350000, IsPaid: false}

	assert.Equal(t, float64(850000), DisplayedAmount(invoice, 850000))
}

func TestDisplayedAmountShowsPaidTotal(t *testing.T) {
	invoice := &models.Invoice{TotalAmount: 2350000, IsPaid: true}

	assert.Equal(t, float64(2350000), DisplayedAmount(invoice, 850000))
}

func TestDisplayedAmountNoInvoice(t *testing.T) {
	assert.Equal(t, float64(850000), DisplayedAmount(nil, 850000))
}
