package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapitalizeRD(t *testing.T) {
	tests := []struct {
		name            string
		expenses        []float64
		wantAdjustment  float64
		wantUnamortized float64
	}{
		{"flat spend has no adjustment", []float64{100, 100, 100, 100, 100}, 0, 250},
		{"minimal history", []float64{70, 120}, 50, 120},
		{"shrinking history", []float64{120, 70}, -50, 70},
		{"rising spend", []float64{130, 145, 160, 180}, 35, 335},
		{"five year history", []float64{310, 350, 390, 420, 470, 520}, 132, 1374},
		{"growing spend", []float64{100, 200, 300}, 300 - 150, 100 + 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CapitalizeRD(tt.expenses)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantAdjustment, got.Adjustment, 1e-9)
			assert.InDelta(t, tt.wantUnamortized, got.UnamortizedAmount, 1e-9)
		})
	}
}

func TestCapitalizeRD_ZeroSpend(t *testing.T) {
	got, err := CapitalizeRD([]float64{0, 0, 0})
	require.NoError(t, err)
	assert.Zero(t, got.Adjustment)
	assert.Zero(t, got.UnamortizedAmount)
}

func TestCapitalizeRD_InvalidInput(t *testing.T) {
	for name, expenses := range map[string][]float64{
		"nil":      nil,
		"single":   {100},
		"negative": {100, -5, 80},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := CapitalizeRD(expenses)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
