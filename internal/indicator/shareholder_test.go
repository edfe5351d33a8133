package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ScreenSentinel/internal/model"
)

func TestCalculateShareholderReturn(t *testing.T) {
	d := model.StockDetail{
		MarketCap:            f(1000),
		DividendsPaidHistory: []float64{-30, -28},
		RepurchaseHistory:    []float64{-20},
	}
	sr := CalculateShareholderReturn(d)
	require.NotNil(t, sr.TotalReturnRate)
	assert.InDelta(t, 0.05, *sr.TotalReturnRate, 1e-9)
	assert.InDelta(t, 0.02, *sr.BuybackYield, 1e-9)
	assert.InDelta(t, 0.03, *sr.DividendYield, 1e-9)
	assert.InDelta(t, 50.0, *sr.TotalReturnAmount, 1e-9)
}

func TestCalculateShareholderReturn_NoMarketCap(t *testing.T) {
	sr := CalculateShareholderReturn(model.StockDetail{DividendsPaidHistory: []float64{-5}})
	assert.NotNil(t, sr.TotalReturnAmount)
	assert.Nil(t, sr.TotalReturnRate)

	empty := CalculateShareholderReturn(model.StockDetail{MarketCap: f(10)})
	assert.Nil(t, empty.TotalReturnAmount)
	assert.Nil(t, empty.TotalReturnRate)
}

func TestCalculateShareholderReturnHistory(t *testing.T) {
	d := model.StockDetail{
		MarketCap:            f(100),
		DividendsPaidHistory: []float64{-3, -2, -1},
		RepurchaseHistory:    []float64{-1, -1},
	}
	h := CalculateShareholderReturnHistory(d)
	require.Len(t, h, 3)
	assert.InDelta(t, 0.04, h[0], 1e-9)
	assert.InDelta(t, 0.03, h[1], 1e-9)
	assert.InDelta(t, 0.01, h[2], 1e-9)

	assert.Nil(t, CalculateShareholderReturnHistory(model.StockDetail{DividendsPaidHistory: []float64{-1}}))
}

func TestAssessReturnStability(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		want    string
	}{
		{"empty", nil, StabilityNoData},
		{"single", []float64{0.04}, StabilitySingleYear},
		{"rising", []float64{0.05, 0.04, 0.03}, StabilityIncreasing},
		{"falling", []float64{0.02, 0.04, 0.06}, StabilityDeclining},
		{"steady", []float64{0.040, 0.042, 0.039, 0.041}, StabilityStable},
		{"erratic", []float64{0.01, 0.09, 0.005, 0.08}, StabilityVolatile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessReturnStability(tt.history)
			assert.Equal(t, tt.want, got.Stability)
			assert.NotEmpty(t, got.Label)
			assert.NotEmpty(t, got.Reason)
			if len(tt.history) > 0 {
				assert.NotNil(t, got.AvgRate)
			}
		})
	}
}
