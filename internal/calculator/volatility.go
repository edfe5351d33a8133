package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualises daily volatility.
const TradingDaysPerYear = 252

// HistoricalVolatility returns the annualised standard deviation of daily log
// returns over the last window closes. ok is false with fewer than window+1
// closes or any non-positive price in the window.
func HistoricalVolatility(closes []float64, window int) (vol float64, ok bool) {
	if window < 2 || len(closes) < window+1 {
		return 0, false
	}
	prices := closes[len(closes)-(window+1):]
	returns := make([]float64, 0, window)
	for i := 1; i < len(prices); i++ {
		if prices[i] <= 0 || prices[i-1] <= 0 {
			return 0, false
		}
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear), true
}
