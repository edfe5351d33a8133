package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"
)

// ErrInsufficientData is returned when a series is shorter than the period.
var ErrInsufficientData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the most recent period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	series := talib.Sma(values[len(values)-period:], period)
	last := series[len(series)-1]
	if math.IsNaN(last) {
		return 0, ErrInsufficientData
	}
	return last, nil
}
