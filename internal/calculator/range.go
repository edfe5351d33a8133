package calculator

import (
	"errors"
	"math"
)

// RecentHigh returns the maximum of the last lookback values (all values when
// the series is shorter).
func RecentHigh(values []float64, lookback int) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values provided")
	}
	if lookback <= 0 {
		return 0, errors.New("lookback must be positive")
	}
	start := len(values) - lookback
	if start < 0 {
		start = 0
	}
	high := math.Inf(-1)
	for i := start; i < len(values); i++ {
		if values[i] > high {
			high = values[i]
		}
	}
	return high, nil
}

// DeclineFromHigh returns how far current sits below high as a fraction of
// high. Values at or above the high give 0.
func DeclineFromHigh(current, high float64) float64 {
	if high <= 0 || current >= high {
		return 0
	}
	return (high - current) / high
}

// VolumeRatio divides the latest volume by the simple moving average of the
// preceding window volumes. ok is false when that average is zero or
// unavailable.
func VolumeRatio(volumes []float64, window int) (ratio float64, ok bool) {
	if window <= 0 || len(volumes) < 2 {
		return 0, false
	}
	latest := volumes[len(volumes)-1]
	prior := volumes[:len(volumes)-1]
	if window > len(prior) {
		window = len(prior)
	}
	avg, err := CalculateSMA(prior, window)
	if err != nil || avg <= 0 {
		return 0, false
	}
	return latest / avg, true
}
