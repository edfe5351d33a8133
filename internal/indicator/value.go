package indicator

import "ScreenSentinel/internal/model"

// Point budgets of the value score components. They sum to 100.
const (
	perPoints      = 25.0
	pbrPoints      = 25.0
	dividendPoints = 20.0
	roePoints      = 15.0
	growthPoints   = 15.0
)

// Thresholds calibrate the value score for a market. A P/E at or below PERMax
// earns full marks and one at or above twice PERMax earns none; PBRMax works
// the same way. Dividend yield, ROE and revenue growth earn full marks once
// they reach their respective minimum.
type Thresholds struct {
	PERMax           float64
	PBRMax           float64
	DividendYieldMin float64
	ROEMin           float64
	RevenueGrowthMin float64
}

// DefaultThresholds returns the generic thresholds used when a market does not
// supply its own.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PERMax:           15.0,
		PBRMax:           1.0,
		DividendYieldMin: 0.03,
		ROEMin:           0.08,
		RevenueGrowthMin: 0.05,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.PERMax <= 0 {
		t.PERMax = d.PERMax
	}
	if t.PBRMax <= 0 {
		t.PBRMax = d.PBRMax
	}
	if t.DividendYieldMin <= 0 {
		t.DividendYieldMin = d.DividendYieldMin
	}
	if t.ROEMin <= 0 {
		t.ROEMin = d.ROEMin
	}
	if t.RevenueGrowthMin <= 0 {
		t.RevenueGrowthMin = d.RevenueGrowthMin
	}
	return t
}

// CalculateValueScore scores q from 0 to 100. Each component is clipped to its
// own budget before summing and a missing field contributes nothing, so a quote
// with every field absent scores exactly 0.
func CalculateValueScore(q model.Quote, th Thresholds) float64 {
	th = th.withDefaults()

	score := 0.0
	score += lowerIsBetter(q.PER, th.PERMax, perPoints)
	score += lowerIsBetter(q.PBR, th.PBRMax, pbrPoints)
	score += higherIsBetter(q.Yield(), th.DividendYieldMin, dividendPoints)
	score += higherIsBetter(q.ROE, th.ROEMin, roePoints)
	score += higherIsBetter(q.RevenueGrowth, th.RevenueGrowthMin, growthPoints)
	return clamp(score, 0, 100)
}

// lowerIsBetter awards full points at or below full and tapers linearly to
// zero at twice full. Non-positive values (losses, negative book) score 0.
func lowerIsBetter(v *float64, full, points float64) float64 {
	if v == nil || *v <= 0 {
		return 0
	}
	if *v <= full {
		return points
	}
	zero := 2 * full
	if *v >= zero {
		return 0
	}
	return points * (zero - *v) / (zero - full)
}

// higherIsBetter rewards v linearly from zero up to full, then caps.
func higherIsBetter(v *float64, full, points float64) float64 {
	if v == nil || *v <= 0 {
		return 0
	}
	if *v >= full {
		return points
	}
	return points * *v / full
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// linear maps v onto [0, points], reaching 0 at zeroAt and full points at
// fullAt. Either end may be the larger one.
func linear(v, zeroAt, fullAt, points float64) float64 {
	if fullAt == zeroAt {
		return 0
	}
	return clamp(points*(v-zeroAt)/(fullAt-zeroAt), 0, points)
}
