package indicator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"ScreenSentinel/internal/model"
)

// ShareholderReturn is the cash returned to shareholders in the latest period,
// as amounts and as rates against market capitalisation.
type ShareholderReturn struct {
	DividendPaid      *float64
	BuybackAmount     *float64
	TotalReturnAmount *float64
	DividendYield     *float64
	BuybackYield      *float64
	TotalReturnRate   *float64
}

// CalculateShareholderReturn sums dividends and buybacks for the most recent
// period. Rates are nil when market cap is unknown.
func CalculateShareholderReturn(d model.StockDetail) ShareholderReturn {
	var sr ShareholderReturn
	div, hasDiv := outflow(d.DividendsPaidHistory, 0)
	buy, hasBuy := outflow(d.RepurchaseHistory, 0)
	if !hasDiv && !hasBuy {
		return sr
	}
	if hasDiv {
		sr.DividendPaid = model.Float(div)
	}
	if hasBuy {
		sr.BuybackAmount = model.Float(buy)
	}
	total := div + buy
	sr.TotalReturnAmount = model.Float(total)

	if d.MarketCap != nil && *d.MarketCap > 0 {
		mc := *d.MarketCap
		if hasDiv {
			sr.DividendYield = model.Float(div / mc)
		}
		if hasBuy {
			sr.BuybackYield = model.Float(buy / mc)
		}
		sr.TotalReturnRate = model.Float(total / mc)
	}
	return sr
}

// CalculateShareholderReturnHistory returns the total return rate for every
// reported period, most recent first, against the current market cap.
func CalculateShareholderReturnHistory(d model.StockDetail) []float64 {
	if d.MarketCap == nil || *d.MarketCap <= 0 {
		return nil
	}
	n := len(d.DividendsPaidHistory)
	if len(d.RepurchaseHistory) > n {
		n = len(d.RepurchaseHistory)
	}
	rates := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		div, hasDiv := outflow(d.DividendsPaidHistory, i)
		buy, hasBuy := outflow(d.RepurchaseHistory, i)
		if !hasDiv && !hasBuy {
			break
		}
		rates = append(rates, (div+buy)/(*d.MarketCap))
	}
	return rates
}

// outflow reads period i of a cash-flow history where payouts are reported as
// negative numbers and returns the paid amount as a positive value.
func outflow(history []float64, i int) (float64, bool) {
	if i >= len(history) || math.IsNaN(history[i]) {
		return 0, false
	}
	return math.Abs(history[i]), true
}

// Return stability classes.
const (
	StabilityNoData     = "no_data"
	StabilitySingleYear = "single_year"
	StabilityStable     = "stable"
	StabilityIncreasing = "increasing"
	StabilityDeclining  = "declining"
	StabilityVolatile   = "volatile"
)

var stabilityLabels = map[string]string{
	StabilityNoData:     "No data",
	StabilitySingleYear: "Single year only",
	StabilityStable:     "Stable",
	StabilityIncreasing: "Increasing",
	StabilityDeclining:  "Declining",
	StabilityVolatile:   "Volatile",
}

// stableCV is the largest coefficient of variation still called stable.
const stableCV = 0.3

// ReturnStability classifies a shareholder return history.
type ReturnStability struct {
	Stability string
	Label     string
	AvgRate   *float64
	Reason    string
}

// AssessReturnStability classifies history (most recent first). A strictly
// monotonic series is increasing or declining; otherwise a coefficient of
// variation below 0.3 is stable and anything else is volatile.
func AssessReturnStability(history []float64) ReturnStability {
	n := len(history)
	switch n {
	case 0:
		return newStability(StabilityNoData, nil, "no shareholder return history")
	case 1:
		return newStability(StabilitySingleYear, model.Float(history[0]), "only one period reported")
	}

	mean := stat.Mean(history, nil)
	avg := model.Float(mean)

	increasing, declining := true, true
	for i := 0; i < n-1; i++ {
		// history[i] is newer than history[i+1]
		if history[i] <= history[i+1] {
			increasing = false
		}
		if history[i] >= history[i+1] {
			declining = false
		}
	}
	switch {
	case increasing:
		return newStability(StabilityIncreasing, avg,
			fmt.Sprintf("rose in each of %d periods", n-1))
	case declining:
		return newStability(StabilityDeclining, avg,
			fmt.Sprintf("fell in each of %d periods", n-1))
	}

	if mean <= 0 {
		return newStability(StabilityVolatile, avg, "no positive average return")
	}
	cv := stat.StdDev(history, nil) / mean
	if cv < stableCV {
		return newStability(StabilityStable, avg, fmt.Sprintf("coefficient of variation %.2f", cv))
	}
	return newStability(StabilityVolatile, avg, fmt.Sprintf("coefficient of variation %.2f", cv))
}

func newStability(class string, avg *float64, reason string) ReturnStability {
	return ReturnStability{
		Stability: class,
		Label:     stabilityLabels[class],
		AvgRate:   avg,
		Reason:    reason,
	}
}
