package indicator

import (
	"strings"

	"ScreenSentinel/internal/model"
)

// ApplyFilters reports whether r satisfies every criterion that is set. A set
// criterion whose field is unknown fails: absence is not evidence of value.
func ApplyFilters(r model.RankedResult, c model.ScreeningCriteria) bool {
	yield := r.DividendYield
	if yield == nil {
		yield = r.DividendYieldTrailing
	}
	checks := []struct {
		value *float64
		limit *float64
		max   bool
	}{
		{r.PER, c.MaxPER, true},
		{r.PBR, c.MaxPBR, true},
		{yield, c.MinDividendYield, false},
		{r.ROE, c.MinROE, false},
		{r.RevenueGrowth, c.MinRevenueGrowth, false},
		{r.EarningsGrowth, c.MinEarningsGrowth, false},
		{r.MarketCap, c.MinMarketCap, false},
		{r.TotalShareholderReturn, c.MinTotalShareholderReturn, false},
	}
	for _, chk := range checks {
		if chk.limit == nil {
			continue
		}
		if chk.value == nil {
			return false
		}
		if chk.max && *chk.value > *chk.limit {
			return false
		}
		if !chk.max && *chk.value < *chk.limit {
			return false
		}
	}
	if c.Exchange != "" && !strings.EqualFold(c.Exchange, r.Exchange) {
		return false
	}
	if c.Sector != "" && !strings.EqualFold(c.Sector, r.Sector) {
		return false
	}
	return true
}
