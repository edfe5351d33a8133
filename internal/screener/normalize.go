package screener

import (
	"math"

	"ScreenSentinel/internal/model"
)

// Plausibility limits applied during normalization.
const (
	minPlausiblePER   = 1.0
	minPlausiblePBR   = 0.05
	maxPlausibleYield = 0.15
	minPlausibleROE   = -1.0
	maxPlausibleROE   = 2.0
)

// NormalizeQuote converts a provider record to ratio form and drops values
// that cannot be right. Dividend yield arrives in percent; ROE above 1 and
// revenue growth beyond ±5 are taken to be percentages as well.
func NormalizeQuote(raw model.RawQuote) model.Quote {
	q := model.Quote{
		Symbol:         raw.Symbol,
		Name:           raw.ShortName,
		Sector:         raw.Sector,
		Industry:       raw.Industry,
		Currency:       raw.Currency,
		Exchange:       raw.Exchange,
		Price:          finite(raw.RegularMarketPrice),
		MarketCap:      finite(raw.MarketCap),
		ForwardPER:     finite(raw.ForwardPE),
		EarningsGrowth: finite(raw.EarningsGrowth),
	}
	if q.Name == "" {
		q.Name = raw.LongName
	}

	if dy := finite(raw.DividendYield); dy != nil {
		q.DividendYield = model.Float(*dy / 100)
	}
	if roe := finite(raw.ReturnOnEquity); roe != nil && *roe > 1 {
		q.ROE = model.Float(*roe / 100)
	} else {
		q.ROE = roe
	}
	if g := finite(raw.RevenueGrowth); g != nil && math.Abs(*g) > 5 {
		q.RevenueGrowth = model.Float(*g / 100)
	} else {
		q.RevenueGrowth = g
	}
	q.PER = finite(raw.TrailingPE)
	q.PBR = finite(raw.PriceToBook)
	q.DividendYieldTrailing = finite(raw.TrailingAnnualDividendYield)

	// anomaly guards
	if q.PER != nil && *q.PER > 0 && *q.PER < minPlausiblePER {
		q.PER = nil
	}
	if q.PBR != nil && *q.PBR < minPlausiblePBR {
		q.PBR = nil
	}
	if q.DividendYield != nil && *q.DividendYield > maxPlausibleYield {
		q.DividendYield = nil
	}
	if q.DividendYieldTrailing != nil && *q.DividendYieldTrailing > maxPlausibleYield {
		q.DividendYieldTrailing = nil
	}
	if q.ROE != nil && (*q.ROE < minPlausibleROE || *q.ROE > maxPlausibleROE) {
		q.ROE = nil
	}
	return q
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return model.Float(*v)
}
