package model

// RawQuote is one record as reported by the quote provider, using the
// provider's own conventions: DividendYield is a percentage (3.5 means 3.5%),
// TrailingAnnualDividendYield is a ratio, ROE and growth figures may be either.
// Nil means the provider did not report the field.
type RawQuote struct {
	Symbol    string
	ShortName string
	LongName  string
	Sector    string
	Industry  string
	Currency  string
	Exchange  string

	RegularMarketPrice          *float64
	MarketCap                   *float64
	TrailingPE                  *float64
	ForwardPE                   *float64
	PriceToBook                 *float64
	ReturnOnEquity              *float64
	DividendYield               *float64
	TrailingAnnualDividendYield *float64
	RevenueGrowth               *float64
	EarningsGrowth              *float64
}

// Quote is a normalized snapshot of one instrument. Ratios are fractions
// (0.035 for 3.5%). A nil field is unknown: either unreported or rejected as
// implausible during normalization.
type Quote struct {
	Symbol   string
	Name     string
	Sector   string
	Industry string
	Currency string
	Exchange string

	Price                 *float64
	MarketCap             *float64
	PER                   *float64
	ForwardPER            *float64
	PBR                   *float64
	ROE                   *float64
	DividendYield         *float64
	DividendYieldTrailing *float64
	RevenueGrowth         *float64
	EarningsGrowth        *float64
}

// Yield returns the forward dividend yield, falling back to the trailing one.
func (q Quote) Yield() *float64 {
	if q.DividendYield != nil {
		return q.DividendYield
	}
	return q.DividendYieldTrailing
}

// Float returns a pointer to v. Used to populate optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Value dereferences p, returning 0 for nil.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
