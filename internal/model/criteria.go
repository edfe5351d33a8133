package model

// ScreeningCriteria is an immutable filter specification. Nil fields are not
// applied. Ratios are fractions.
type ScreeningCriteria struct {
	MaxPER                    *float64 `yaml:"max_per"`
	MaxPBR                    *float64 `yaml:"max_pbr"`
	MinDividendYield          *float64 `yaml:"min_dividend_yield"`
	MinROE                    *float64 `yaml:"min_roe"`
	MinRevenueGrowth          *float64 `yaml:"min_revenue_growth"`
	MinEarningsGrowth         *float64 `yaml:"min_earnings_growth"`
	MinMarketCap              *float64 `yaml:"min_market_cap"`
	MinTotalShareholderReturn *float64 `yaml:"min_total_shareholder_return"`
	Exchange                  string   `yaml:"exchange"`
	Sector                    string   `yaml:"sector"`
}

// IsZero reports whether no criterion is set.
func (c ScreeningCriteria) IsZero() bool {
	return c == ScreeningCriteria{}
}
