package model

// Classification buckets a trending name by its value score.
type Classification string

const (
	ClassUndervalued      Classification = "undervalued"
	ClassFair             Classification = "fair"
	ClassOvervalued       Classification = "overvalued"
	ClassInsufficientData Classification = "insufficient data"
)

// Rank orders classifications for sorting.
func (c Classification) Rank() int {
	switch c {
	case ClassUndervalued:
		return 0
	case ClassFair:
		return 1
	case ClassOvervalued:
		return 2
	default:
		return 3
	}
}

// RankedResult is one output row of a screener. The JSON field names are the
// stable contract consumed by the formatter and the history recorder; each
// screener fills only the fields it computes.
type RankedResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Currency string `json:"currency,omitempty"`

	Price                 *float64 `json:"price,omitempty"`
	MarketCap             *float64 `json:"market_cap,omitempty"`
	PER                   *float64 `json:"per,omitempty"`
	ForwardPER            *float64 `json:"forward_per,omitempty"`
	PBR                   *float64 `json:"pbr,omitempty"`
	DividendYield         *float64 `json:"dividend_yield,omitempty"`
	DividendYieldTrailing *float64 `json:"dividend_yield_trailing,omitempty"`
	ROE                   *float64 `json:"roe,omitempty"`
	RevenueGrowth         *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth        *float64 `json:"earnings_growth,omitempty"`
	ValueScore            *float64 `json:"value_score,omitempty"`

	// Shareholder return
	TotalShareholderReturn *float64 `json:"total_shareholder_return,omitempty"`
	BuybackYield           *float64 `json:"buyback_yield,omitempty"`
	ReturnStability        string   `json:"return_stability,omitempty"`
	ReturnStabilityLabel   string   `json:"return_stability_label,omitempty"`
	ReturnAvgRate          *float64 `json:"return_avg_rate,omitempty"`
	ReturnStabilityReason  string   `json:"return_stability_reason,omitempty"`

	// Technical
	PullbackPct   *float64  `json:"pullback_pct,omitempty"`
	RSI           *float64  `json:"rsi,omitempty"`
	VolumeRatio   *float64  `json:"volume_ratio,omitempty"`
	SMA50         *float64  `json:"sma50,omitempty"`
	SMA200        *float64  `json:"sma200,omitempty"`
	BounceScore   *float64  `json:"bounce_score,omitempty"`
	Volatility    *float64  `json:"volatility,omitempty"`
	MatchType     MatchType `json:"match_type,omitempty"`
	PullbackMatch MatchType `json:"pullback_match,omitempty"`
	FinalScore    *float64  `json:"final_score,omitempty"`

	// Change quality
	ChangeScore        *float64 `json:"change_score,omitempty"`
	AccrualsScore      *float64 `json:"accruals_score,omitempty"`
	AccrualsRaw        *float64 `json:"accruals_raw,omitempty"`
	RevAccelScore      *float64 `json:"rev_accel_score,omitempty"`
	RevAccelRaw        *float64 `json:"rev_accel_raw,omitempty"`
	FCFYieldScore      *float64 `json:"fcf_yield_score,omitempty"`
	FCFYieldRaw        *float64 `json:"fcf_yield_raw,omitempty"`
	ROETrendScore      *float64 `json:"roe_trend_score,omitempty"`
	ROETrendRaw        *float64 `json:"roe_trend_raw,omitempty"`
	QualityPassedCount *int     `json:"quality_passed_count,omitempty"`
	TotalScore         *float64 `json:"total_score,omitempty"`

	// Growth
	EPSGrowth *float64 `json:"eps_growth,omitempty"`

	// Trending
	Classification Classification `json:"classification,omitempty"`
	TrendingReason string         `json:"trending_reason,omitempty"`
}

// FromQuote copies the identity and fundamental fields of q.
func FromQuote(q Quote) RankedResult {
	return RankedResult{
		Symbol:                q.Symbol,
		Name:                  q.Name,
		Sector:                q.Sector,
		Industry:              q.Industry,
		Exchange:              q.Exchange,
		Currency:              q.Currency,
		Price:                 q.Price,
		MarketCap:             q.MarketCap,
		PER:                   q.PER,
		ForwardPER:            q.ForwardPER,
		PBR:                   q.PBR,
		DividendYield:         q.DividendYield,
		DividendYieldTrailing: q.DividendYieldTrailing,
		ROE:                   q.ROE,
		RevenueGrowth:         q.RevenueGrowth,
		EarningsGrowth:        q.EarningsGrowth,
	}
}

// WithPullback returns a copy of r carrying the technical fields of a.
func (r RankedResult) WithPullback(a PullbackAssessment, match MatchType) RankedResult {
	r.PullbackPct = Float(a.PullbackPct)
	r.RSI = Float(a.RSI)
	r.VolumeRatio = Float(a.VolumeRatio)
	r.SMA50 = Float(a.SMA50)
	r.SMA200 = Float(a.SMA200)
	r.BounceScore = Float(a.BounceScore)
	r.Volatility = a.Volatility
	r.MatchType = match
	return r
}

// Score returns the value score, or 0 when unset.
func (r RankedResult) Score() float64 { return Value(r.ValueScore) }
