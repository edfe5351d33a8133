package model

// StockDetail carries the richer per-symbol figures used by the change-quality,
// shareholder-return and growth stages. Statement histories are ordered most
// recent period first. Nil or empty means not reported.
type StockDetail struct {
	Symbol string
	Name   string
	Sector string

	Price     *float64
	MarketCap *float64

	// Analyst coverage
	TargetMeanPrice    *float64
	TargetHighPrice    *float64
	TargetLowPrice     *float64
	AnalystCount       *int
	RecommendationMean *float64

	EPSGrowth     *float64
	RevenueGrowth *float64
	ROE           *float64

	NetIncome         *float64
	OperatingCashflow *float64
	FreeCashflow      *float64
	TotalAssets       *float64

	RevenueHistory   []float64
	NetIncomeHistory []float64
	EquityHistory    []float64

	// Cash returned to shareholders; the provider reports outflows as negatives.
	DividendsPaidHistory []float64
	RepurchaseHistory    []float64
}
