package model

// TrendingItem is one ticker surfaced by a discovery source.
type TrendingItem struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// TrendingResult is the discovery source's answer for one region.
type TrendingResult struct {
	Stocks        []TrendingItem `json:"stocks"`
	MarketContext string         `json:"market_context"`
}
