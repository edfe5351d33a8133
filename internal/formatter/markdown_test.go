package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/recorder"
)

var f = model.Float

func lines(s string) []string { return strings.Split(s, "\n") }

func TestEmptyMessages(t *testing.T) {
	assert.Equal(t, EmptyMessage, Value(nil))
	assert.Equal(t, EmptyMessage, Query([]model.RankedResult{}))
	assert.Equal(t, EmptyPullbackMessage, Pullback(nil))
	assert.Equal(t, EmptyAlphaMessage, Alpha(nil))
	assert.Equal(t, EmptyGrowthMessage, Growth(nil))
	assert.Equal(t, EmptyTrendingMessage, Trending(nil, ""))
	assert.Equal(t, "**Market context:** Quiet week.\n\n"+EmptyTrendingMessage, Trending(nil, " Quiet week. "))
}

func TestValue(t *testing.T) {
	out := Value([]model.RankedResult{
		{Symbol: "7203.T", Name: "Toyota", Price: f(2850.4), PER: f(9.5), PBR: f(1.02), DividendYield: f(0.035), ROE: f(0.1234), ValueScore: f(88.5)},
		{Symbol: "XYZ", DividendYieldTrailing: f(0.01)},
	})
	l := lines(out)
	require.Len(t, l, 4)
	assert.Equal(t, "| Rank | Stock | Price | PER | PBR | Div Yield | ROE | Score |", l[0])
	assert.Equal(t, "| 1 | 7203.T Toyota | 2850 | 9.50 | 1.02 | 3.50% | 12.34% | 88.50 |", l[2])
	assert.Equal(t, "| 2 | XYZ | - | - | - | 1.00% | - | - |", l[3])
}

func TestQuery_OptionalColumns(t *testing.T) {
	plain := Query([]model.RankedResult{{Symbol: "A", Sector: "Energy", ValueScore: f(50)}})
	assert.NotContains(t, plain, "Total Return")
	assert.NotContains(t, plain, "Match")
	assert.Contains(t, plain, "| 1 | A | Energy | - |")

	out := Query([]model.RankedResult{
		{Symbol: "A", TotalShareholderReturn: f(0.061), BuybackYield: f(0.02), ReturnStability: "stable", ReturnStabilityLabel: "Stable"},
		{Symbol: "B", MatchType: model.MatchFull, PullbackPct: f(0.08), RSI: f(42.25), BounceScore: f(85)},
	})
	l := lines(out)
	assert.Contains(t, l[0], "| Total Return | Buyback | Stability | Pullback | RSI | Bounce | Match |")
	assert.True(t, strings.HasSuffix(l[2], "| 6.10% | 2.00% | Stable | - | - | - | - |"), l[2])
	assert.True(t, strings.HasSuffix(l[3], "| - | - | - | 8.00% | 42.2 | 85 | ★ full |"), l[3])
}

func TestPullback(t *testing.T) {
	out := Pullback([]model.RankedResult{
		{Symbol: "A", MatchType: model.MatchFull, ValueScore: f(70), FinalScore: f(71)},
		{Symbol: "B", MatchType: model.MatchPartial, ValueScore: f(40)},
	})
	l := lines(out)
	require.Len(t, l, 4)
	assert.True(t, strings.HasSuffix(l[2], "| ★ full | 71.00 |"))
	assert.True(t, strings.HasSuffix(l[3], "| △ partial | 40.00 |"))
}

func TestAlpha(t *testing.T) {
	out := Alpha([]model.RankedResult{{
		Symbol: "A", ValueScore: f(80), ChangeScore: f(75), AccrualsScore: f(15), RevAccelScore: f(25),
		FCFYieldScore: f(25), ROETrendScore: f(10), QualityPassedCount: model.Int(3),
		PullbackMatch: model.MatchPartial, TotalScore: f(160),
	}})
	assert.Contains(t, out, "| 80.0 | 75.0 | 15 | 25 | 25 | 10 | 3/4 | △ partial | 160.0 |")
}

func TestGrowth(t *testing.T) {
	out := Growth([]model.RankedResult{{Symbol: "NVDA", Name: "NVIDIA", EPSGrowth: f(1.5), RevenueGrowth: f(0.8), MarketCap: f(3.2e12)}})
	assert.Contains(t, out, "| 80.00% | 150.00% | 3200.0B |")
}

func TestTrending(t *testing.T) {
	out := Trending([]model.RankedResult{
		{Symbol: "A", TrendingReason: "new | product\nlaunch", ValueScore: f(65), Classification: model.ClassUndervalued},
		{Symbol: "B", ValueScore: f(0), Classification: model.ClassInsufficientData},
	}, "AI names rallied.")
	l := lines(out)
	assert.Equal(t, "**Market context:** AI names rallied.", l[0])
	assert.Equal(t, "", l[1])
	assert.Contains(t, l[4], `new \| product launch`)
	assert.Contains(t, l[4], "| 65.0 | undervalued |")
	assert.Contains(t, l[5], "| 0.0 | insufficient data |")
}

func TestHistory(t *testing.T) {
	assert.Equal(t, EmptyHistoryMessage, History(nil))

	out := History([]recorder.RunSummary{{
		ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
		Screener:    "alpha",
		Region:      "japan",
		TopN:        10,
		ResultCount: 4,
		StartedAt:   time.Date(2026, 5, 1, 6, 30, 0, 0, time.UTC),
		TopSymbols:  []string{"7203.T", "6758.T"},
	}})
	l := lines(out)
	require.Len(t, l, 3)
	assert.Equal(t, "| 2026-05-01 06:30 | alpha | japan | - | 10 | 4 | 7203.T, 6758.T | 0f8fad5b |", l[2])
}
