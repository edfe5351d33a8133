package technical

import (
	"fmt"

	"ScreenSentinel/internal/model"
)

// Bounce score weights. They sum to 100.
const (
	rsiWeight    = 30.0
	depthWeight  = 25.0
	sma50Weight  = 25.0
	volumeWeight = 20.0
)

func bounceFactors(a *model.PullbackAssessment, cfg Config) []model.FactorScore {
	return []model.FactorScore{
		scoreRSIRecovery(a.RSI, cfg),
		scorePullbackDepth(a.PullbackPct, cfg),
		scoreSMA50Position(a.LastClose, a.SMA50),
		scoreVolume(a.VolumeRatio, cfg),
	}
}

// scoreRSIRecovery rewards RSI recovering from oversold.
// Weight: 30
func scoreRSIRecovery(rsi float64, cfg Config) model.FactorScore {
	var points float64
	var commentary string
	switch {
	case rsi < cfg.RSILow:
		points = rsiWeight * 0.5
		commentary = "oversold"
	case rsi <= cfg.RSIHigh:
		points = rsiWeight
		commentary = "recovering"
	case rsi <= 60:
		points = rsiWeight * 2 / 3
		commentary = "neutral"
	case rsi <= 70:
		points = rsiWeight / 3
		commentary = "firm"
	default:
		points = 0
		commentary = "overbought"
	}
	return model.FactorScore{
		Name:       "rsi",
		Raw:        rsi,
		Points:     points,
		MaxPoints:  rsiWeight,
		Commentary: fmt.Sprintf("RSI=%.0f %s", rsi, commentary),
	}
}

// scorePullbackDepth rewards a dip inside the band, most of all a 5-10% one.
// Weight: 25
func scorePullbackDepth(pct float64, cfg Config) model.FactorScore {
	var points float64
	switch {
	case pct < cfg.PullbackMin, pct > cfg.PullbackMax:
		points = 0
	case pct >= 0.05 && pct <= 0.10:
		points = depthWeight
	default:
		points = depthWeight * 0.6
	}
	return model.FactorScore{
		Name:       "depth",
		Raw:        pct,
		Points:     points,
		MaxPoints:  depthWeight,
		Commentary: fmt.Sprintf("-%.1f%% from high", pct*100),
	}
}

// scoreSMA50Position rewards price holding above the 50-day average.
// Weight: 25
func scoreSMA50Position(price, sma50 float64) model.FactorScore {
	if sma50 <= 0 {
		return model.FactorScore{Name: "sma50", MaxPoints: sma50Weight, Commentary: "SMA50 unavailable"}
	}
	dev := (price - sma50) / sma50

	var points float64
	var commentary string
	switch {
	case dev > 0:
		points = sma50Weight
		commentary = "above SMA50"
	case dev >= -0.02:
		points = sma50Weight * 0.4
		commentary = "testing SMA50"
	default:
		points = 0
		commentary = "below SMA50"
	}
	return model.FactorScore{
		Name:       "sma50",
		Raw:        dev,
		Points:     points,
		MaxPoints:  sma50Weight,
		Commentary: fmt.Sprintf("%s (%+.1f%%)", commentary, dev*100),
	}
}

// scoreVolume rewards participation on the latest bar.
// Weight: 20
func scoreVolume(ratio float64, cfg Config) model.FactorScore {
	var points float64
	switch {
	case ratio >= 1.5:
		points = volumeWeight
	case ratio >= cfg.VolumeConfirm:
		points = volumeWeight * 0.75
	case ratio >= 0.8:
		points = volumeWeight * 0.25
	default:
		points = 0
	}
	return model.FactorScore{
		Name:       "volume",
		Raw:        ratio,
		Points:     points,
		MaxPoints:  volumeWeight,
		Commentary: fmt.Sprintf("x%.2f of average", ratio),
	}
}
