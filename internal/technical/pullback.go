package technical

import (
	"ScreenSentinel/internal/calculator"
	"ScreenSentinel/internal/model"
)

// Config holds the rule parameters of the pullback-in-uptrend pattern.
type Config struct {
	MinObservations  int
	ShortWindow      int
	LongWindow       int
	Lookback         int
	PullbackMin      float64
	PullbackMax      float64
	RSIPeriod        int
	RSILow           float64
	RSIHigh          float64
	VolumeWindow     int
	VolumeConfirm    float64
	VolatilityWindow int
}

// DefaultConfig returns the standard rule set: SMA50 over SMA200, a 3-15% dip
// from the 20-day high, RSI(14) between 30 and 50 and volume at or above its
// 20-day average.
func DefaultConfig() Config {
	return Config{
		MinObservations:  200,
		ShortWindow:      50,
		LongWindow:       200,
		Lookback:         20,
		PullbackMin:      0.03,
		PullbackMax:      0.15,
		RSIPeriod:        14,
		RSILow:           30,
		RSIHigh:          50,
		VolumeWindow:     20,
		VolumeConfirm:    1.0,
		VolatilityWindow: 30,
	}
}

// DetectPullbackInUptrend evaluates the latest bar of series against the
// pattern. It returns nil when the series is too short to compute the long
// moving average; that is a defined outcome, not an error.
func DetectPullbackInUptrend(series model.PriceSeries, cfg Config) *model.PullbackAssessment {
	minObs := cfg.MinObservations
	if minObs < cfg.LongWindow {
		minObs = cfg.LongWindow
	}
	if series.Len() < minObs {
		return nil
	}

	closes := series.Closes()
	volumes := series.Volumes()

	sma50, err := calculator.CalculateSMA(closes, cfg.ShortWindow)
	if err != nil {
		return nil
	}
	sma200, err := calculator.CalculateSMA(closes, cfg.LongWindow)
	if err != nil {
		return nil
	}

	last := closes[len(closes)-1]
	high, err := calculator.RecentHigh(closes, cfg.Lookback)
	if err != nil {
		return nil
	}
	pct := calculator.DeclineFromHigh(last, high)

	rsi, err := calculator.CalculateRSI(closes, cfg.RSIPeriod)
	if err != nil {
		return nil
	}

	// zero trailing volume leaves the ratio at 0, which never confirms
	volRatio, _ := calculator.VolumeRatio(volumes, cfg.VolumeWindow)

	a := &model.PullbackAssessment{
		Uptrend:       sma50 > sma200,
		IsPullback:    pct >= cfg.PullbackMin && pct <= cfg.PullbackMax,
		PullbackPct:   pct,
		RecentHigh:    high,
		LastClose:     last,
		RSI:           rsi,
		VolumeRatio:   volRatio,
		SMA50:         sma50,
		SMA200:        sma200,
		AboveSMA50:    last > sma50,
		VolumeConfirm: volRatio >= cfg.VolumeConfirm,
		RSIInBand:     rsi >= cfg.RSILow && rsi <= cfg.RSIHigh,
	}
	a.AllConditions = a.Uptrend && a.IsPullback && a.RSIInBand && a.AboveSMA50 && a.VolumeConfirm

	a.Factors = bounceFactors(a, cfg)
	for _, f := range a.Factors {
		a.BounceScore += f.Points
	}
	if a.BounceScore > 100 {
		a.BounceScore = 100
	}

	if vol, ok := calculator.HistoricalVolatility(closes, cfg.VolatilityWindow); ok {
		a.Volatility = model.Float(vol)
	}
	return a
}
