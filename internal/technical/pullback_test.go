package technical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ScreenSentinel/internal/model"
)

// buildSeries returns an uptrending series of upBars closes followed by one
// bar per entry in drops, each falling by that fraction. The final bar
// trades lastVolume against a baseline of 1000.
func buildSeries(upBars int, drops []float64, lastVolume float64) model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := make([]float64, 0, upBars+len(drops))
	for i := 0; i < upBars; i++ {
		wiggle := 2.0
		if i%2 == 1 {
			wiggle = -2.0
		}
		closes = append(closes, 100+float64(i)+wiggle)
	}
	last := closes[len(closes)-1]
	for _, d := range drops {
		last *= 1 - d
		closes = append(closes, last)
	}

	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	bars[len(bars)-1].Volume = lastVolume
	return model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func fourDrops() []float64 { return []float64{0.012, 0.012, 0.012, 0.012} }

func TestDetect_InsufficientData(t *testing.T) {
	s := buildSeries(199, nil, 1000)
	assert.Nil(t, DetectPullbackInUptrend(s, DefaultConfig()))
	assert.Nil(t, DetectPullbackInUptrend(model.PriceSeries{}, DefaultConfig()))
}

func TestDetect_FullMatch(t *testing.T) {
	a := DetectPullbackInUptrend(buildSeries(240, fourDrops(), 1500), DefaultConfig())
	require.NotNil(t, a)

	assert.True(t, a.Uptrend)
	assert.True(t, a.IsPullback)
	assert.InDelta(t, 0.0556, a.PullbackPct, 0.001)
	assert.InDelta(t, 45.2, a.RSI, 0.5)
	assert.True(t, a.RSIInBand)
	assert.True(t, a.AboveSMA50)
	assert.InDelta(t, 1.5, a.VolumeRatio, 1e-9)
	assert.True(t, a.VolumeConfirm)
	assert.True(t, a.AllConditions)
	assert.InDelta(t, 100.0, a.BounceScore, 1e-9)
	assert.Len(t, a.Factors, 4)
	assert.NotNil(t, a.Volatility)

	assert.Equal(t, model.MatchFull, DefaultMatchPolicy().ClassifyMatch(a))
}

func TestDetect_PartialMatchWithoutVolume(t *testing.T) {
	a := DetectPullbackInUptrend(buildSeries(240, fourDrops(), 800), DefaultConfig())
	require.NotNil(t, a)

	assert.False(t, a.VolumeConfirm)
	assert.False(t, a.AllConditions)
	assert.InDelta(t, 85.0, a.BounceScore, 1e-9)
	assert.Equal(t, model.MatchPartial, DefaultMatchPolicy().ClassifyMatch(a))

	strict := MatchPolicy{PartialMinBounce: 90}
	assert.Equal(t, model.MatchNone, strict.ClassifyMatch(a))
}

func TestDetect_NoPullbackAtHighs(t *testing.T) {
	a := DetectPullbackInUptrend(buildSeries(260, nil, 1000), DefaultConfig())
	require.NotNil(t, a)
	assert.True(t, a.Uptrend)
	assert.False(t, a.IsPullback)
	assert.False(t, a.AllConditions)
	assert.Equal(t, model.MatchNone, DefaultMatchPolicy().ClassifyMatch(a))
}

func TestDetect_Downtrend(t *testing.T) {
	s := buildSeries(240, fourDrops(), 1500)
	// reverse the closes so the long trend points down
	n := len(s.Bars)
	for i := 0; i < n/2; i++ {
		s.Bars[i].Close, s.Bars[n-1-i].Close = s.Bars[n-1-i].Close, s.Bars[i].Close
	}
	a := DetectPullbackInUptrend(s, DefaultConfig())
	require.NotNil(t, a)
	assert.False(t, a.Uptrend)
	assert.False(t, a.AllConditions)
	assert.Equal(t, model.MatchNone, DefaultMatchPolicy().ClassifyMatch(a))
}

func TestDetect_DegenerateInputs(t *testing.T) {
	s := buildSeries(240, fourDrops(), 0)
	for i := range s.Bars {
		s.Bars[i].Volume = 0
	}
	a := DetectPullbackInUptrend(s, DefaultConfig())
	require.NotNil(t, a)
	assert.Equal(t, 0.0, a.VolumeRatio)
	assert.False(t, a.VolumeConfirm)

	flat := buildSeries(240, nil, 1000)
	for i := range flat.Bars {
		flat.Bars[i].Close = 50
	}
	a = DetectPullbackInUptrend(flat, DefaultConfig())
	require.NotNil(t, a)
	assert.Equal(t, 100.0, a.RSI)
	assert.False(t, a.Uptrend)
	assert.Equal(t, 0.0, a.PullbackPct)
}

func TestDetect_BounceScoreBounded(t *testing.T) {
	dropSets := [][]float64{
		nil,
		{0.05},
		{0.01, 0.01},
		fourDrops(),
		{0.03, 0.03, 0.03, 0.03, 0.03},
		{0.1, 0.1, 0.1},
	}
	for _, drops := range dropSets {
		for _, vol := range []float64{0, 500, 1000, 5000} {
			a := DetectPullbackInUptrend(buildSeries(240, drops, vol), DefaultConfig())
			require.NotNil(t, a)
			assert.GreaterOrEqual(t, a.BounceScore, 0.0)
			assert.LessOrEqual(t, a.BounceScore, 100.0)
			if a.AllConditions {
				assert.Equal(t, model.MatchFull, DefaultMatchPolicy().ClassifyMatch(a))
			}
		}
	}
}

func TestClassifyMatch(t *testing.T) {
	p := DefaultMatchPolicy()
	tests := []struct {
		name string
		a    *model.PullbackAssessment
		want model.MatchType
	}{
		{"nil", nil, model.MatchNone},
		{"all conditions", &model.PullbackAssessment{AllConditions: true}, model.MatchFull},
		{"partial", &model.PullbackAssessment{Uptrend: true, IsPullback: true, BounceScore: 30}, model.MatchPartial},
		{"low bounce", &model.PullbackAssessment{Uptrend: true, IsPullback: true, BounceScore: 29.9}, model.MatchNone},
		{"no uptrend", &model.PullbackAssessment{IsPullback: true, BounceScore: 80}, model.MatchNone},
		{"no pullback", &model.PullbackAssessment{Uptrend: true, BounceScore: 80}, model.MatchNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ClassifyMatch(tt.a))
		})
	}
}
