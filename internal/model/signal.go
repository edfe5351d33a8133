package model

// MatchType grades how well a pullback assessment fits the pattern.
type MatchType string

const (
	MatchFull    MatchType = "full"
	MatchPartial MatchType = "partial"
	MatchNone    MatchType = "none"
)

// Rank orders match types for sorting: full before partial before none.
func (m MatchType) Rank() int {
	switch m {
	case MatchFull:
		return 0
	case MatchPartial:
		return 1
	default:
		return 2
	}
}

// PullbackAssessment is the pullback-in-uptrend evaluation of one price series.
// PullbackPct is a fraction of the recent high (0.08 for an 8% dip).
type PullbackAssessment struct {
	Uptrend       bool
	IsPullback    bool
	PullbackPct   float64
	RecentHigh    float64
	LastClose     float64
	RSI           float64
	VolumeRatio   float64
	SMA50         float64
	SMA200        float64
	AboveSMA50    bool
	VolumeConfirm bool
	RSIInBand     bool
	BounceScore   float64
	AllConditions bool
	Volatility    *float64
	Factors       []FactorScore
}

// FactorScore is one weighted component of a composite score.
type FactorScore struct {
	Name       string
	Raw        float64
	Points     float64
	MaxPoints  float64
	Commentary string
}
