package technical

import "ScreenSentinel/internal/model"

// MatchPolicy decides how an assessment is graded. A partial match needs an
// uptrend and a pullback in band plus a bounce score of at least
// PartialMinBounce.
type MatchPolicy struct {
	PartialMinBounce float64
}

// DefaultMatchPolicy returns the policy with a partial-match floor of 30.
func DefaultMatchPolicy() MatchPolicy {
	return MatchPolicy{PartialMinBounce: 30}
}

// ClassifyMatch grades a. A nil assessment is never a match.
func (p MatchPolicy) ClassifyMatch(a *model.PullbackAssessment) model.MatchType {
	switch {
	case a == nil:
		return model.MatchNone
	case a.AllConditions:
		return model.MatchFull
	case a.BounceScore >= p.PartialMinBounce && a.Uptrend && a.IsPullback:
		return model.MatchPartial
	default:
		return model.MatchNone
	}
}
