package screener

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/indicator"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/query"
)

// AlphaOptions configures an alpha screen.
type AlphaOptions struct {
	Region string
	TopN   int
}

// AlphaScreener combines value and change quality on a 200 point scale. A
// pullback in an uptrend adds a bonus but never removes a candidate.
type AlphaScreener struct {
	deps
}

// NewAlphaScreener creates an AlphaScreener.
func NewAlphaScreener(source collector.QuoteSource, presets query.Presets, cfg Config, log zerolog.Logger) *AlphaScreener {
	return &AlphaScreener{deps: newDeps(source, presets, cfg, log, "alpha")}
}

// Screen returns up to opts.TopN symbols passing the quality gate, ordered by
// total score.
func (s *AlphaScreener) Screen(ctx context.Context, opts AlphaOptions) ([]model.RankedResult, error) {
	criteria, err := s.presets.Get("value")
	if err != nil {
		return nil, err
	}
	if opts.TopN <= 0 {
		return empty(), nil
	}

	filter := query.BuildQuery(criteria, opts.Region, "", "")
	quotes := s.fetchCandidates(ctx, filter, overFetch(opts.TopN, 5, 250), DefaultSortField, false)
	if len(quotes) == 0 {
		return empty(), nil
	}

	qualified := s.qualityGate(ctx, quotes)
	if len(qualified) == 0 {
		s.log.Info().Int("candidates", len(quotes)).Msg("no candidates passed the quality gate")
		return empty(), nil
	}

	s.enrichPullback(ctx, qualified)
	for i := range qualified {
		r := &qualified[i]
		total := r.Score() + model.Value(r.ChangeScore) + s.bonus(r.PullbackMatch)
		r.TotalScore = model.Float(total)
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return model.Value(qualified[i].TotalScore) > model.Value(qualified[j].TotalScore)
	})
	s.log.Info().Str("region", opts.Region).Int("candidates", len(quotes)).Int("qualified", len(qualified)).Msg("alpha screen complete")
	return truncate(qualified, opts.TopN), nil
}

// qualityGate scores each quote and keeps those whose change-quality check is
// defined and passes.
func (s *AlphaScreener) qualityGate(ctx context.Context, quotes []model.Quote) []model.RankedResult {
	thresholds := indicator.DefaultThresholds()
	slots := make([]*model.RankedResult, len(quotes))
	s.forEach(ctx, len(quotes), func(ctx context.Context, i int) {
		q := quotes[i]
		detail, err := s.source.GetStockDetail(ctx, q.Symbol)
		if err != nil || detail == nil {
			s.log.Debug().Err(err).Str("symbol", q.Symbol).Msg("skipping symbol without detail")
			return
		}
		change := indicator.ComputeChangeScore(*detail, s.cfg.Change)
		if !change.Defined || !change.QualityPass {
			return
		}

		r := model.FromQuote(q)
		r.ValueScore = model.Float(indicator.CalculateValueScore(q, thresholds))
		r.ChangeScore = model.Float(change.ChangeScore)
		r.AccrualsRaw, r.AccrualsScore = change.Accruals.Raw, model.Float(change.Accruals.Score)
		r.RevAccelRaw, r.RevAccelScore = change.RevenueAcceleration.Raw, model.Float(change.RevenueAcceleration.Score)
		r.FCFYieldRaw, r.FCFYieldScore = change.FCFYield.Raw, model.Float(change.FCFYield.Score)
		r.ROETrendRaw, r.ROETrendScore = change.ROETrend.Raw, model.Float(change.ROETrend.Score)
		r.QualityPassedCount = model.Int(change.PassedCount)
		slots[i] = &r
	})
	return compact(slots)
}

// enrichPullback sets PullbackMatch on every row. Missing or short history
// counts as no match.
func (s *AlphaScreener) enrichPullback(ctx context.Context, results []model.RankedResult) {
	s.forEach(ctx, len(results), func(ctx context.Context, i int) {
		r := &results[i]
		r.PullbackMatch = model.MatchNone
		a, err := s.assessPullback(ctx, r.Symbol)
		if err != nil || a == nil {
			return
		}
		r.PullbackMatch = s.cfg.Match.ClassifyMatch(a)
		r.PullbackPct = model.Float(a.PullbackPct)
		r.RSI = model.Float(a.RSI)
		r.BounceScore = model.Float(a.BounceScore)
	})
}

func (s *AlphaScreener) bonus(m model.MatchType) float64 {
	switch m {
	case model.MatchFull:
		return s.cfg.PullbackBonusFull
	case model.MatchPartial:
		return s.cfg.PullbackBonusPartial
	default:
		return 0
	}
}
