package screener

import (
	"context"

	"github.com/rs/zerolog"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/indicator"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/query"
)

// PullbackOptions configures a pullback screen. Criteria overrides the
// default fundamental filter.
type PullbackOptions struct {
	Region   string
	TopN     int
	Criteria *model.ScreeningCriteria
}

// PullbackScreener finds fundamentally sound stocks that have dipped inside
// an uptrend.
type PullbackScreener struct {
	deps
}

// NewPullbackScreener creates a PullbackScreener.
func NewPullbackScreener(source collector.QuoteSource, presets query.Presets, cfg Config, log zerolog.Logger) *PullbackScreener {
	return &PullbackScreener{deps: newDeps(source, presets, cfg, log, "pullback")}
}

// Screen returns full matches before partial matches, each group ordered by
// value score. Symbols matching neither are dropped.
func (s *PullbackScreener) Screen(ctx context.Context, opts PullbackOptions) ([]model.RankedResult, error) {
	if opts.TopN <= 0 {
		return empty(), nil
	}
	criteria := s.cfg.PullbackCriteria
	if opts.Criteria != nil {
		criteria = *opts.Criteria
	}

	filter := query.BuildQuery(criteria, opts.Region, "", "")
	quotes := s.fetchCandidates(ctx, filter, overFetch(opts.TopN, 5, 250), DefaultSortField, false)
	if len(quotes) == 0 {
		return empty(), nil
	}

	thresholds := indicator.DefaultThresholds()
	slots := make([]*model.RankedResult, len(quotes))
	s.forEach(ctx, len(quotes), func(ctx context.Context, i int) {
		q := quotes[i]
		a, err := s.assessPullback(ctx, q.Symbol)
		if err != nil || a == nil {
			s.log.Debug().Err(err).Str("symbol", q.Symbol).Msg("skipping symbol without usable history")
			return
		}
		match := s.cfg.Match.ClassifyMatch(a)
		if match == model.MatchNone {
			return
		}
		score := indicator.CalculateValueScore(q, thresholds)
		r := model.FromQuote(q).WithPullback(*a, match)
		r.ValueScore = model.Float(score)
		r.FinalScore = model.Float(score)
		slots[i] = &r
	})

	results := compact(slots)
	sortByMatch(results)
	s.log.Info().Str("region", opts.Region).Int("candidates", len(quotes)).Int("matched", len(results)).Msg("pullback screen complete")
	return truncate(results, opts.TopN), nil
}
