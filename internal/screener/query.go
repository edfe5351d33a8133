package screener

import (
	"context"

	"github.com/rs/zerolog"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/indicator"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/query"
)

// QueryOptions configures a provider-side value screen.
type QueryOptions struct {
	Region string
	// Criteria takes priority over Preset when both are given.
	Criteria     *model.ScreeningCriteria
	Preset       string
	Exchange     string
	Sector       string
	TopN         int
	SortField    string
	SortAsc      bool
	WithPullback bool
}

// QueryScreener sends the criteria to the provider's screener and scores
// what comes back, optionally applying shareholder-return and
// pullback-in-uptrend filters.
type QueryScreener struct {
	deps
}

// NewQueryScreener creates a QueryScreener.
func NewQueryScreener(source collector.QuoteSource, presets query.Presets, cfg Config, log zerolog.Logger) *QueryScreener {
	return &QueryScreener{deps: newDeps(source, presets, cfg, log, "query")}
}

// Screen runs the query pipeline. Results are ordered by value score, or by
// match type then value score when WithPullback is set.
func (s *QueryScreener) Screen(ctx context.Context, opts QueryOptions) ([]model.RankedResult, error) {
	criteria, err := s.resolveCriteria(opts.Criteria, opts.Preset)
	if err != nil {
		return nil, err
	}
	if opts.TopN <= 0 {
		return empty(), nil
	}

	filter := query.BuildQuery(criteria, opts.Region, opts.Exchange, opts.Sector)
	maxResults := opts.TopN * 5
	if opts.WithPullback {
		maxResults = overFetch(opts.TopN, 5, 250)
	}

	quotes := s.fetchCandidates(ctx, filter, maxResults, opts.SortField, opts.SortAsc)
	if len(quotes) == 0 {
		return empty(), nil
	}

	thresholds := indicator.DefaultThresholds()
	results := make([]model.RankedResult, len(quotes))
	for i, q := range quotes {
		results[i] = model.FromQuote(q)
		results[i].ValueScore = model.Float(indicator.CalculateValueScore(q, thresholds))
	}

	if criteria.MinTotalShareholderReturn != nil {
		results = s.filterShareholderReturn(ctx, results, *criteria.MinTotalShareholderReturn)
		if len(results) == 0 {
			return empty(), nil
		}
	}

	if opts.WithPullback {
		results = s.filterPullback(ctx, results)
		sortByMatch(results)
	} else {
		sortByValueScore(results)
	}
	s.log.Info().Str("region", opts.Region).Int("candidates", len(quotes)).Int("passed", len(results)).Msg("query screen complete")
	return truncate(results, opts.TopN), nil
}

// filterShareholderReturn attaches shareholder return figures from the detail
// record and keeps rows at or above minRate.
func (s *QueryScreener) filterShareholderReturn(ctx context.Context, results []model.RankedResult, minRate float64) []model.RankedResult {
	only := model.ScreeningCriteria{MinTotalShareholderReturn: model.Float(minRate)}
	slots := make([]*model.RankedResult, len(results))
	s.forEach(ctx, len(results), func(ctx context.Context, i int) {
		r := results[i]
		detail, err := s.source.GetStockDetail(ctx, r.Symbol)
		if err != nil || detail == nil {
			s.log.Debug().Err(err).Str("symbol", r.Symbol).Msg("skipping symbol without detail")
			return
		}
		sr := indicator.CalculateShareholderReturn(*detail)
		stability := indicator.AssessReturnStability(indicator.CalculateShareholderReturnHistory(*detail))
		r.TotalShareholderReturn = sr.TotalReturnRate
		r.BuybackYield = sr.BuybackYield
		r.ReturnStability = stability.Stability
		r.ReturnStabilityLabel = stability.Label
		r.ReturnAvgRate = stability.AvgRate
		r.ReturnStabilityReason = stability.Reason
		if indicator.ApplyFilters(r, only) {
			slots[i] = &r
		}
	})
	return compact(slots)
}

// filterPullback keeps only full and partial pullback matches.
func (s *QueryScreener) filterPullback(ctx context.Context, results []model.RankedResult) []model.RankedResult {
	slots := make([]*model.RankedResult, len(results))
	s.forEach(ctx, len(results), func(ctx context.Context, i int) {
		r := results[i]
		a, err := s.assessPullback(ctx, r.Symbol)
		if err != nil || a == nil {
			s.log.Debug().Err(err).Str("symbol", r.Symbol).Msg("skipping symbol without usable history")
			return
		}
		match := s.cfg.Match.ClassifyMatch(a)
		if match == model.MatchNone {
			return
		}
		r = r.WithPullback(*a, match)
		slots[i] = &r
	})
	return compact(slots)
}
