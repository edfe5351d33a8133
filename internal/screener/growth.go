package screener

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/query"
)

// GrowthOptions configures a growth screen.
type GrowthOptions struct {
	Region string
	TopN   int
	Sector string
}

// GrowthScreener ranks growth-preset candidates by EPS growth, with no value
// constraint.
type GrowthScreener struct {
	deps
}

// NewGrowthScreener creates a GrowthScreener.
func NewGrowthScreener(source collector.QuoteSource, presets query.Presets, cfg Config, log zerolog.Logger) *GrowthScreener {
	return &GrowthScreener{deps: newDeps(source, presets, cfg, log, "growth")}
}

// Screen returns up to opts.TopN symbols with positive EPS growth, fastest
// growing first.
func (s *GrowthScreener) Screen(ctx context.Context, opts GrowthOptions) ([]model.RankedResult, error) {
	criteria, err := s.presets.Get("growth")
	if err != nil {
		return nil, err
	}
	if opts.TopN <= 0 {
		return empty(), nil
	}

	filter := query.BuildQuery(criteria, opts.Region, "", opts.Sector)
	quotes := s.fetchCandidates(ctx, filter, overFetch(opts.TopN, 3, 60), DefaultSortField, false)
	if len(quotes) == 0 {
		return empty(), nil
	}

	slots := make([]*model.RankedResult, len(quotes))
	s.forEach(ctx, len(quotes), func(ctx context.Context, i int) {
		q := quotes[i]
		detail, err := s.source.GetStockDetail(ctx, q.Symbol)
		if err != nil || detail == nil {
			s.log.Debug().Err(err).Str("symbol", q.Symbol).Msg("skipping symbol without detail")
			return
		}
		if detail.EPSGrowth == nil || *detail.EPSGrowth <= 0 {
			return
		}
		r := model.FromQuote(q)
		r.EPSGrowth = model.Float(*detail.EPSGrowth)
		if r.RevenueGrowth == nil && detail.RevenueGrowth != nil {
			r.RevenueGrowth = model.Float(*detail.RevenueGrowth)
		}
		slots[i] = &r
	})

	results := compact(slots)
	sort.SliceStable(results, func(i, j int) bool {
		return model.Value(results[i].EPSGrowth) > model.Value(results[j].EPSGrowth)
	})
	s.log.Info().Str("region", opts.Region).Int("candidates", len(quotes)).Int("growing", len(results)).Msg("growth screen complete")
	return truncate(results, opts.TopN), nil
}
