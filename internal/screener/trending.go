package screener

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/indicator"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/query"
	"ScreenSentinel/internal/trending"
)

// TrendingOptions configures a trending screen. Theme narrows discovery to a
// topic such as "AI" or "semiconductors".
type TrendingOptions struct {
	Region string
	Theme  string
	TopN   int
}

// TrendingReport is the outcome of a trending screen.
type TrendingReport struct {
	Results       []model.RankedResult
	MarketContext string
}

// TrendingScreener enriches names surfaced by a discovery source with
// fundamentals and buckets them by value score.
type TrendingScreener struct {
	deps
	discovery trending.Source
}

// NewTrendingScreener creates a TrendingScreener.
func NewTrendingScreener(source collector.QuoteSource, discovery trending.Source, presets query.Presets, cfg Config, log zerolog.Logger) *TrendingScreener {
	if discovery == nil {
		discovery = trending.NoopSource{}
	}
	return &TrendingScreener{deps: newDeps(source, presets, cfg, log, "trending"), discovery: discovery}
}

// Classify buckets a value score.
func (s *TrendingScreener) Classify(score float64) model.Classification {
	switch {
	case score >= s.cfg.UndervaluedThreshold:
		return model.ClassUndervalued
	case score >= s.cfg.FairValueThreshold:
		return model.ClassFair
	default:
		return model.ClassOvervalued
	}
}

// Screen discovers trending names and classifies each. Names whose
// fundamentals cannot be fetched stay in the output with a zero score.
func (s *TrendingScreener) Screen(ctx context.Context, opts TrendingOptions) (TrendingReport, error) {
	report := TrendingReport{Results: empty()}
	if opts.TopN <= 0 {
		return report, nil
	}

	found, err := s.discovery.SearchTrending(ctx, opts.Region, opts.Theme)
	if err != nil {
		s.log.Warn().Err(err).Str("region", opts.Region).Msg("trending discovery failed")
		return report, nil
	}
	report.MarketContext = found.MarketContext

	items := make([]model.TrendingItem, 0, len(found.Stocks))
	for _, it := range found.Stocks {
		if it.Ticker != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		s.log.Info().Str("region", opts.Region).Msg("no trending names found")
		return report, nil
	}

	thresholds := indicator.DefaultThresholds()
	results := make([]model.RankedResult, len(items))
	s.forEach(ctx, len(items), func(ctx context.Context, i int) {
		it := items[i]
		raw, err := s.source.GetStockInfo(ctx, it.Ticker)
		if err != nil || raw == nil {
			s.log.Debug().Err(err).Str("symbol", it.Ticker).Msg("no fundamentals for trending name")
			results[i] = model.RankedResult{
				Symbol:         it.Ticker,
				Name:           it.Name,
				TrendingReason: it.Reason,
				ValueScore:     model.Float(0),
				Classification: model.ClassInsufficientData,
			}
			return
		}

		q := NormalizeQuote(*raw)
		if q.Symbol == "" {
			q.Symbol = it.Ticker
		}
		if q.Name == "" {
			q.Name = it.Name
		}
		score := indicator.CalculateValueScore(q, thresholds)
		r := model.FromQuote(q)
		r.TrendingReason = it.Reason
		r.ValueScore = model.Float(score)
		r.Classification = s.Classify(score)
		results[i] = r
	})

	sort.SliceStable(results, func(i, j int) bool {
		ci, cj := results[i].Classification.Rank(), results[j].Classification.Rank()
		if ci != cj {
			return ci < cj
		}
		return results[i].Score() > results[j].Score()
	})
	report.Results = truncate(results, opts.TopN)
	s.log.Info().Str("region", opts.Region).Int("trending", len(items)).Msg("trending screen complete")
	return report, nil
}
