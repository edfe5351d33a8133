package screener

import (
	"context"

	"github.com/rs/zerolog"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/indicator"
	"ScreenSentinel/internal/market"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/query"
)

// ValueOptions configures a legacy value screen.
type ValueOptions struct {
	Market string
	// Symbols defaults to the market's default list.
	Symbols  []string
	Criteria *model.ScreeningCriteria
	Preset   string
	TopN     int
}

// ValueScreener fetches a fixed symbol list one symbol at a time and ranks by
// value score.
//
// Deprecated: use QueryScreener, which filters on the provider side.
type ValueScreener struct {
	deps
}

// NewValueScreener creates a ValueScreener.
func NewValueScreener(source collector.QuoteSource, presets query.Presets, cfg Config, log zerolog.Logger) *ValueScreener {
	return &ValueScreener{deps: newDeps(source, presets, cfg, log, "value")}
}

// Screen returns up to opts.TopN symbols that pass the criteria, ordered by
// value score.
func (s *ValueScreener) Screen(ctx context.Context, opts ValueOptions) ([]model.RankedResult, error) {
	s.log.Warn().Msg("value screener is deprecated, use the query screener")
	criteria, err := s.resolveCriteria(opts.Criteria, opts.Preset)
	if err != nil {
		return nil, err
	}
	if opts.TopN <= 0 {
		return empty(), nil
	}

	m := market.Resolve(opts.Market)
	symbols := opts.Symbols
	if symbols == nil {
		symbols = m.DefaultSymbols
	}
	if len(symbols) == 0 {
		return empty(), nil
	}

	slots := make([]*model.RankedResult, len(symbols))
	s.forEach(ctx, len(symbols), func(ctx context.Context, i int) {
		symbol := m.FormatTicker(symbols[i])
		raw, err := s.source.GetStockInfo(ctx, symbol)
		if err != nil || raw == nil {
			s.log.Debug().Err(err).Str("symbol", symbol).Msg("skipping symbol without info")
			return
		}
		if raw.Symbol == "" {
			raw.Symbol = symbol
		}
		q := NormalizeQuote(*raw)
		r := model.FromQuote(q)
		if !indicator.ApplyFilters(r, criteria) {
			return
		}
		r.ValueScore = model.Float(indicator.CalculateValueScore(q, m.Thresholds))
		slots[i] = &r
	})

	results := compact(slots)
	sortByValueScore(results)
	s.log.Info().Int("symbols", len(symbols)).Int("passed", len(results)).Msg("value screen complete")
	return truncate(results, opts.TopN), nil
}
