package screener

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/indicator"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/query"
	"ScreenSentinel/internal/technical"
)

// DefaultSortField orders provider results by market capitalisation.
const DefaultSortField = "intradaymarketcap"

// Config holds the tunables shared by the screeners.
type Config struct {
	// Concurrency caps parallel per-symbol fetches; 1 runs them in sequence.
	Concurrency int
	PageSize    int

	Technical technical.Config
	Match     technical.MatchPolicy
	Change    indicator.ChangeConfig

	PullbackCriteria     model.ScreeningCriteria
	PullbackBonusFull    float64
	PullbackBonusPartial float64

	UndervaluedThreshold float64
	FairValueThreshold   float64
}

// DefaultConfig returns the standard screening parameters.
func DefaultConfig() Config {
	return Config{
		Concurrency: 4,
		PageSize:    collector.MaxPageSize,
		Technical:   technical.DefaultConfig(),
		Match:       technical.DefaultMatchPolicy(),
		Change:      indicator.DefaultChangeConfig(),
		PullbackCriteria: model.ScreeningCriteria{
			MaxPER:           model.Float(20),
			MinROE:           model.Float(0.08),
			MinRevenueGrowth: model.Float(0.05),
		},
		PullbackBonusFull:    10,
		PullbackBonusPartial: 5,
		UndervaluedThreshold: 60,
		FairValueThreshold:   30,
	}
}

// deps is what every screener needs.
type deps struct {
	source  collector.QuoteSource
	presets query.Presets
	cfg     Config
	log     zerolog.Logger
}

func newDeps(source collector.QuoteSource, presets query.Presets, cfg Config, log zerolog.Logger, name string) deps {
	if presets == nil {
		presets = query.DefaultPresets()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PageSize <= 0 || cfg.PageSize > collector.MaxPageSize {
		cfg.PageSize = collector.MaxPageSize
	}
	return deps{
		source:  source,
		presets: presets,
		cfg:     cfg,
		log:     log.With().Str("component", "screener").Str("screener", name).Logger(),
	}
}

// resolveCriteria gives explicit criteria priority over a preset.
func (d deps) resolveCriteria(criteria *model.ScreeningCriteria, preset string) (model.ScreeningCriteria, error) {
	if criteria != nil {
		return *criteria, nil
	}
	if preset != "" {
		return d.presets.Get(preset)
	}
	return model.ScreeningCriteria{}, nil
}

// fetchCandidates runs the provider query and normalizes the results. A
// provider failure yields no candidates rather than an error.
func (d deps) fetchCandidates(ctx context.Context, filter model.Filter, maxResults int, sortField string, sortAsc bool) []model.Quote {
	if sortField == "" {
		sortField = DefaultSortField
	}
	raw, err := d.source.ScreenStocks(ctx, filter, collector.ScreenRequest{
		Size:       d.cfg.PageSize,
		MaxResults: maxResults,
		SortField:  sortField,
		SortAsc:    sortAsc,
	})
	if err != nil {
		d.log.Warn().Err(err).Int("partial", len(raw)).Msg("provider query failed")
		if len(raw) == 0 {
			return nil
		}
	}
	if len(raw) == 0 {
		d.log.Warn().Msg("provider returned no candidates")
		return nil
	}

	quotes := make([]model.Quote, 0, len(raw))
	for _, r := range raw {
		if r.Symbol == "" {
			continue
		}
		quotes = append(quotes, NormalizeQuote(r))
	}
	d.log.Debug().Int("candidates", len(quotes)).Msg("candidates fetched")
	return quotes
}

// forEach runs fn for every index in [0, n) with at most Concurrency calls in
// flight. fn reports its own outcome by writing to an index-owned slot, so a
// failing symbol never cancels its siblings.
func (d deps) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

// assessPullback fetches history for symbol and runs the detector. A nil
// assessment with a nil error means the series was too short.
func (d deps) assessPullback(ctx context.Context, symbol string) (*model.PullbackAssessment, error) {
	series, err := d.source.GetPriceHistory(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if series == nil || series.Len() == 0 {
		return nil, collector.ErrNotFound
	}
	return technical.DetectPullbackInUptrend(*series, d.cfg.Technical), nil
}

func overFetch(topN, multiplier, floor int) int {
	n := topN * multiplier
	if n < floor {
		return floor
	}
	return n
}

func truncate(results []model.RankedResult, topN int) []model.RankedResult {
	if topN < 0 {
		topN = 0
	}
	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

func empty() []model.RankedResult { return []model.RankedResult{} }

// compact drops the unset slots of a fan-out result.
func compact(slots []*model.RankedResult) []model.RankedResult {
	out := make([]model.RankedResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// sortByValueScore orders by value score, highest first. Ties keep provider order.
func sortByValueScore(results []model.RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
}

// sortByMatch puts full matches before partial ones, then orders by value score.
func sortByMatch(results []model.RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i].MatchType.Rank(), results[j].MatchType.Rank()
		if ri != rj {
			return ri < rj
		}
		return results[i].Score() > results[j].Score()
	})
}
