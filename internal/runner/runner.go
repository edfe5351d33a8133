package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/formatter"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/query"
	"ScreenSentinel/internal/recorder"
	"ScreenSentinel/internal/screener"
	"ScreenSentinel/internal/trending"
)

// Kind names a screener.
type Kind string

const (
	KindValue    Kind = "value"
	KindQuery    Kind = "query"
	KindPullback Kind = "pullback"
	KindAlpha    Kind = "alpha"
	KindGrowth   Kind = "growth"
	KindTrending Kind = "trending"
)

// Kinds lists every screener kind.
func Kinds() []Kind {
	return []Kind{KindValue, KindQuery, KindPullback, KindAlpha, KindGrowth, KindTrending}
}

// ParseKind resolves a screener name case-insensitively.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown screener %q", name)
}

// Request selects a screener and its options. Fields a screener does not use
// are ignored.
type Request struct {
	Kind         Kind
	Region       string
	TopN         int
	Preset       string
	Criteria     *model.ScreeningCriteria
	Exchange     string
	Sector       string
	Theme        string
	Symbols      []string
	SortField    string
	SortAsc      bool
	WithPullback bool
}

// Report is a finished screen.
type Report struct {
	RunID         string
	Request       Request
	Results       []model.RankedResult
	MarketContext string
	Markdown      string
}

// Runner dispatches requests to the screeners and records every run.
type Runner struct {
	value    *screener.ValueScreener
	query    *screener.QueryScreener
	pullback *screener.PullbackScreener
	alpha    *screener.AlphaScreener
	growth   *screener.GrowthScreener
	trending *screener.TrendingScreener

	rec recorder.Recorder
	log zerolog.Logger
}

// New wires every screener to the same source and configuration. A nil
// recorder disables history.
func New(source collector.QuoteSource, discovery trending.Source, presets query.Presets, cfg screener.Config, rec recorder.Recorder, log zerolog.Logger) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{
		value:    screener.NewValueScreener(source, presets, cfg, log),
		query:    screener.NewQueryScreener(source, presets, cfg, log),
		pullback: screener.NewPullbackScreener(source, presets, cfg, log),
		alpha:    screener.NewAlphaScreener(source, presets, cfg, log),
		growth:   screener.NewGrowthScreener(source, presets, cfg, log),
		trending: screener.NewTrendingScreener(source, discovery, presets, cfg, log),
		rec:      rec,
		log:      log.With().Str("component", "runner").Logger(),
	}
}

// Run executes req, renders the results and records the run. A recording
// failure is logged and does not fail the run.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	if _, err := ParseKind(string(req.Kind)); err != nil {
		return nil, err
	}
	report := &Report{Request: req}

	var err error
	switch req.Kind {
	case KindValue:
		report.Results, err = r.value.Screen(ctx, screener.ValueOptions{
			Market:   req.Region,
			Symbols:  req.Symbols,
			Criteria: req.Criteria,
			Preset:   req.Preset,
			TopN:     req.TopN,
		})
		report.Markdown = formatter.Value(report.Results)
	case KindQuery:
		report.Results, err = r.query.Screen(ctx, screener.QueryOptions{
			Region:       req.Region,
			Criteria:     req.Criteria,
			Preset:       req.Preset,
			Exchange:     req.Exchange,
			Sector:       req.Sector,
			TopN:         req.TopN,
			SortField:    req.SortField,
			SortAsc:      req.SortAsc,
			WithPullback: req.WithPullback,
		})
		report.Markdown = formatter.Query(report.Results)
	case KindPullback:
		report.Results, err = r.pullback.Screen(ctx, screener.PullbackOptions{
			Region:   req.Region,
			TopN:     req.TopN,
			Criteria: req.Criteria,
		})
		report.Markdown = formatter.Pullback(report.Results)
	case KindAlpha:
		report.Results, err = r.alpha.Screen(ctx, screener.AlphaOptions{Region: req.Region, TopN: req.TopN})
		report.Markdown = formatter.Alpha(report.Results)
	case KindGrowth:
		report.Results, err = r.growth.Screen(ctx, screener.GrowthOptions{Region: req.Region, TopN: req.TopN, Sector: req.Sector})
		report.Markdown = formatter.Growth(report.Results)
	case KindTrending:
		var tr screener.TrendingReport
		tr, err = r.trending.Screen(ctx, screener.TrendingOptions{Region: req.Region, Theme: req.Theme, TopN: req.TopN})
		report.Results, report.MarketContext = tr.Results, tr.MarketContext
		report.Markdown = formatter.Trending(tr.Results, tr.MarketContext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s screen: %w", req.Kind, err)
	}

	run := recorder.NewRun(string(req.Kind), req.Region, req.Preset, req.TopN, report.Results)
	report.RunID = run.ID
	if err := r.rec.RecordRun(ctx, run); err != nil {
		r.log.Warn().Err(err).Str("run_id", run.ID).Msg("failed to record run")
	}

	r.log.Info().
		Str("screener", string(req.Kind)).
		Str("region", req.Region).
		Int("results", len(report.Results)).
		Str("run_id", run.ID).
		Msg("screen finished")
	return report, nil
}

// History renders the most recent runs.
func (r *Runner) History(ctx context.Context, limit int) (string, error) {
	runs, err := r.rec.RecentRuns(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	return formatter.History(runs), nil
}
