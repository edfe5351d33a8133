package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ScreenSentinel/internal/model"
)

// Run is one completed screening invocation and its ranked rows.
type Run struct {
	ID        string
	Screener  string
	Region    string
	Preset    string
	TopN      int
	StartedAt time.Time
	Results   []model.RankedResult
}

// NewRun stamps a run with a fresh identifier and the current time.
func NewRun(screener, region, preset string, topN int, results []model.RankedResult) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Screener:  screener,
		Region:    region,
		Preset:    preset,
		TopN:      topN,
		StartedAt: time.Now().UTC(),
		Results:   results,
	}
}

// RunSummary describes a stored run without its rows.
type RunSummary struct {
	ID          string
	Screener    string
	Region      string
	Preset      string
	TopN        int
	ResultCount int
	StartedAt   time.Time
	// TopSymbols holds up to the first three ranked symbols.
	TopSymbols []string
}

// Recorder persists screening history.
type Recorder interface {
	RecordRun(ctx context.Context, run *Run) error
	RecentRuns(ctx context.Context, limit int) ([]RunSummary, error)
	RunResults(ctx context.Context, runID string) ([]model.RankedResult, error)
	Close() error
}

// PrimaryScore is the figure a screener ranked by, used for the score column.
func PrimaryScore(r model.RankedResult) *float64 {
	switch {
	case r.TotalScore != nil:
		return r.TotalScore
	case r.FinalScore != nil:
		return r.FinalScore
	case r.ValueScore != nil:
		return r.ValueScore
	default:
		return r.EPSGrowth
	}
}
