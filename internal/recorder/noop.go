package recorder

import (
	"context"

	"ScreenSentinel/internal/model"
)

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(context.Context, *Run) error { return nil }
func (n *NoopRecorder) RecentRuns(context.Context, int) ([]RunSummary, error) {
	return nil, nil
}
func (n *NoopRecorder) RunResults(context.Context, string) ([]model.RankedResult, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
