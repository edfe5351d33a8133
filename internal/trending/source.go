package trending

import (
	"context"

	"ScreenSentinel/internal/model"
)

// Source discovers tickers currently attracting attention, each with a short
// qualitative reason.
type Source interface {
	SearchTrending(ctx context.Context, region, theme string) (model.TrendingResult, error)
}

// NoopSource is used when no discovery backend is configured.
type NoopSource struct{}

func (NoopSource) SearchTrending(context.Context, string, string) (model.TrendingResult, error) {
	return model.TrendingResult{}, nil
}
