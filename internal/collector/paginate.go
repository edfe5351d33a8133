package collector

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"ScreenSentinel/internal/model"
)

// page is one slice of screener results plus the provider's total match count.
type page struct {
	Quotes []model.RawQuote
	Total  int
}

type pageFetcher func(ctx context.Context, offset, size int) (page, error)

// paginate collects pages until MaxResults is reached, the provider reports
// exhaustion, or a page comes back short. The first request spends the
// limiter's burst token so every later page waits a full interval.
func paginate(ctx context.Context, req ScreenRequest, limiter *rate.Limiter, fetch pageFetcher) ([]model.RawQuote, error) {
	size := req.Size
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}

	var out []model.RawQuote
	offset := 0
	for {
		want := size
		if req.MaxResults > 0 {
			remaining := req.MaxResults - len(out)
			if remaining <= 0 {
				break
			}
			if remaining < want {
				want = remaining
			}
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return out, fmt.Errorf("page pacing: %w", err)
			}
		}

		p, err := fetch(ctx, offset, want)
		if err != nil {
			if len(out) > 0 {
				// keep what earlier pages returned
				return out, fmt.Errorf("page at offset %d: %w", offset, err)
			}
			return nil, err
		}
		out = append(out, p.Quotes...)
		offset += len(p.Quotes)

		if len(p.Quotes) < want {
			break
		}
		if p.Total > 0 && offset >= p.Total {
			break
		}
	}

	if req.MaxResults > 0 && len(out) > req.MaxResults {
		out = out[:req.MaxResults]
	}
	return out, nil
}
