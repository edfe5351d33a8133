package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"ScreenSentinel/internal/model"
)

// fakeProvider serves total quotes in pages and records each request.
type fakeProvider struct {
	total    int
	requests [][2]int
	at       []time.Time
	failAt   int
}

func (f *fakeProvider) fetch(_ context.Context, offset, size int) (page, error) {
	f.requests = append(f.requests, [2]int{offset, size})
	f.at = append(f.at, time.Now())
	if f.failAt > 0 && len(f.requests) == f.failAt {
		return page{}, errors.New("boom")
	}
	var quotes []model.RawQuote
	for i := offset; i < offset+size && i < f.total; i++ {
		quotes = append(quotes, model.RawQuote{Symbol: fmt.Sprintf("S%03d", i)})
	}
	return page{Quotes: quotes, Total: f.total}, nil
}

func TestPaginate_StopsAtMaxResults(t *testing.T) {
	p := &fakeProvider{total: 1000}
	out, err := paginate(context.Background(), ScreenRequest{Size: 250, MaxResults: 300}, nil, p.fetch)
	require.NoError(t, err)
	assert.Len(t, out, 300)
	assert.Equal(t, [][2]int{{0, 250}, {250, 50}}, p.requests)
	assert.Equal(t, "S299", out[299].Symbol)
}

func TestPaginate_ProviderExhausted(t *testing.T) {
	p := &fakeProvider{total: 120}
	out, err := paginate(context.Background(), ScreenRequest{Size: 50, MaxResults: 500}, nil, p.fetch)
	require.NoError(t, err)
	assert.Len(t, out, 120)
	// third page comes back short
	assert.Len(t, p.requests, 3)
}

func TestPaginate_ExactTotalStopsWithoutExtraRequest(t *testing.T) {
	p := &fakeProvider{total: 100}
	out, err := paginate(context.Background(), ScreenRequest{Size: 50}, nil, p.fetch)
	require.NoError(t, err)
	assert.Len(t, out, 100)
	assert.Len(t, p.requests, 2)
}

func TestPaginate_EmptyResult(t *testing.T) {
	p := &fakeProvider{total: 0}
	out, err := paginate(context.Background(), ScreenRequest{Size: 250, MaxResults: 100}, nil, p.fetch)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Len(t, p.requests, 1)
}

func TestPaginate_ClampsPageSize(t *testing.T) {
	p := &fakeProvider{total: 600}
	_, err := paginate(context.Background(), ScreenRequest{Size: 1000, MaxResults: 600}, nil, p.fetch)
	require.NoError(t, err)
	for _, r := range p.requests {
		assert.LessOrEqual(t, r[1], MaxPageSize)
	}
}

func TestPaginate_ErrorAfterFirstPageKeepsResults(t *testing.T) {
	p := &fakeProvider{total: 500, failAt: 2}
	out, err := paginate(context.Background(), ScreenRequest{Size: 100}, nil, p.fetch)
	assert.Error(t, err)
	assert.Len(t, out, 100)

	p = &fakeProvider{total: 500, failAt: 1}
	out, err = paginate(context.Background(), ScreenRequest{Size: 100}, nil, p.fetch)
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestPaginate_PacesPages(t *testing.T) {
	p := &fakeProvider{total: 30}
	interval := 50 * time.Millisecond
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	out, err := paginate(context.Background(), ScreenRequest{Size: 10}, limiter, p.fetch)
	require.NoError(t, err)
	assert.Len(t, out, 30)
	require.Len(t, p.at, 3)
	// allow a little timer slack
	minGap := interval - 5*time.Millisecond
	assert.GreaterOrEqual(t, p.at[1].Sub(p.at[0]), minGap)
	assert.GreaterOrEqual(t, p.at[2].Sub(p.at[1]), minGap)
}

func TestPaginate_CancelledContext(t *testing.T) {
	p := &fakeProvider{total: 100}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	out, err := paginate(ctx, ScreenRequest{Size: 10}, limiter, p.fetch)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
	assert.Empty(t, p.requests)
}
