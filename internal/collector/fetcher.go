package collector

import (
	"context"
	"errors"

	"ScreenSentinel/internal/model"
)

// ErrNotFound is returned when the provider has no data for a symbol.
var ErrNotFound = errors.New("symbol not found")

// MaxPageSize is the largest page the screener endpoint serves.
const MaxPageSize = 250

// ScreenRequest controls paging and ordering of a screener query.
// MaxResults of 0 means no limit.
type ScreenRequest struct {
	Size       int
	MaxResults int
	SortField  string
	SortAsc    bool
}

// QuoteSource defines the interface for fetching quotes and fundamentals.
// Every call is bounded by the implementation's own timeout.
type QuoteSource interface {
	ScreenStocks(ctx context.Context, filter model.Filter, req ScreenRequest) ([]model.RawQuote, error)
	GetStockDetail(ctx context.Context, symbol string) (*model.StockDetail, error)
	GetPriceHistory(ctx context.Context, symbol string) (*model.PriceSeries, error)
	GetStockInfo(ctx context.Context, symbol string) (*model.RawQuote, error)
	Name() string
}
