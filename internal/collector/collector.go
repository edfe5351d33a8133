package collector

import (
	"context"
	"sync"
	"time"

	"ScreenSentinel/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
// Symbols missing from a map yield ErrNotFound. It is safe for concurrent use.
type MockSource struct {
	Quotes    []model.RawQuote
	ScreenErr error
	Details   map[string]*model.StockDetail
	Histories map[string]*model.PriceSeries
	Infos     map[string]*model.RawQuote
	// Errs fails any per-symbol call for the listed symbols.
	Errs map[string]error

	mu          sync.Mutex
	calls       map[string]int
	lastFilter  model.Filter
	lastRequest ScreenRequest
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

// Calls returns how many times op was invoked.
func (m *MockSource) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// LastScreen returns the filter and request of the most recent ScreenStocks call.
func (m *MockSource) LastScreen() (model.Filter, ScreenRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFilter, m.lastRequest
}

func (m *MockSource) ScreenStocks(_ context.Context, filter model.Filter, req ScreenRequest) ([]model.RawQuote, error) {
	m.record("ScreenStocks")
	m.mu.Lock()
	m.lastFilter, m.lastRequest = filter, req
	m.mu.Unlock()

	if m.ScreenErr != nil {
		return nil, m.ScreenErr
	}
	out := append([]model.RawQuote(nil), m.Quotes...)
	if req.MaxResults > 0 && len(out) > req.MaxResults {
		out = out[:req.MaxResults]
	}
	return out, nil
}

func (m *MockSource) GetStockDetail(_ context.Context, symbol string) (*model.StockDetail, error) {
	m.record("GetStockDetail")
	if err := m.Errs[symbol]; err != nil {
		return nil, err
	}
	d, ok := m.Details[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *MockSource) GetPriceHistory(_ context.Context, symbol string) (*model.PriceSeries, error) {
	m.record("GetPriceHistory")
	if err := m.Errs[symbol]; err != nil {
		return nil, err
	}
	s, ok := m.Histories[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *MockSource) GetStockInfo(_ context.Context, symbol string) (*model.RawQuote, error) {
	m.record("GetStockInfo")
	if err := m.Errs[symbol]; err != nil {
		return nil, err
	}
	q, ok := m.Infos[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

// GenerateBars builds count daily bars drifting by step per day from
// basePrice, ending yesterday.
func GenerateBars(basePrice, step float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	end := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i)*step)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
