package collector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ScreenSentinel/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *YahooClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewYahooClient("",
		WithBaseURL(srv.URL),
		WithCookieURL(srv.URL+"/cookie"),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000),
		WithPageInterval(0),
	)
}

func crumbHandler(mux *http.ServeMux, crumbCalls *int32) {
	mux.HandleFunc("/cookie", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session"})
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(crumbCalls, 1)
		_, _ = io.WriteString(w, "crumb123")
	})
}

func TestYahooQuery(t *testing.T) {
	f := model.And(
		model.Or(model.Eq(model.FieldRegion, "sg"), model.Eq(model.FieldRegion, "th")),
		model.Lt(model.FieldPER, 15),
		model.Gt(model.FieldROE, 0.08),
		model.Gt(model.FieldDividendYield, 0.03),
	)
	q, err := yahooQuery(f)
	require.NoError(t, err)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"operator": "AND",
		"operands": [
			{"operator": "OR", "operands": [
				{"operator": "EQ", "operands": ["region", "sg"]},
				{"operator": "EQ", "operands": ["region", "th"]}
			]},
			{"operator": "LT", "operands": ["peratio.lasttwelvemonths", 15]},
			{"operator": "GT", "operands": ["returnonequity.lasttwelvemonths", 8]},
			{"operator": "GT", "operands": ["forward_dividend_yield", 3]}
		]
	}`, string(data))

	_, err = yahooQuery(model.Gt("beta", 1))
	assert.Error(t, err)
}

func TestYahooClient_ScreenStocks(t *testing.T) {
	var crumbCalls int32
	var bodies []screenerRequest
	mux := http.NewServeMux()
	crumbHandler(mux, &crumbCalls)
	mux.HandleFunc("/v1/finance/screener", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "crumb123", r.URL.Query().Get("crumb"))
		var body screenerRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		bodies = append(bodies, body)

		quotes := []map[string]any{}
		for i := body.Offset; i < body.Offset+body.Size && i < 3; i++ {
			quotes = append(quotes, map[string]any{
				"symbol":        []string{"7203.T", "6758.T", "8306.T"}[i],
				"shortName":     "Name",
				"trailingPE":    10.5,
				"dividendYield": 3.2,
				"exchange":      "JPX",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"finance": map[string]any{
				"result": []any{map[string]any{"total": 3, "count": len(quotes), "quotes": quotes}},
				"error":  nil,
			},
		})
	})
	c := newTestClient(t, mux)

	out, err := c.ScreenStocks(context.Background(), model.Eq(model.FieldRegion, "jp"),
		ScreenRequest{Size: 2, MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "7203.T", out[0].Symbol)
	assert.Equal(t, 10.5, *out[0].TrailingPE)
	assert.Equal(t, 3.2, *out[0].DividendYield)
	assert.Nil(t, out[0].PriceToBook)

	require.Len(t, bodies, 2)
	assert.Equal(t, 0, bodies[0].Offset)
	assert.Equal(t, 2, bodies[1].Offset)
	assert.Equal(t, "intradaymarketcap", bodies[0].SortField)
	assert.Equal(t, "DESC", bodies[0].SortType)
	assert.Equal(t, "EQUITY", bodies[0].QuoteType)
	assert.Equal(t, int32(1), atomic.LoadInt32(&crumbCalls))
}

func TestYahooClient_ScreenStocksAPIError(t *testing.T) {
	var crumbCalls int32
	mux := http.NewServeMux()
	crumbHandler(mux, &crumbCalls)
	mux.HandleFunc("/v1/finance/screener", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"finance":{"error":{"code":"Unauthorized"}}}`)
	})
	c := newTestClient(t, mux)

	_, err := c.ScreenStocks(context.Background(), model.Eq(model.FieldRegion, "us"), ScreenRequest{Size: 10})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// crumb is refreshed after a 401
	_, _ = c.ScreenStocks(context.Background(), model.Eq(model.FieldRegion, "us"), ScreenRequest{Size: 10})
	assert.Equal(t, int32(2), atomic.LoadInt32(&crumbCalls))
}

const summaryJSON = `{"quoteSummary":{"result":[{
	"price":{"symbol":"7203.T","shortName":"TOYOTA","currency":"JPY","exchange":"JPX",
		"regularMarketPrice":{"raw":2800,"fmt":"2,800"},"marketCap":{"raw":4000000,"fmt":"4M"}},
	"summaryDetail":{"trailingPE":{"raw":9.5},"forwardPE":{"raw":8.7},"dividendYield":{"raw":0.028},
		"trailingAnnualDividendYield":{"raw":0.026}},
	"defaultKeyStatistics":{"priceToBook":{"raw":1.1}},
	"financialData":{"targetMeanPrice":{"raw":3300},"numberOfAnalystOpinions":{"raw":18},
		"earningsGrowth":{"raw":0.12},"revenueGrowth":{"raw":0.07},"returnOnEquity":{"raw":0.11},
		"freeCashflow":{"raw":250000},"operatingCashflow":{"raw":400000}},
	"assetProfile":{"sector":"Consumer Cyclical","industry":"Auto Manufacturers"},
	"incomeStatementHistory":{"incomeStatementHistory":[
		{"totalRevenue":{"raw":1300},"netIncome":{"raw":130}},
		{"totalRevenue":{"raw":1100},"netIncome":{"raw":110}},
		{"totalRevenue":{"raw":1000},"netIncome":{}}]},
	"balanceSheetHistory":{"balanceSheetStatements":[
		{"totalAssets":{"raw":9000},"totalStockholderEquity":{"raw":1000}},
		{"totalAssets":{"raw":8500},"totalStockholderEquity":{"raw":950}}]},
	"cashflowStatementHistory":{"cashflowStatements":[
		{"dividendsPaid":{"raw":-60},"repurchaseOfStock":{"raw":-40}},
		{"dividendsPaid":{"raw":-55}}]}
}],"error":null}}`

func summaryMux(crumbCalls *int32) *http.ServeMux {
	mux := http.NewServeMux()
	crumbHandler(mux, crumbCalls)
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/MISSING") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"quoteSummary":{"result":null,"error":{"code":"Not Found"}}}`)
			return
		}
		_, _ = io.WriteString(w, summaryJSON)
	})
	return mux
}

func TestYahooClient_GetStockInfo(t *testing.T) {
	var crumbCalls int32
	c := newTestClient(t, summaryMux(&crumbCalls))

	q, err := c.GetStockInfo(context.Background(), "7203.T")
	require.NoError(t, err)
	assert.Equal(t, "7203.T", q.Symbol)
	assert.Equal(t, "TOYOTA", q.ShortName)
	assert.Equal(t, "Consumer Cyclical", q.Sector)
	assert.Equal(t, 9.5, *q.TrailingPE)
	assert.Equal(t, 1.1, *q.PriceToBook)
	// percent, matching screener results
	assert.InDelta(t, 2.8, *q.DividendYield, 1e-9)
	assert.Equal(t, 0.026, *q.TrailingAnnualDividendYield)

	_, err = c.GetStockInfo(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestYahooClient_GetStockDetail(t *testing.T) {
	var crumbCalls int32
	c := newTestClient(t, summaryMux(&crumbCalls))

	d, err := c.GetStockDetail(context.Background(), "7203.T")
	require.NoError(t, err)
	assert.Equal(t, "TOYOTA", d.Name)
	assert.Equal(t, 18, *d.AnalystCount)
	assert.Equal(t, 0.12, *d.EPSGrowth)
	assert.Equal(t, 250000.0, *d.FreeCashflow)
	// history stops at the first incomplete statement
	assert.Equal(t, []float64{1300, 1100}, d.RevenueHistory)
	assert.Equal(t, []float64{130, 110}, d.NetIncomeHistory)
	assert.Equal(t, 130.0, *d.NetIncome)
	assert.Equal(t, 9000.0, *d.TotalAssets)
	assert.Equal(t, []float64{1000, 950}, d.EquityHistory)
	assert.Equal(t, []float64{-60, -55}, d.DividendsPaidHistory)
	assert.Equal(t, []float64{-40, 0}, d.RepurchaseHistory)

	_, err = c.GetStockDetail(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestYahooClient_GetPriceHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		if strings.HasSuffix(r.URL.Path, "/EMPTY") {
			_, _ = io.WriteString(w, `{"chart":{"result":[],"error":null}}`)
			return
		}
		_, _ = io.WriteString(w, `{"chart":{"result":[{
			"timestamp":[1700172800,1700000000,1700086400],
			"indicators":{"quote":[{
				"open":[12,10,null],"high":[13,11,null],"low":[11,9,null],
				"close":[12.5,10.5,null],"volume":[2000,1000,null]}]}}],"error":null}}`)
	})
	c := newTestClient(t, mux)

	s, err := c.GetPriceHistory(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	// sorted ascending, null bar skipped
	assert.Equal(t, []float64{10.5, 12.5}, s.Closes())
	assert.Equal(t, []float64{1000, 2000}, s.Volumes())
	assert.Equal(t, "AAPL", s.Symbol)

	_, err = c.GetPriceHistory(context.Background(), "EMPTY")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockSource(t *testing.T) {
	m := &MockSource{
		Quotes: []model.RawQuote{{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"}},
		Infos:  map[string]*model.RawQuote{"A": {Symbol: "A"}},
		Errs:   map[string]error{"B": errors.New("timeout")},
	}
	out, err := m.ScreenStocks(context.Background(), model.Eq(model.FieldRegion, "us"), ScreenRequest{MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	f, req := m.LastScreen()
	assert.Equal(t, "us", f.Value)
	assert.Equal(t, 2, req.MaxResults)

	_, err = m.GetStockInfo(context.Background(), "A")
	assert.NoError(t, err)
	_, err = m.GetStockInfo(context.Background(), "B")
	assert.EqualError(t, err, "timeout")
	_, err = m.GetStockDetail(context.Background(), "A")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, m.Calls("GetStockInfo"))
	assert.Equal(t, 1, m.Calls("ScreenStocks"))

	bars := GenerateBars(100, 0.001, 10)
	assert.Len(t, bars, 10)
	assert.True(t, bars[0].Time.Before(bars[9].Time))
}
