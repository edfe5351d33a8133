package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"ScreenSentinel/internal/model"
)

const (
	// DefaultBaseURL serves the screener, quoteSummary and chart endpoints.
	DefaultBaseURL = "https://query2.finance.yahoo.com"

	// DefaultCookieURL hands out the session cookie the crumb is bound to.
	DefaultCookieURL = "https://fc.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default request rate (requests per second).
	DefaultRateLimit = 4

	// DefaultPageInterval is the pause between screener pages.
	DefaultPageInterval = time.Second

	// DefaultHistoryRange covers enough daily bars for a 200-day average.
	DefaultHistoryRange = "1y"

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// YahooClient implements QuoteSource against the public Yahoo Finance API.
type YahooClient struct {
	baseURL      string
	cookieURL    string
	historyRange string
	httpClient   *http.Client
	limiter      *rate.Limiter
	pageLimiter  *rate.Limiter
	log          zerolog.Logger

	mu    sync.Mutex
	crumb string
}

// Option configures the YahooClient.
type Option func(*YahooClient)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *YahooClient) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithCookieURL sets the URL used to obtain the session cookie.
func WithCookieURL(cookieURL string) Option {
	return func(c *YahooClient) { c.cookieURL = cookieURL }
}

// WithHTTPClient sets a custom HTTP client. It should carry a cookie jar.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *YahooClient) { c.httpClient = httpClient }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *YahooClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *YahooClient) { c.log = log.With().Str("component", "yahoo").Logger() }
}

// WithRateLimit caps requests per second across all endpoints.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *YahooClient) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithPageInterval sets the pause between screener pages. Zero disables it.
func WithPageInterval(d time.Duration) Option {
	return func(c *YahooClient) {
		if d <= 0 {
			c.pageLimiter = nil
			return
		}
		c.pageLimiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithHistoryRange sets the chart range used by GetPriceHistory.
func WithHistoryRange(r string) Option {
	return func(c *YahooClient) { c.historyRange = r }
}

// NewYahooClient creates a new Yahoo Finance client, optionally routed
// through an HTTP proxy.
func NewYahooClient(proxyURL string, opts ...Option) *YahooClient {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	jar, _ := cookiejar.New(nil)

	c := &YahooClient{
		baseURL:      DefaultBaseURL,
		cookieURL:    DefaultCookieURL,
		historyRange: DefaultHistoryRange,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
			Jar:       jar,
		},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		pageLimiter: rate.NewLimiter(rate.Every(DefaultPageInterval), 1),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *YahooClient) Name() string { return "yahoo" }

// APIError is a non-success response from Yahoo.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// ensureCrumb fetches the session cookie and crumb once per client.
func (c *YahooClient) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb, nil
	}

	// The cookie endpoint answers 404 but still sets the cookie.
	if req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cookieURL, nil); err == nil {
		req.Header.Set("User-Agent", userAgent)
		if resp, err := c.httpClient.Do(req); err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		} else {
			c.log.Debug().Err(err).Msg("cookie request failed")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", fmt.Errorf("create crumb request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("yahoo crumb read body: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "no crumb issued", Endpoint: "getcrumb"}
	}
	c.crumb = crumb
	return crumb, nil
}

func (c *YahooClient) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

// doJSON sends a request and decodes the JSON response into out.
func (c *YahooClient) doJSON(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		c.resetCrumb()
		fallthrough
	case resp.StatusCode != http.StatusOK:
		msg := string(data)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Endpoint: req.URL.Path}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// --- screener ---------------------------------------------------------------

type screenerRequest struct {
	Size       int            `json:"size"`
	Offset     int            `json:"offset"`
	SortField  string         `json:"sortField"`
	SortType   string         `json:"sortType"`
	QuoteType  string         `json:"quoteType"`
	Query      map[string]any `json:"query"`
	UserID     string         `json:"userId"`
	UserIDType string         `json:"userIdType"`
}

type screenerQuote struct {
	Symbol                      string   `json:"symbol"`
	ShortName                   string   `json:"shortName"`
	LongName                    string   `json:"longName"`
	Sector                      string   `json:"sector"`
	Industry                    string   `json:"industry"`
	Currency                    string   `json:"currency"`
	Exchange                    string   `json:"exchange"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice"`
	MarketCap                   *float64 `json:"marketCap"`
	TrailingPE                  *float64 `json:"trailingPE"`
	ForwardPE                   *float64 `json:"forwardPE"`
	PriceToBook                 *float64 `json:"priceToBook"`
	ReturnOnEquity              *float64 `json:"returnOnEquity"`
	DividendYield               *float64 `json:"dividendYield"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
	RevenueGrowth               *float64 `json:"revenueGrowth"`
	EarningsGrowth              *float64 `json:"earningsGrowth"`
}

func (q screenerQuote) raw() model.RawQuote {
	return model.RawQuote{
		Symbol:                      q.Symbol,
		ShortName:                   q.ShortName,
		LongName:                    q.LongName,
		Sector:                      q.Sector,
		Industry:                    q.Industry,
		Currency:                    q.Currency,
		Exchange:                    q.Exchange,
		RegularMarketPrice:          q.RegularMarketPrice,
		MarketCap:                   q.MarketCap,
		TrailingPE:                  q.TrailingPE,
		ForwardPE:                   q.ForwardPE,
		PriceToBook:                 q.PriceToBook,
		ReturnOnEquity:              q.ReturnOnEquity,
		DividendYield:               q.DividendYield,
		TrailingAnnualDividendYield: q.TrailingAnnualDividendYield,
		RevenueGrowth:               q.RevenueGrowth,
		EarningsGrowth:              q.EarningsGrowth,
	}
}

type screenerResponse struct {
	Finance struct {
		Result []struct {
			Total  int             `json:"total"`
			Count  int             `json:"count"`
			Quotes []screenerQuote `json:"quotes"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"finance"`
}

// ScreenStocks runs filter through the Yahoo screener, paging until
// req.MaxResults quotes are collected or the matches run out.
func (c *YahooClient) ScreenStocks(ctx context.Context, filter model.Filter, req ScreenRequest) ([]model.RawQuote, error) {
	query, err := yahooQuery(filter)
	if err != nil {
		return nil, err
	}
	sortField := req.SortField
	if sortField == "" {
		sortField = "intradaymarketcap"
	}
	sortType := "DESC"
	if req.SortAsc {
		sortType = "ASC"
	}

	return paginate(ctx, req, c.pageLimiter, func(ctx context.Context, offset, size int) (page, error) {
		crumb, err := c.ensureCrumb(ctx)
		if err != nil {
			return page{}, err
		}
		endpoint := fmt.Sprintf("%s/v1/finance/screener?crumb=%s&lang=en-US&region=US&formatted=false&corsDomain=finance.yahoo.com",
			c.baseURL, url.QueryEscape(crumb))
		body := screenerRequest{
			Size:       size,
			Offset:     offset,
			SortField:  sortField,
			SortType:   sortType,
			QuoteType:  "EQUITY",
			Query:      query,
			UserIDType: "guid",
		}

		var resp screenerResponse
		if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
			return page{}, err
		}
		if resp.Finance.Error != nil {
			return page{}, &APIError{StatusCode: http.StatusOK, Message: resp.Finance.Error.Description, Endpoint: "screener"}
		}
		if len(resp.Finance.Result) == 0 {
			return page{}, nil
		}

		result := resp.Finance.Result[0]
		quotes := make([]model.RawQuote, 0, len(result.Quotes))
		for _, q := range result.Quotes {
			quotes = append(quotes, q.raw())
		}
		c.log.Debug().Int("offset", offset).Int("count", len(quotes)).Int("total", result.Total).Msg("screener page")
		return page{Quotes: quotes, Total: result.Total}, nil
	})
}

// yahooFields maps filter fields to screener field names. Ratio fields are
// expressed in percent by the screener, hence the scale.
var yahooFields = map[string]struct {
	name  string
	scale float64
}{
	model.FieldRegion:        {"region", 1},
	model.FieldExchange:      {"exchange", 1},
	model.FieldSector:        {"sector", 1},
	model.FieldPER:           {"peratio.lasttwelvemonths", 1},
	model.FieldPBR:           {"pricebookratio.quarterly", 1},
	model.FieldDividendYield: {"forward_dividend_yield", 100},
	model.FieldROE:           {"returnonequity.lasttwelvemonths", 100},
	model.FieldRevenueGrowth: {"totalrevenues1yrgrowth.lasttwelvemonths", 100},
	model.FieldEPSGrowth:     {"epsgrowth.lasttwelvemonths", 100},
	model.FieldMarketCap:     {"intradaymarketcap", 1},
}

// yahooQuery converts a filter tree to the screener's JSON query form.
func yahooQuery(f model.Filter) (map[string]any, error) {
	if f.IsLogical() {
		operands := make([]any, 0, len(f.Operands))
		for _, op := range f.Operands {
			q, err := yahooQuery(op)
			if err != nil {
				return nil, err
			}
			operands = append(operands, q)
		}
		return map[string]any{"operator": strings.ToUpper(string(f.Op)), "operands": operands}, nil
	}

	field, ok := yahooFields[f.Field]
	if !ok {
		return nil, fmt.Errorf("yahoo query: unsupported field %q", f.Field)
	}
	value := f.Value
	if v, isNum := value.(float64); isNum {
		value = v * field.scale
	}
	return map[string]any{
		"operator": strings.ToUpper(string(f.Op)),
		"operands": []any{field.name, value},
	}, nil
}

// --- quoteSummary -----------------------------------------------------------

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type summaryResult struct {
	Price struct {
		Symbol             string   `json:"symbol"`
		ShortName          string   `json:"shortName"`
		LongName           string   `json:"longName"`
		Currency           string   `json:"currency"`
		Exchange           string   `json:"exchange"`
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
		MarketCap          rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail struct {
		TrailingPE                  rawValue `json:"trailingPE"`
		ForwardPE                   rawValue `json:"forwardPE"`
		DividendYield               rawValue `json:"dividendYield"`
		TrailingAnnualDividendYield rawValue `json:"trailingAnnualDividendYield"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		PriceToBook rawValue `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		TargetMeanPrice         rawValue `json:"targetMeanPrice"`
		TargetHighPrice         rawValue `json:"targetHighPrice"`
		TargetLowPrice          rawValue `json:"targetLowPrice"`
		NumberOfAnalystOpinions rawValue `json:"numberOfAnalystOpinions"`
		RecommendationMean      rawValue `json:"recommendationMean"`
		EarningsGrowth          rawValue `json:"earningsGrowth"`
		RevenueGrowth           rawValue `json:"revenueGrowth"`
		ReturnOnEquity          rawValue `json:"returnOnEquity"`
		FreeCashflow            rawValue `json:"freeCashflow"`
		OperatingCashflow       rawValue `json:"operatingCashflow"`
	} `json:"financialData"`
	AssetProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"assetProfile"`
	IncomeStatementHistory struct {
		Statements []struct {
			TotalRevenue rawValue `json:"totalRevenue"`
			NetIncome    rawValue `json:"netIncome"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	BalanceSheetHistory struct {
		Statements []struct {
			TotalAssets            rawValue `json:"totalAssets"`
			TotalStockholderEquity rawValue `json:"totalStockholderEquity"`
		} `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`
	CashflowStatementHistory struct {
		Statements []struct {
			DividendsPaid     rawValue `json:"dividendsPaid"`
			RepurchaseOfStock rawValue `json:"repurchaseOfStock"`
		} `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

const (
	infoModules   = "price,summaryDetail,defaultKeyStatistics,financialData,assetProfile"
	detailModules = infoModules + ",incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory"
)

func (c *YahooClient) quoteSummary(ctx context.Context, symbol, modules string) (*summaryResult, error) {
	crumb, err := c.ensureCrumb(ctx)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s&crumb=%s",
		c.baseURL, url.PathEscape(symbol), modules, url.QueryEscape(crumb))

	var resp summaryResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		if resp.QuoteSummary.Error.Code == "Not Found" {
			return nil, ErrNotFound
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.QuoteSummary.Error.Description, Endpoint: "quoteSummary"}
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, ErrNotFound
	}
	return &resp.QuoteSummary.Result[0], nil
}

// GetStockInfo returns a quote in screener conventions (dividend yield in
// percent) so that it normalizes the same way as screener results.
func (c *YahooClient) GetStockInfo(ctx context.Context, symbol string) (*model.RawQuote, error) {
	s, err := c.quoteSummary(ctx, symbol, infoModules)
	if err != nil {
		return nil, err
	}

	q := &model.RawQuote{
		Symbol:                      s.Price.Symbol,
		ShortName:                   s.Price.ShortName,
		LongName:                    s.Price.LongName,
		Sector:                      s.AssetProfile.Sector,
		Industry:                    s.AssetProfile.Industry,
		Currency:                    s.Price.Currency,
		Exchange:                    s.Price.Exchange,
		RegularMarketPrice:          s.Price.RegularMarketPrice.Raw,
		MarketCap:                   s.Price.MarketCap.Raw,
		TrailingPE:                  s.SummaryDetail.TrailingPE.Raw,
		ForwardPE:                   s.SummaryDetail.ForwardPE.Raw,
		PriceToBook:                 s.DefaultKeyStatistics.PriceToBook.Raw,
		ReturnOnEquity:              s.FinancialData.ReturnOnEquity.Raw,
		TrailingAnnualDividendYield: s.SummaryDetail.TrailingAnnualDividendYield.Raw,
		RevenueGrowth:               s.FinancialData.RevenueGrowth.Raw,
		EarningsGrowth:              s.FinancialData.EarningsGrowth.Raw,
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	if dy := s.SummaryDetail.DividendYield.Raw; dy != nil {
		q.DividendYield = model.Float(*dy * 100)
	}
	return q, nil
}

// GetStockDetail returns analyst, cash-flow and statement-history figures.
func (c *YahooClient) GetStockDetail(ctx context.Context, symbol string) (*model.StockDetail, error) {
	s, err := c.quoteSummary(ctx, symbol, detailModules)
	if err != nil {
		return nil, err
	}

	fd := s.FinancialData
	d := &model.StockDetail{
		Symbol:             symbol,
		Name:               firstNonEmpty(s.Price.ShortName, s.Price.LongName),
		Sector:             s.AssetProfile.Sector,
		Price:              s.Price.RegularMarketPrice.Raw,
		MarketCap:          s.Price.MarketCap.Raw,
		TargetMeanPrice:    fd.TargetMeanPrice.Raw,
		TargetHighPrice:    fd.TargetHighPrice.Raw,
		TargetLowPrice:     fd.TargetLowPrice.Raw,
		RecommendationMean: fd.RecommendationMean.Raw,
		EPSGrowth:          fd.EarningsGrowth.Raw,
		RevenueGrowth:      fd.RevenueGrowth.Raw,
		ROE:                fd.ReturnOnEquity.Raw,
		FreeCashflow:       fd.FreeCashflow.Raw,
		OperatingCashflow:  fd.OperatingCashflow.Raw,
	}
	if n := fd.NumberOfAnalystOpinions.Raw; n != nil {
		d.AnalystCount = model.Int(int(*n))
	}

	// Histories stop at the first gap so that periods stay aligned.
	for _, st := range s.IncomeStatementHistory.Statements {
		if st.TotalRevenue.Raw == nil || st.NetIncome.Raw == nil {
			break
		}
		d.RevenueHistory = append(d.RevenueHistory, *st.TotalRevenue.Raw)
		d.NetIncomeHistory = append(d.NetIncomeHistory, *st.NetIncome.Raw)
	}
	if len(d.NetIncomeHistory) > 0 {
		d.NetIncome = model.Float(d.NetIncomeHistory[0])
	}
	for i, st := range s.BalanceSheetHistory.Statements {
		if i == 0 {
			d.TotalAssets = st.TotalAssets.Raw
		}
		if st.TotalStockholderEquity.Raw == nil {
			break
		}
		d.EquityHistory = append(d.EquityHistory, *st.TotalStockholderEquity.Raw)
	}
	// An omitted payout line means nothing was paid that period.
	for _, st := range s.CashflowStatementHistory.Statements {
		d.DividendsPaidHistory = append(d.DividendsPaidHistory, model.Value(st.DividendsPaid.Raw))
		d.RepurchaseHistory = append(d.RepurchaseHistory, model.Value(st.RepurchaseOfStock.Raw))
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// --- chart ------------------------------------------------------------------

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(values []interface{}, i int) interface{} {
	if i < len(values) {
		return values[i]
	}
	return nil
}

// GetPriceHistory returns daily bars, oldest first.
func (c *YahooClient) GetPriceHistory(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.baseURL, url.PathEscape(symbol), c.historyRange)

	var chart yahooChart
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: chart.Chart.Error.Description, Endpoint: "chart"}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNotFound
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(at(quote.Open, i))
		h := toFloat(at(quote.High, i))
		l := toFloat(at(quote.Low, i))
		cl := toFloat(at(quote.Close, i))
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: toFloat(at(quote.Volume, i)),
		})
	}
	if len(bars) == 0 {
		return nil, ErrNotFound
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}
