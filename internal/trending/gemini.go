package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"ScreenSentinel/internal/market"
	"ScreenSentinel/internal/model"
)

// DefaultModel is the Gemini model used for discovery.
const DefaultModel = "gemini-2.0-flash"

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// geminiGenerator calls Gemini with Google Search grounding so that answers
// reflect current discussion rather than training data.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.3)),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiSource implements Source with a Gemini model.
type GeminiSource struct {
	gen      Generator
	log      zerolog.Logger
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

// SourceOption configures a GeminiSource.
type SourceOption func(*GeminiSource)

// WithRetry sets the number of attempts and the initial backoff between them.
func WithRetry(attempts int, backoff time.Duration) SourceOption {
	return func(s *GeminiSource) {
		s.attempts = attempts
		s.backoff = backoff
	}
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *GeminiSource) { s.timeout = d }
}

// NewGeminiSource creates a Gemini-backed source.
func NewGeminiSource(ctx context.Context, apiKey, modelName string, log zerolog.Logger, opts ...SourceOption) (*GeminiSource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewSourceWithGenerator(&geminiGenerator{client: client, model: modelName}, log, opts...), nil
}

// NewSourceWithGenerator wraps an arbitrary generator.
func NewSourceWithGenerator(gen Generator, log zerolog.Logger, opts ...SourceOption) *GeminiSource {
	s := &GeminiSource{
		gen:      gen,
		log:      log.With().Str("component", "trending").Logger(),
		attempts: 3,
		backoff:  time.Second,
		timeout:  2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchTrending asks the model for trending tickers in region, optionally
// narrowed to theme. Tickers are normalized to provider form.
func (s *GeminiSource) SearchTrending(ctx context.Context, region, theme string) (model.TrendingResult, error) {
	m := market.Resolve(region)
	prompt := buildPrompt(m, theme)

	var lastErr error
	delay := s.backoff
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return model.TrendingResult{}, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, err := s.gen.Generate(callCtx, prompt)
		cancel()
		if err != nil {
			lastErr = err
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("trending generation failed")
			continue
		}

		result, err := parseResponse(text)
		if err != nil {
			lastErr = err
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("trending response unparseable")
			continue
		}
		result.Stocks = normalizeItems(m, result.Stocks)
		s.log.Info().Str("region", m.Key).Int("stocks", len(result.Stocks)).Msg("trending tickers discovered")
		return result, nil
	}
	return model.TrendingResult{}, fmt.Errorf("trending search: %w", lastErr)
}

var tickerHints = map[string]string{
	"japan": "Use Tokyo Stock Exchange tickers with the .T suffix (for example 7203.T).",
	"us":    "Use plain US tickers without a suffix (for example AAPL).",
	"asean": "Use Yahoo Finance suffixes: .SI Singapore, .BK Thailand, .KL Malaysia, .JK Indonesia, .PS Philippines.",
}

func buildPrompt(m market.Market, theme string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search recent news and social media for stocks listed in %s that investors are actively discussing right now.\n", m.Name)
	if theme != "" {
		fmt.Fprintf(&b, "Focus on the theme: %s.\n", theme)
	}
	if hint, ok := tickerHints[m.Key]; ok {
		b.WriteString(hint + "\n")
	} else {
		fmt.Fprintf(&b, "Use Yahoo Finance ticker symbols for region %q.\n", m.Key)
	}
	b.WriteString(`Return between 10 and 20 stocks. Respond with JSON only, in this shape:
{"stocks":[{"ticker":"...","name":"...","reason":"one sentence on why it is trending"}],
 "market_context":"two or three sentences on the overall mood"}`)
	return b.String()
}

// parseResponse extracts the JSON object from a model reply that may be
// wrapped in a code fence or surrounded by prose.
func parseResponse(text string) (model.TrendingResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return model.TrendingResult{}, fmt.Errorf("no JSON object in response")
	}

	var result model.TrendingResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return model.TrendingResult{}, fmt.Errorf("decode trending response: %w", err)
	}
	return result, nil
}

// normalizeItems formats tickers for the market, dropping blanks and duplicates.
func normalizeItems(m market.Market, items []model.TrendingItem) []model.TrendingItem {
	seen := make(map[string]bool, len(items))
	out := make([]model.TrendingItem, 0, len(items))
	for _, it := range items {
		ticker := strings.TrimSpace(it.Ticker)
		if ticker == "" {
			continue
		}
		ticker = m.FormatTicker(ticker)
		if seen[ticker] {
			continue
		}
		seen[ticker] = true
		it.Ticker = ticker
		it.Name = strings.TrimSpace(it.Name)
		it.Reason = strings.TrimSpace(it.Reason)
		out = append(out, it)
	}
	return out
}
