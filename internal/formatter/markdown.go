package formatter

import (
	"fmt"
	"strings"

	"ScreenSentinel/internal/model"
)

// Messages used when a screen returns nothing.
const (
	EmptyMessage         = "No stocks matched the criteria."
	EmptyPullbackMessage = "No stocks matched the pullback conditions (no pullbacks inside an uptrend)."
	EmptyAlphaMessage    = "No stocks passed both the value filter and the change-quality check."
	EmptyGrowthMessage   = "No stocks with positive EPS growth were found."
	EmptyTrendingMessage = "No trending stocks were found."
)

const none = "-"

func pct(v *float64) string {
	if v == nil {
		return none
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func num(v *float64, decimals int) string {
	if v == nil {
		return none
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

func text(s string) string {
	if s == "" {
		return none
	}
	return escape(s)
}

// escape keeps free text from breaking the table.
func escape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

func label(r model.RankedResult) string {
	if r.Name == "" {
		return escape(r.Symbol)
	}
	return escape(r.Symbol + " " + r.Name)
}

// marketCap renders in billions.
func marketCap(v *float64) string {
	if v == nil {
		return none
	}
	return fmt.Sprintf("%.1fB", *v/1e9)
}

func matchLabel(m model.MatchType) string {
	switch m {
	case model.MatchFull:
		return "★ full"
	case model.MatchPartial:
		return "△ partial"
	case model.MatchNone:
		return "none"
	default:
		return none
	}
}

func row(b *strings.Builder, cells ...string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func table(header, align []string, results []model.RankedResult, cells func(rank int, r model.RankedResult) []string) string {
	var b strings.Builder
	row(&b, header...)
	row(&b, align...)
	for i, r := range results {
		row(&b, cells(i+1, r)...)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Value formats value screen results.
func Value(results []model.RankedResult) string {
	if len(results) == 0 {
		return EmptyMessage
	}
	return table(
		[]string{"Rank", "Stock", "Price", "PER", "PBR", "Div Yield", "ROE", "Score"},
		[]string{"---:", ":----", "----:", "---:", "---:", "--------:", "---:", "----:"},
		results,
		func(rank int, r model.RankedResult) []string {
			return []string{
				fmt.Sprint(rank), label(r), num(r.Price, 0), num(r.PER, 2), num(r.PBR, 2),
				pct(yield(r)), pct(r.ROE), num(r.ValueScore, 2),
			}
		})
}

// Query formats query screen results. Shareholder return columns appear when
// any row carries them, pullback columns when any row has a match type.
func Query(results []model.RankedResult) string {
	if len(results) == 0 {
		return EmptyMessage
	}
	var withReturn, withPullback bool
	for _, r := range results {
		withReturn = withReturn || r.TotalShareholderReturn != nil
		withPullback = withPullback || r.MatchType != ""
	}

	header := []string{"Rank", "Stock", "Sector", "Price", "PER", "PBR", "Div Yield", "ROE", "Score"}
	align := []string{"---:", ":----", ":-----", "----:", "---:", "---:", "--------:", "---:", "----:"}
	if withReturn {
		header = append(header, "Total Return", "Buyback", "Stability")
		align = append(align, "-----------:", "------:", ":--------")
	}
	if withPullback {
		header = append(header, "Pullback", "RSI", "Bounce", "Match")
		align = append(align, "-------:", "---:", "-----:", ":---:")
	}
	return table(header, align, results, func(rank int, r model.RankedResult) []string {
		cells := []string{
			fmt.Sprint(rank), label(r), text(r.Sector), num(r.Price, 0), num(r.PER, 2), num(r.PBR, 2),
			pct(yield(r)), pct(r.ROE), num(r.ValueScore, 2),
		}
		if withReturn {
			stability := r.ReturnStabilityLabel
			if stability == "" {
				stability = r.ReturnStability
			}
			cells = append(cells, pct(r.TotalShareholderReturn), pct(r.BuybackYield), text(stability))
		}
		if withPullback {
			cells = append(cells, pct(r.PullbackPct), num(r.RSI, 1), num(r.BounceScore, 0), matchLabel(r.MatchType))
		}
		return cells
	})
}

// Pullback formats pullback screen results.
func Pullback(results []model.RankedResult) string {
	if len(results) == 0 {
		return EmptyPullbackMessage
	}
	return table(
		[]string{"Rank", "Stock", "Price", "PER", "Pullback", "RSI", "Volume Ratio", "SMA50", "SMA200", "Bounce", "Match", "Score"},
		[]string{"---:", ":----", "----:", "---:", "-------:", "---:", "-----------:", "----:", "-----:", "-----:", ":---:", "----:"},
		results,
		func(rank int, r model.RankedResult) []string {
			score := r.FinalScore
			if score == nil {
				score = r.ValueScore
			}
			return []string{
				fmt.Sprint(rank), label(r), num(r.Price, 0), num(r.PER, 2), pct(r.PullbackPct), num(r.RSI, 1),
				num(r.VolumeRatio, 2), num(r.SMA50, 0), num(r.SMA200, 0), num(r.BounceScore, 0),
				matchLabel(r.MatchType), num(score, 2),
			}
		})
}

// Alpha formats alpha screen results with each change-quality axis.
func Alpha(results []model.RankedResult) string {
	if len(results) == 0 {
		return EmptyAlphaMessage
	}
	return table(
		[]string{"Rank", "Stock", "Price", "PER", "PBR", "Value", "Change", "Accruals", "Rev Accel", "FCF Yield", "ROE Trend", "Passed", "Pullback", "Total"},
		[]string{"---:", ":----", "----:", "---:", "---:", "----:", "-----:", "-------:", "--------:", "--------:", "--------:", ":----:", ":------:", "----:"},
		results,
		func(rank int, r model.RankedResult) []string {
			passed := none
			if r.QualityPassedCount != nil {
				passed = fmt.Sprintf("%d/4", *r.QualityPassedCount)
			}
			return []string{
				fmt.Sprint(rank), label(r), num(r.Price, 0), num(r.PER, 2), num(r.PBR, 2),
				num(r.ValueScore, 1), num(r.ChangeScore, 1),
				num(r.AccrualsScore, 0), num(r.RevAccelScore, 0), num(r.FCFYieldScore, 0), num(r.ROETrendScore, 0),
				passed, matchLabel(r.PullbackMatch), num(r.TotalScore, 1),
			}
		})
}

// Growth formats growth screen results.
func Growth(results []model.RankedResult) string {
	if len(results) == 0 {
		return EmptyGrowthMessage
	}
	return table(
		[]string{"Rank", "Stock", "Sector", "Price", "PER", "Fwd PER", "PBR", "ROE", "Revenue Growth", "EPS Growth", "Market Cap"},
		[]string{"---:", ":----", ":-----", "----:", "---:", "------:", "---:", "---:", "-------------:", "---------:", "---------:"},
		results,
		func(rank int, r model.RankedResult) []string {
			return []string{
				fmt.Sprint(rank), label(r), text(r.Sector), num(r.Price, 0), num(r.PER, 2), num(r.ForwardPER, 2),
				num(r.PBR, 2), pct(r.ROE), pct(r.RevenueGrowth), pct(r.EPSGrowth), marketCap(r.MarketCap),
			}
		})
}

// Trending formats trending screen results, preceded by the market context
// when there is one.
func Trending(results []model.RankedResult, marketContext string) string {
	var b strings.Builder
	if ctx := strings.TrimSpace(marketContext); ctx != "" {
		b.WriteString("**Market context:** ")
		b.WriteString(ctx)
		b.WriteString("\n\n")
	}
	if len(results) == 0 {
		b.WriteString(EmptyTrendingMessage)
		return b.String()
	}
	b.WriteString(table(
		[]string{"Rank", "Stock", "Reason", "Price", "PER", "PBR", "Div Yield", "ROE", "Score", "Class"},
		[]string{"---:", ":----", ":-----", "----:", "---:", "---:", "--------:", "---:", "----:", ":----"},
		results,
		func(rank int, r model.RankedResult) []string {
			return []string{
				fmt.Sprint(rank), label(r), text(r.TrendingReason), num(r.Price, 0), num(r.PER, 2), num(r.PBR, 2),
				pct(yield(r)), pct(r.ROE), num(r.ValueScore, 1), text(string(r.Classification)),
			}
		}))
	return b.String()
}

func yield(r model.RankedResult) *float64 {
	if r.DividendYield != nil {
		return r.DividendYield
	}
	return r.DividendYieldTrailing
}
