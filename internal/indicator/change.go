package indicator

import "ScreenSentinel/internal/model"

const componentPoints = 25.0

// ChangeConfig holds the tunable parts of the change-quality check.
type ChangeConfig struct {
	// MinPassed is the number of the four checks that must pass for
	// QualityPass.
	MinPassed int
	// MinDefined is the number of components that must be computable for the
	// score to be meaningful at all.
	MinDefined    int
	FCFYieldFloor float64
}

// DefaultChangeConfig returns the 3-of-4 gate with a 5% free-cash-flow yield floor.
func DefaultChangeConfig() ChangeConfig {
	return ChangeConfig{MinPassed: 3, MinDefined: 3, FCFYieldFloor: 0.05}
}

// ChangeComponent is one axis of the change-quality check. Raw is nil when the
// inputs were missing, in which case the component fails and scores 0.
type ChangeComponent struct {
	Raw    *float64
	Score  float64
	Passed bool
}

// Available reports whether the component could be computed.
func (c ChangeComponent) Available() bool { return c.Raw != nil }

// ChangeResult is the outcome of ComputeChangeScore.
type ChangeResult struct {
	ChangeScore         float64
	Accruals            ChangeComponent
	RevenueAcceleration ChangeComponent
	FCFYield            ChangeComponent
	ROETrend            ChangeComponent
	PassedCount         int
	QualityPass         bool
	// Defined is false when too few components could be computed; callers
	// skip the quality gate for such symbols rather than scoring them.
	Defined bool
}

// Components returns the four axes in a fixed order.
func (r ChangeResult) Components() []ChangeComponent {
	return []ChangeComponent{r.Accruals, r.RevenueAcceleration, r.FCFYield, r.ROETrend}
}

// ComputeChangeScore evaluates the earnings-quality trend of d on four axes:
// low accruals, accelerating revenue, free-cash-flow yield and a non-declining
// ROE. Each axis is worth 25 points.
func ComputeChangeScore(d model.StockDetail, cfg ChangeConfig) ChangeResult {
	if cfg.MinPassed <= 0 {
		cfg.MinPassed = DefaultChangeConfig().MinPassed
	}
	if cfg.MinDefined <= 0 {
		cfg.MinDefined = DefaultChangeConfig().MinDefined
	}

	res := ChangeResult{
		Accruals:            accruals(d),
		RevenueAcceleration: revenueAcceleration(d),
		FCFYield:            fcfYield(d, cfg.FCFYieldFloor),
		ROETrend:            roeTrend(d),
	}

	available := 0
	for _, c := range res.Components() {
		res.ChangeScore += c.Score
		if c.Passed {
			res.PassedCount++
		}
		if c.Available() {
			available++
		}
	}
	res.ChangeScore = clamp(res.ChangeScore, 0, 100)
	res.QualityPass = QualityGate(res.PassedCount, cfg.MinPassed)
	res.Defined = available >= cfg.MinDefined
	return res
}

// QualityGate applies the n-of-4 rule.
func QualityGate(passed, minPassed int) bool {
	return passed >= minPassed
}

// accruals compares net income with operating cash flow, scaled by assets.
// Earnings backed by cash (raw < 0) pass.
func accruals(d model.StockDetail) ChangeComponent {
	ni := d.NetIncome
	if ni == nil && len(d.NetIncomeHistory) > 0 {
		ni = model.Float(d.NetIncomeHistory[0])
	}
	if ni == nil || d.OperatingCashflow == nil || d.TotalAssets == nil || *d.TotalAssets <= 0 {
		return ChangeComponent{}
	}
	raw := (*ni - *d.OperatingCashflow) / *d.TotalAssets
	return ChangeComponent{
		Raw:    model.Float(raw),
		Score:  linear(raw, 0.10, -0.10, componentPoints),
		Passed: raw < 0,
	}
}

// revenueAcceleration is the latest year-over-year growth minus the prior one.
func revenueAcceleration(d model.StockDetail) ChangeComponent {
	h := d.RevenueHistory
	if len(h) < 3 || h[1] <= 0 || h[2] <= 0 {
		return ChangeComponent{}
	}
	latest := h[0]/h[1] - 1
	prior := h[1]/h[2] - 1
	raw := latest - prior
	return ChangeComponent{
		Raw:    model.Float(raw),
		Score:  linear(raw, -0.10, 0.10, componentPoints),
		Passed: raw > 0,
	}
}

func fcfYield(d model.StockDetail, floor float64) ChangeComponent {
	if d.FreeCashflow == nil || d.MarketCap == nil || *d.MarketCap <= 0 {
		return ChangeComponent{}
	}
	raw := *d.FreeCashflow / *d.MarketCap
	return ChangeComponent{
		Raw:    model.Float(raw),
		Score:  linear(raw, 0, 0.10, componentPoints),
		Passed: raw >= floor,
	}
}

// roeTrend derives ROE per period from the income and equity histories and
// passes when it has not declined over the last three periods.
func roeTrend(d model.StockDetail) ChangeComponent {
	roes := roeHistory(d)
	if len(roes) < 3 {
		return ChangeComponent{}
	}
	roes = roes[:3]
	// most recent first
	nonDecreasing := roes[0] >= roes[1] && roes[1] >= roes[2]
	raw := roes[0] - roes[2]
	return ChangeComponent{
		Raw:    model.Float(raw),
		Score:  linear(raw, -0.05, 0.05, componentPoints),
		Passed: nonDecreasing,
	}
}

func roeHistory(d model.StockDetail) []float64 {
	n := len(d.NetIncomeHistory)
	if len(d.EquityHistory) < n {
		n = len(d.EquityHistory)
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if d.EquityHistory[i] <= 0 {
			break
		}
		out = append(out, d.NetIncomeHistory[i]/d.EquityHistory[i])
	}
	return out
}
