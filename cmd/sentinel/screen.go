package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ScreenSentinel/internal/market"
	"ScreenSentinel/internal/model"
	"ScreenSentinel/internal/runner"
)

var screenCmd = &cobra.Command{
	Use:   "screen <kind>",
	Short: "Run a screen and print the ranked results",
	Long: `Run one of the screeners: value, query, pullback, alpha, growth or trending.

Regions are market names (` + strings.Join(market.Names(), ", ") + `) or raw region codes such as "sg".`,
	Args: cobra.ExactArgs(1),
	RunE: runScreen,
}

var (
	screenReq  runner.Request
	screenJSON bool
)

// criteriaFlags maps each literal criterion to its flag. A flag given on the
// command line overrides any preset.
var criteriaFlags = []struct {
	name  string
	usage string
	field func(*model.ScreeningCriteria) **float64
}{
	{"max-per", "Maximum trailing P/E", func(c *model.ScreeningCriteria) **float64 { return &c.MaxPER }},
	{"max-pbr", "Maximum P/B", func(c *model.ScreeningCriteria) **float64 { return &c.MaxPBR }},
	{"min-dividend", "Minimum dividend yield as a fraction", func(c *model.ScreeningCriteria) **float64 { return &c.MinDividendYield }},
	{"min-roe", "Minimum ROE as a fraction", func(c *model.ScreeningCriteria) **float64 { return &c.MinROE }},
	{"min-revenue-growth", "Minimum revenue growth as a fraction", func(c *model.ScreeningCriteria) **float64 { return &c.MinRevenueGrowth }},
	{"min-earnings-growth", "Minimum earnings growth as a fraction", func(c *model.ScreeningCriteria) **float64 { return &c.MinEarningsGrowth }},
	{"min-market-cap", "Minimum market capitalisation", func(c *model.ScreeningCriteria) **float64 { return &c.MinMarketCap }},
	{"min-total-shareholder-return", "Minimum total shareholder return as a fraction (query)", func(c *model.ScreeningCriteria) **float64 { return &c.MinTotalShareholderReturn }},
}

func init() {
	f := screenCmd.Flags()
	f.StringVarP(&screenReq.Region, "region", "r", "japan", "Market or region code")
	f.IntVarP(&screenReq.TopN, "top", "n", 20, "Maximum number of results")
	f.StringVarP(&screenReq.Preset, "preset", "p", "", "Screening preset (see 'sentinel presets')")
	f.StringVar(&screenReq.Exchange, "exchange", "", "Exchange code filter (query)")
	f.StringVar(&screenReq.Sector, "sector", "", "Sector filter (query, growth)")
	f.StringVar(&screenReq.Theme, "theme", "", "Theme to focus trending discovery on")
	f.StringSliceVar(&screenReq.Symbols, "symbols", nil, "Explicit symbol list (value)")
	f.StringVar(&screenReq.SortField, "sort", "", "Provider sort field (query)")
	f.BoolVar(&screenReq.SortAsc, "asc", false, "Sort ascending (query)")
	f.BoolVar(&screenReq.WithPullback, "with-pullback", false, "Keep only pullback-in-uptrend matches (query)")
	f.BoolVar(&screenJSON, "json", false, "Print results as JSON")

	addCriteriaFlags(screenCmd)
}

func addCriteriaFlags(cmd *cobra.Command) {
	for _, cf := range criteriaFlags {
		cmd.Flags().Float64(cf.name, 0, cf.usage)
	}
}

// criteriaFromFlags returns nil when no criteria flag was given.
func criteriaFromFlags(cmd *cobra.Command) (*model.ScreeningCriteria, error) {
	var c model.ScreeningCriteria
	for _, cf := range criteriaFlags {
		if !cmd.Flags().Changed(cf.name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(cf.name)
		if err != nil {
			return nil, err
		}
		*cf.field(&c) = model.Float(v)
	}
	if c.IsZero() {
		return nil, nil
	}
	return &c, nil
}

func runScreen(cmd *cobra.Command, args []string) error {
	kind, err := runner.ParseKind(args[0])
	if err != nil {
		return err
	}
	req := screenReq
	req.Kind = kind
	if req.Criteria, err = criteriaFromFlags(cmd); err != nil {
		return err
	}

	ctx := cmd.Context()
	run, rec, err := buildRunner(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	report, err := run.Run(ctx, req)
	if err != nil {
		return err
	}

	if screenJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			RunID         string               `json:"run_id"`
			MarketContext string               `json:"market_context,omitempty"`
			Results       []model.RankedResult `json:"results"`
		}{report.RunID, report.MarketContext, report.Results})
	}
	fmt.Println(report.Markdown)
	return nil
}
