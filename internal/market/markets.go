package market

import (
	"strings"

	"ScreenSentinel/internal/indicator"
)

// Japan is the Tokyo Stock Exchange.
func Japan() Market {
	return Market{
		Key:       "japan",
		Name:      "Japan",
		Regions:   []string{"jp"},
		Exchanges: []string{"JPX"},
		Thresholds: indicator.Thresholds{
			PERMax:           15.0,
			PBRMax:           1.0,
			DividendYieldMin: 0.025,
			ROEMin:           0.08,
		},
		DefaultSymbols: []string{
			"7203.T", "7267.T", "7974.T", "6758.T", "6861.T", "6501.T", "6902.T",
			"6762.T", "6954.T", "4063.T", "8306.T", "8316.T", "8411.T", "8766.T",
			"8058.T", "8031.T", "8001.T", "9432.T", "9433.T", "9984.T", "4502.T",
			"4568.T", "9983.T", "4452.T", "6301.T", "7751.T",
		},
		formatTicker: func(code string) string {
			if strings.Contains(code, ".") {
				return code
			}
			return code + ".T"
		},
	}
}

// US covers NASDAQ Global Select and the NYSE.
func US() Market {
	return Market{
		Key:       "us",
		Name:      "United States",
		Regions:   []string{"us"},
		Exchanges: []string{"NMS", "NYQ"},
		Thresholds: indicator.Thresholds{
			PERMax:           20.0,
			PBRMax:           3.0,
			DividendYieldMin: 0.02,
			ROEMin:           0.10,
		},
		DefaultSymbols: []string{
			"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA", "AVGO",
			"AMD", "INTC", "JPM", "BAC", "GS", "BRK-B", "V", "MA", "JNJ", "UNH",
			"PFE", "LLY", "PG", "KO", "PEP", "WMT", "COST", "XOM", "CVX", "CAT",
			"DIS", "NFLX",
		},
		formatTicker: strings.ToUpper,
	}
}

// aseanSuffixes maps a local exchange name to the provider ticker suffix.
var aseanSuffixes = map[string]string{
	"SGX":  ".SI",
	"SET":  ".BK",
	"KLSE": ".KL",
	"IDX":  ".JK",
	"PSE":  ".PS",
}

// ASEAN spans Singapore, Thailand, Malaysia, Indonesia and the Philippines.
func ASEAN() Market {
	return Market{
		Key:       "asean",
		Name:      "ASEAN",
		Regions:   []string{"sg", "th", "my", "id", "ph"},
		Exchanges: []string{"SES", "SET", "KLS", "JKT", "PHP"},
		Thresholds: indicator.Thresholds{
			PERMax:           15.0,
			PBRMax:           1.5,
			DividendYieldMin: 0.03,
			ROEMin:           0.08,
		},
		DefaultSymbols: []string{
			// Singapore
			"D05.SI", "O39.SI", "U11.SI", "Z74.SI", "C6L.SI", "A17U.SI", "BN4.SI",
			// Thailand
			"PTT.BK", "AOT.BK", "SCC.BK", "ADVANC.BK", "CPALL.BK", "KBANK.BK", "SCB.BK",
			// Malaysia
			"1155.KL", "1295.KL", "6888.KL", "4707.KL", "5183.KL", "3182.KL",
			// Indonesia
			"BBCA.JK", "BBRI.JK", "TLKM.JK", "ASII.JK", "UNVR.JK", "BMRI.JK",
			// Philippines
			"SM.PS", "ALI.PS", "BDO.PS", "TEL.PS", "JFC.PS", "AC.PS",
		},
		formatTicker: formatASEANTicker,
	}
}

// formatASEANTicker accepts "D05.SI" as-is and converts "D05:SGX" to "D05.SI".
func formatASEANTicker(code string) string {
	for _, suffix := range aseanSuffixes {
		if strings.HasSuffix(code, suffix) {
			return code
		}
	}
	if ticker, exchange, ok := strings.Cut(code, ":"); ok {
		return ticker + aseanSuffixes[strings.ToUpper(exchange)]
	}
	return code
}
