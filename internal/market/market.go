package market

import (
	"sort"
	"strings"

	"ScreenSentinel/internal/indicator"
)

// Market describes where a screen runs: the provider region codes, the
// exchanges that belong to it, and the calibration used for scoring.
type Market struct {
	Key            string
	Name           string
	Regions        []string
	Exchanges      []string
	Thresholds     indicator.Thresholds
	DefaultSymbols []string

	formatTicker func(code string) string
}

// MultiRegion reports whether the market spans more than one provider region.
func (m Market) MultiRegion() bool { return len(m.Regions) > 1 }

// FormatTicker converts a user-supplied code into a provider ticker.
func (m Market) FormatTicker(code string) string {
	code = strings.TrimSpace(code)
	if m.formatTicker == nil {
		return code
	}
	return m.formatTicker(code)
}

var registry = map[string]Market{
	"japan": Japan(),
	"us":    US(),
	"asean": ASEAN(),
}

// Resolve returns the market named by key. Named markets (japan, us, asean)
// are matched first, then any single-region market whose region code equals
// key (jp resolves to japan). Any other code is treated as a bare
// single-region market with generic thresholds.
func Resolve(key string) Market {
	key = strings.ToLower(strings.TrimSpace(key))
	if m, ok := registry[key]; ok {
		return m
	}
	for _, name := range Names() {
		m := registry[name]
		if !m.MultiRegion() && m.Regions[0] == key {
			return m
		}
	}
	return Market{
		Key:        key,
		Name:       strings.ToUpper(key),
		Regions:    []string{key},
		Thresholds: indicator.DefaultThresholds(),
	}
}

// Names lists the registered market keys in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
