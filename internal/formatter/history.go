package formatter

import (
	"fmt"
	"strings"

	"ScreenSentinel/internal/recorder"
)

// EmptyHistoryMessage is shown when no runs have been recorded.
const EmptyHistoryMessage = "No screening runs recorded yet."

// History formats recent runs, newest first.
func History(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return EmptyHistoryMessage
	}
	var b strings.Builder
	row(&b, "When (UTC)", "Screener", "Region", "Preset", "Top N", "Results", "Leaders", "Run")
	row(&b, ":---------", ":-------", ":-----", ":-----", "----:", "------:", ":------", ":--")
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		leaders := none
		if len(r.TopSymbols) > 0 {
			leaders = escape(strings.Join(r.TopSymbols, ", "))
		}
		row(&b,
			r.StartedAt.UTC().Format("2006-01-02 15:04"),
			text(r.Screener), text(r.Region), text(r.Preset),
			fmt.Sprint(r.TopN), fmt.Sprint(r.ResultCount), leaders, id,
		)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
