package output

import (
	"fmt"
	"strings"

	"github.com/wesleyorama2/schedbench/internal/bench/engine"
)

const (
	ruleWidth   = 42
	nameWidth   = 30
	countWidth  = 12
	millisWidth = 10
)

// SummaryLines renders the end-of-run summary: workload parameters, the
// contexts each strategy used, the ranking and the reference total.
func (c *Console) SummaryLines(result *engine.BenchmarkResult, sorted bool) []string {
	rule := strings.Repeat("=", ruleWidth)
	w := result.Workload

	lines := []string{
		"",
		rule,
		fmt.Sprintf("%d elements", w.Count),
		fmt.Sprintf("%dms of average delay per element", w.AverageDelay.Milliseconds()),
		fmt.Sprintf("Fail every %d", w.FailEvery),
		fmt.Sprintf("%dms of delay on fail", w.FailDelay.Milliseconds()),
		rule,
		c.heading.Sprint("Used threads"),
		rule,
	}

	for _, s := range result.Strategies {
		if s.UtilizedContexts == 0 {
			continue
		}
		lines = append(lines, padRight(s.Name, nameWidth, '.')+padLeft(fmt.Sprintf("%d", s.UtilizedContexts), countWidth, '.'))
	}

	lines = append(lines, rule, c.heading.Sprint("RANKING"), rule)

	fastest := result.Fastest()
	for _, s := range result.Ranking(sorted) {
		line := padRight(s.Name, nameWidth, '.') + padLeft(formatNumber(s.ElapsedMillis()), millisWidth, '.') + "ms"
		if fastest != nil && s == fastest && len(result.Strategies) > 1 {
			line = c.good.Sprint(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "",
		padRight("REFERENCE TOTAL WORK TIME: ", nameWidth, '.')+padLeft(formatNumber(w.ReferenceTotal.Milliseconds()), millisWidth, '.')+"ms")

	return lines
}

// PrintSummary prints the end-of-run summary.
func (c *Console) PrintSummary(result *engine.BenchmarkResult, sorted bool) {
	c.write(c.SummaryLines(result, sorted))
}
