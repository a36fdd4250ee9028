package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/wesleyorama2/schedbench/internal/bench/report"
)

// ComparisonLines renders a baseline comparison table.
func (c *Console) ComparisonLines(cmp *report.Comparison) []string {
	rule := strings.Repeat("=", ruleWidth)
	lines := []string{
		"",
		rule,
		c.heading.Sprint("COMPARISON") + fmt.Sprintf(" (%s -> %s)", cmp.BaselineName, cmp.CurrentName),
		rule,
	}

	if cmp.FingerprintMismatch {
		lines = append(lines, c.bad.Sprint("warning: workloads differ, elapsed times are only loosely comparable"))
	}

	for _, d := range cmp.Deltas {
		name := padRight(d.Name, nameWidth, '.')
		switch d.Status {
		case report.StatusNew:
			lines = append(lines, name+padLeft(formatNumber(d.CurrentMs), millisWidth, '.')+"ms  (new)")
		case report.StatusMissing:
			lines = append(lines, name+padLeft("-", millisWidth, '.')+"    (missing)")
		default:
			change := fmt.Sprintf("%s -> %sms", formatNumber(d.BaselineMs), formatNumber(d.CurrentMs))
			pct := "n/a"
			if !math.IsInf(d.Percent, 0) {
				pct = formatPercent(d.Percent)
			}
			line := fmt.Sprintf("%s %s  %s", name, change, pct)
			switch d.Status {
			case report.StatusSlower:
				line = c.bad.Sprint(line)
			case report.StatusFaster:
				line = c.good.Sprint(line)
			}
			lines = append(lines, line)
		}
	}

	return lines
}

// PrintComparison prints a baseline comparison table.
func (c *Console) PrintComparison(cmp *report.Comparison) {
	c.write(c.ComparisonLines(cmp))
}
