package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/wesleyorama2/schedbench/internal/bench/engine"
	"github.com/wesleyorama2/schedbench/internal/bench/pipeline"
)

// ReportData contains all data needed to render the HTML report.
type ReportData struct {
	*engine.BenchmarkResult
	Ranking   []*pipeline.Result
	SlowestMs int64
}

// GenerateHTML generates an HTML report from benchmark results and writes it to a file.
func GenerateHTML(result *engine.BenchmarkResult, sorted bool, outputPath string) error {
	html, err := GenerateHTMLString(result, sorted)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString generates an HTML report and returns it as a string.
func GenerateHTMLString(result *engine.BenchmarkResult, sorted bool) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := ReportData{
		BenchmarkResult: result,
		Ranking:         result.Ranking(sorted),
	}
	for _, s := range result.Strategies {
		if ms := s.ElapsedMillis(); ms > data.SlowestMs {
			data.SlowestMs = ms
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// templateFuncs returns the template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": formatDuration,
		"formatLatency":  formatLatency,
		"barWidth":       barWidth,
		"join":           joinInts,
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// formatLatency formats a task latency with sub-millisecond precision.
func formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}

// barWidth returns the width percentage of a ranking bar.
func barWidth(ms, slowest int64) string {
	if slowest <= 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(ms)*100/float64(slowest))
}

func joinInts(values []int) string {
	var buf bytes.Buffer
	for i, v := range values {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%d", v)
	}
	return buf.String()
}
