package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/schedbench/internal/bench"
	"github.com/wesleyorama2/schedbench/internal/bench/config"
	"github.com/wesleyorama2/schedbench/internal/bench/report"
)

const smallConfig = `name: small
workload:
  count: 6
  averageDelay: 2ms
  failEvery: 3
  failDelay: 5ms
  seed: 11
strategies:
  - name: Single
    type: single
  - name: 2 Parallel
    type: parallel
    parallelism: 2
`

func init() {
	appLogger.SetOutput(io.Discard)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunBenchmark_Console(t *testing.T) {
	opts := runOptions{ConfigFile: writeFile(t, "bench.yaml", smallConfig)}
	buf := &bytes.Buffer{}

	require.NoError(t, runBenchmark(context.Background(), opts, buf))

	out := buf.String()
	assert.Contains(t, out, "Single > 0 - [")
	assert.Contains(t, out, ">> delivered by [")
	assert.Contains(t, out, "2 Parallel completed in")
	assert.Contains(t, out, "6 elements")
	assert.Contains(t, out, "Fail every 3")
	assert.Contains(t, out, "RANKING")
	assert.Contains(t, out, "REFERENCE TOTAL WORK TIME: ")

	// Elements 2 and 5 fail and are never delivered.
	assert.NotContains(t, out, "Single > 2 -")
	assert.NotContains(t, out, "Single > 5 -")
}

func TestRunBenchmark_Quiet(t *testing.T) {
	opts := runOptions{ConfigFile: writeFile(t, "bench.yaml", smallConfig), Quiet: true}
	buf := &bytes.Buffer{}

	require.NoError(t, runBenchmark(context.Background(), opts, buf))

	out := buf.String()
	assert.NotContains(t, out, "delivered by")
	assert.Contains(t, out, "Single completed in")
	assert.Contains(t, out, "RANKING")
}

func TestRunBenchmark_JSONToStdout(t *testing.T) {
	opts := runOptions{ConfigFile: writeFile(t, "bench.yaml", smallConfig), JSON: true}
	buf := &bytes.Buffer{}

	require.NoError(t, runBenchmark(context.Background(), opts, buf))

	b, err := report.ParseBaseline(buf.Bytes())
	require.NoError(t, err, buf.String())
	assert.Equal(t, "small", b.Name)
	assert.Equal(t, 6, b.Count)
	require.Len(t, b.Strategies, 2)
	assert.Equal(t, "2 Parallel", b.Strategies[1].Name)
}

func TestRunBenchmark_OutputBaseName(t *testing.T) {
	dir := t.TempDir()
	opts := runOptions{
		ConfigFile: writeFile(t, "bench.yaml", smallConfig),
		Quiet:      true,
		Output:     filepath.Join(dir, "results", "run"),
	}

	require.NoError(t, runBenchmark(context.Background(), opts, &bytes.Buffer{}))

	html, err := os.ReadFile(filepath.Join(dir, "results", "run.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>small - Scheduler Benchmark Report</title>")

	_, err = report.LoadBaseline(filepath.Join(dir, "results", "run.json"))
	require.NoError(t, err)
}

func TestRunBenchmark_Baseline(t *testing.T) {
	configFile := writeFile(t, "bench.yaml", smallConfig)
	baselinePath := filepath.Join(t.TempDir(), "baseline.json")

	require.NoError(t, runBenchmark(context.Background(), runOptions{
		ConfigFile: configFile,
		Quiet:      true,
		Output:     baselinePath,
	}, &bytes.Buffer{}))

	buf := &bytes.Buffer{}
	require.NoError(t, runBenchmark(context.Background(), runOptions{
		ConfigFile: configFile,
		Quiet:      true,
		Baseline:   baselinePath,
	}, buf))

	out := buf.String()
	assert.Contains(t, out, "COMPARISON (small -> small)")
	assert.NotContains(t, out, "workloads differ")
}

func TestRunBenchmark_InvalidBaselineFailsBeforeRun(t *testing.T) {
	buf := &bytes.Buffer{}
	err := runBenchmark(context.Background(), runOptions{
		ConfigFile: writeFile(t, "bench.yaml", smallConfig),
		Baseline:   writeFile(t, "baseline.json", `{"name": "broken"}`),
	}, buf)

	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrInvalidBaseline)
	assert.Empty(t, buf.String())
}

func TestRunBenchmark_InvalidConfig(t *testing.T) {
	failEvery := 0
	err := runBenchmark(context.Background(), runOptions{
		ConfigFile: writeFile(t, "bench.yaml", smallConfig),
		Overrides:  config.Overrides{FailEvery: &failEvery},
	}, &bytes.Buffer{})

	require.Error(t, err)
	assert.ErrorIs(t, err, bench.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "workload.failEvery")
}

func TestLoadConfig(t *testing.T) {
	count := 7
	sort := true

	cfg, err := loadConfig("", config.Overrides{Count: &count, SortRanking: &sort})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workload.Count)
	assert.Equal(t, config.DefaultFailEvery, cfg.Workload.FailEvery)
	assert.Len(t, cfg.Strategies, 5)
	require.NotNil(t, cfg.Options)
	assert.True(t, cfg.Options.SortRanking)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), config.Overrides{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateDefaultHTMLPath(t *testing.T) {
	path := generateDefaultHTMLPath("Scheduler Benchmark/Nightly")
	assert.True(t, strings.HasPrefix(path, "bench-report-scheduler-benchmark-nightly-"), path)
	assert.True(t, strings.HasSuffix(path, ".html"), path)
}

const reportTemplate = `{
  "version": "1",
  "name": "%s",
  "workload": {"count": 4, "fingerprint": "abc"},
  "strategies": [
    {"name": "Single", "type": "single", "elapsedMs": %d},
    {"name": "2 Parallel", "type": "parallel", "elapsedMs": 100}
  ]
}`

func reportFile(t *testing.T, name string, singleMs int) string {
	t.Helper()
	return writeFile(t, name+".json", fmt.Sprintf(reportTemplate, name, singleMs))
}

func TestCompareReports(t *testing.T) {
	before := reportFile(t, "before", 400)
	after := reportFile(t, "after", 600)

	buf := &bytes.Buffer{}
	require.NoError(t, compareReports(before, after, 0.05, false, buf))

	out := buf.String()
	assert.Contains(t, out, "COMPARISON (before -> after)")
	assert.Contains(t, out, "400 -> 600ms  +50.0%")
	assert.Contains(t, out, "100 -> 100ms  +0.0%")

	err := compareReports(before, after, 0.05, true, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "1 strategies slower than baseline", err.Error())

	require.NoError(t, compareReports(after, before, 0.05, true, &bytes.Buffer{}))
}

func TestPrintStrategies(t *testing.T) {
	buf := &bytes.Buffer{}
	printStrategies(buf, config.Default())

	out := buf.String()
	assert.Contains(t, out, "Bounded Elastic (bounded-elastic)")
	assert.Contains(t, out, "1. Single")
	assert.Contains(t, out, "5. Immediate")
	assert.Contains(t, out, "Workload: 120 elements, 50ms average, fail every 25, 200ms on fail")
}

func TestRootCommand_Strategies(t *testing.T) {
	buf := &bytes.Buffer{}
	RootCmd.SetOut(buf)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetArgs([]string{"strategies"})
	defer func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	}()

	require.NoError(t, RootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, buf.String(), "Configured strategies (Scheduler Benchmark):")
}
