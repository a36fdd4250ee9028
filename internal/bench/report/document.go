// Package report renders benchmark results as JSON and HTML documents and
// compares a run against a saved baseline.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wesleyorama2/schedbench/internal/bench/engine"
	"github.com/wesleyorama2/schedbench/internal/bench/metrics"
)

// DocumentVersion is the version of the JSON report layout.
const DocumentVersion = "1"

// Document is the JSON report of a benchmark run. It doubles as the
// baseline format read by LoadBaseline.
type Document struct {
	Version     string             `json:"version"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Mode        string             `json:"mode"`
	GeneratedAt string             `json:"generatedAt"`
	StartTime   string             `json:"startTime"`
	DurationMs  int64              `json:"durationMs"`
	Workload    WorkloadDocument   `json:"workload"`
	Strategies  []StrategyDocument `json:"strategies"`
}

// WorkloadDocument describes the workload of the run.
type WorkloadDocument struct {
	Count            int    `json:"count"`
	AverageDelayMs   int64  `json:"averageDelayMs"`
	FailEvery        int    `json:"failEvery"`
	FailDelayMs      int64  `json:"failDelayMs"`
	Seed             int64  `json:"seed,omitempty"`
	Fingerprint      string `json:"fingerprint"`
	ReferenceTotalMs int64  `json:"referenceTotalMs"`
	Failing          []int  `json:"failing"`
}

// StrategyDocument is the outcome of one strategy.
type StrategyDocument struct {
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	ElapsedMs        int64            `json:"elapsedMs"`
	UtilizedContexts int              `json:"utilizedContexts"`
	Contexts         []string         `json:"contexts"`
	Delivered        []int            `json:"delivered"`
	Skipped          []int            `json:"skipped"`
	Metrics          metrics.Snapshot `json:"metrics"`
}

// NewDocument builds the JSON report of a benchmark result.
func NewDocument(result *engine.BenchmarkResult) *Document {
	doc := &Document{
		Version:     DocumentVersion,
		Name:        result.Name,
		Description: result.Description,
		Mode:        string(result.Mode),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		StartTime:   result.StartTime.UTC().Format(time.RFC3339Nano),
		DurationMs:  result.Duration.Milliseconds(),
		Workload: WorkloadDocument{
			Count:            result.Workload.Count,
			AverageDelayMs:   result.Workload.AverageDelay.Milliseconds(),
			FailEvery:        result.Workload.FailEvery,
			FailDelayMs:      result.Workload.FailDelay.Milliseconds(),
			Seed:             result.Workload.Seed,
			Fingerprint:      result.Workload.Fingerprint,
			ReferenceTotalMs: result.Workload.ReferenceTotal.Milliseconds(),
			Failing:          nonNil(result.Workload.Failing),
		},
		Strategies: make([]StrategyDocument, 0, len(result.Strategies)),
	}

	for _, s := range result.Strategies {
		doc.Strategies = append(doc.Strategies, StrategyDocument{
			Name:             s.Name,
			Type:             string(s.Type),
			ElapsedMs:        s.ElapsedMillis(),
			UtilizedContexts: s.UtilizedContexts,
			Contexts:         nonNilStrings(s.Contexts),
			Delivered:        nonNil(s.Values()),
			Skipped:          nonNil(s.Skipped),
			Metrics:          s.Metrics,
		})
	}

	return doc
}

// WriteJSON writes the JSON report of result to w.
func WriteJSON(w io.Writer, result *engine.BenchmarkResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(result)); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// SaveJSON writes the JSON report of result to a file.
func SaveJSON(result *engine.BenchmarkResult, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer f.Close()

	return WriteJSON(f, result)
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
