// Package metrics collects per-strategy task statistics for the benchmark.
//
// Task processing times are recorded in an HDR histogram, so percentiles
// stay accurate without keeping every sample. Outcome counters are atomic.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Outcome is the terminal state of a task.
type Outcome string

const (
	// OutcomeDelivered means the task produced a value.
	OutcomeDelivered Outcome = "delivered"

	// OutcomeSkipped means the task failed, recovered and produced nothing.
	OutcomeSkipped Outcome = "skipped"
)

// Recorder collects the metrics of a single strategy run.
//
// # Thread Safety
//
// Recorder is safe for concurrent use. Counters are atomic and the
// histogram is guarded by a mutex because RecordValue is not thread-safe.
type Recorder struct {
	hist   *hdrhistogram.Histogram
	histMu sync.Mutex

	delivered      atomic.Int64
	skipped        atomic.Int64
	recoveries     atomic.Int64
	interrupted    atomic.Int64
	terminalErrors atomic.Int64

	config RecorderConfig
}

// RecorderConfig contains histogram bounds.
type RecorderConfig struct {
	// HistogramMin is the minimum recordable value in microseconds (default: 1)
	HistogramMin int64

	// HistogramMax is the maximum recordable value in microseconds (default: 1 hour)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultRecorderConfig returns the default configuration.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		HistogramMin:     1,
		HistogramMax:     3600000000,
		HistogramSigFigs: 3,
	}
}

// NewRecorder creates a recorder with the default configuration.
func NewRecorder() *Recorder {
	return NewRecorderWithConfig(DefaultRecorderConfig())
}

// NewRecorderWithConfig creates a recorder with custom histogram bounds.
func NewRecorderWithConfig(config RecorderConfig) *Recorder {
	return &Recorder{
		hist:   hdrhistogram.New(config.HistogramMin, config.HistogramMax, config.HistogramSigFigs),
		config: config,
	}
}

// RecordTask records how long a task occupied its context and how it ended.
func (r *Recorder) RecordTask(d time.Duration, outcome Outcome) {
	micros := d.Microseconds()
	if micros < r.config.HistogramMin {
		micros = r.config.HistogramMin
	}
	if micros > r.config.HistogramMax {
		micros = r.config.HistogramMax
	}

	r.histMu.Lock()
	_ = r.hist.RecordValue(micros)
	r.histMu.Unlock()

	switch outcome {
	case OutcomeDelivered:
		r.delivered.Add(1)
	case OutcomeSkipped:
		r.skipped.Add(1)
	}
}

// RecordRecovery counts a completed failure recovery.
func (r *Recorder) RecordRecovery() {
	r.recoveries.Add(1)
}

// RecordInterruptedWait counts a simulated wait that ended early.
func (r *Recorder) RecordInterruptedWait() {
	r.interrupted.Add(1)
}

// RecordTerminalError counts an error that reached the pipeline safety net.
func (r *Recorder) RecordTerminalError() {
	r.terminalErrors.Add(1)
}

// Snapshot returns a point-in-time view of the recorded metrics.
func (r *Recorder) Snapshot() Snapshot {
	r.histMu.Lock()
	latency := TaskLatency{
		Min:   time.Duration(r.hist.Min()) * time.Microsecond,
		Max:   time.Duration(r.hist.Max()) * time.Microsecond,
		Mean:  time.Duration(r.hist.Mean()) * time.Microsecond,
		P50:   time.Duration(r.hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:   time.Duration(r.hist.ValueAtQuantile(90)) * time.Microsecond,
		P99:   time.Duration(r.hist.ValueAtQuantile(99)) * time.Microsecond,
		Count: r.hist.TotalCount(),
	}
	r.histMu.Unlock()

	return Snapshot{
		Delivered:        r.delivered.Load(),
		Skipped:          r.skipped.Load(),
		Recoveries:       r.recoveries.Load(),
		InterruptedWaits: r.interrupted.Load(),
		TerminalErrors:   r.terminalErrors.Load(),
		TaskLatency:      latency,
	}
}

// Snapshot contains the metrics of one strategy run.
type Snapshot struct {
	Delivered        int64       `json:"delivered"`
	Skipped          int64       `json:"skipped"`
	Recoveries       int64       `json:"recoveries"`
	InterruptedWaits int64       `json:"interruptedWaits"`
	TerminalErrors   int64       `json:"terminalErrors"`
	TaskLatency      TaskLatency `json:"taskLatency"`
}

// TaskLatency contains task processing-time statistics.
type TaskLatency struct {
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P90   time.Duration `json:"p90"`
	P99   time.Duration `json:"p99"`
	Count int64         `json:"count"`
}
