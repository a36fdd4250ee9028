package pipeline

import (
	"time"

	"github.com/wesleyorama2/schedbench/internal/bench/metrics"
	"github.com/wesleyorama2/schedbench/internal/bench/scheduler"
)

// Delivery is one task value released to the result sequence.
type Delivery struct {
	// Index is the task index, which is also the delivered value.
	Index int `json:"index"`

	// ContextID is the context that ran the task.
	ContextID string `json:"contextId"`

	// DeliveredBy is the context that released the value. It differs from
	// ContextID when the task finished before a predecessor.
	DeliveredBy string `json:"deliveredBy"`

	Timestamp time.Time `json:"timestamp"`
}

// Result is the outcome of one strategy run. It is built by its pipeline
// and never modified once the completion callback has been invoked.
type Result struct {
	Name             string           `json:"name"`
	Type             scheduler.Type   `json:"type"`
	StartTime        time.Time        `json:"startTime"`
	EndTime          time.Time        `json:"endTime"`
	Elapsed          time.Duration    `json:"elapsed"`
	UtilizedContexts int              `json:"utilizedContexts"`
	Contexts         []string         `json:"contexts"`
	Delivered        []Delivery       `json:"delivered"`
	Skipped          []int            `json:"skipped"`
	Metrics          metrics.Snapshot `json:"metrics"`
}

// ElapsedMillis returns the wall-clock run time in milliseconds.
func (r *Result) ElapsedMillis() int64 {
	return r.Elapsed.Milliseconds()
}

// Values returns the delivered values in delivery order.
func (r *Result) Values() []int {
	out := make([]int, len(r.Delivered))
	for i, d := range r.Delivered {
		out[i] = d.Index
	}
	return out
}
