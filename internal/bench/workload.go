// Package bench holds the domain types shared by every part of the scheduler
// benchmark: the simulated workload, failure injection, execution-context
// identity and utilization tracking.
package bench

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Task is a single unit of simulated blocking work.
type Task struct {
	// Index is the position of the task in the workload (0..N-1).
	Index int

	// Duration is how long the task blocks its execution context.
	Duration time.Duration
}

// Workload is the ordered, read-only sequence of tasks shared by all strategies.
type Workload struct {
	Tasks        []Task
	AverageDelay time.Duration
}

// Generate produces count tasks whose durations are drawn uniformly from
// [0, 2*averageDelay) at millisecond granularity.
//
// A nil rng uses a time-seeded source.
func Generate(count int, averageDelay time.Duration, rng *rand.Rand) *Workload {
	if count < 0 {
		count = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	bound := 2 * averageDelay.Milliseconds()
	tasks := make([]Task, count)
	for i := range tasks {
		var ms int64
		if bound > 0 {
			ms = rng.Int63n(bound)
		}
		tasks[i] = Task{Index: i, Duration: time.Duration(ms) * time.Millisecond}
	}

	return &Workload{Tasks: tasks, AverageDelay: averageDelay}
}

// NewSeededRand returns a rand source for the given seed. A zero seed is
// replaced with the current time.
func NewSeededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Len returns the number of tasks.
func (w *Workload) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Tasks)
}

// TotalWork returns the sum of all task durations: the reference serial time.
func (w *Workload) TotalWork() time.Duration {
	var total time.Duration
	for _, t := range w.Tasks {
		total += t.Duration
	}
	return total
}

// Fingerprint identifies the workload by the xxhash of its durations.
// Two workloads with the same task durations in the same order share a fingerprint.
func (w *Workload) Fingerprint() string {
	h := xxhash.New()
	var buf [8]byte
	for _, t := range w.Tasks {
		binary.LittleEndian.PutUint64(buf[:], uint64(t.Duration))
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
