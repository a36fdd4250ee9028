// Package scheduler provides the execution-context pools a benchmark strategy
// dispatches its tasks onto.
package scheduler

import (
	"context"
	"runtime"
	"time"
)

// Type identifies a concurrency policy.
type Type string

const (
	// TypeSingle serializes all work on one context.
	TypeSingle Type = "single"

	// TypeParallel spreads work over a fixed number of contexts.
	TypeParallel Type = "parallel"

	// TypeBoundedElastic grows a context pool on demand up to a ceiling.
	TypeBoundedElastic Type = "bounded-elastic"

	// TypeImmediate runs work synchronously on the submitting context.
	TypeImmediate Type = "immediate"
)

// Work is a unit of work. It receives the identity of the context running it.
type Work func(contextID string)

// Scheduler owns a pool of execution contexts.
//
// Submit hands work to the pool; Dispose releases every owned context.
// Dispose is idempotent and never affects other schedulers.
type Scheduler interface {
	// Name returns the scheduler's display name.
	Name() string

	// Type returns the concurrency policy.
	Type() Type

	// Capacity returns the maximum number of contexts the pool may use.
	Capacity() int

	// Submit schedules work. It returns ErrSchedulerDisposed after Dispose.
	Submit(ctx context.Context, work Work) error

	// Dispose releases the pool. Work already queued still runs.
	Dispose()

	// IsDisposed reports whether Dispose has been called.
	IsDisposed() bool
}

// Config describes a scheduler to build.
type Config struct {
	// Name is the display name of the strategy.
	Name string `json:"name" yaml:"name"`

	// Type is the concurrency policy.
	Type Type `json:"type" yaml:"type"`

	// Parallelism is the number of contexts for TypeParallel.
	Parallelism int `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`

	// MaxWorkers caps TypeBoundedElastic (default: 10 x GOMAXPROCS).
	MaxWorkers int `json:"maxWorkers,omitempty" yaml:"maxWorkers,omitempty"`

	// QueueCapacity bounds pending work for TypeBoundedElastic (default: 100000).
	QueueCapacity int `json:"queueCapacity,omitempty" yaml:"queueCapacity,omitempty"`

	// IdleTTL is how long an idle TypeBoundedElastic context lives (default: 60s).
	IdleTTL time.Duration `json:"idleTTL,omitempty" yaml:"idleTTL,omitempty"`
}

const (
	// DefaultQueueCapacity is the bounded-elastic pending work limit.
	DefaultQueueCapacity = 100000

	// DefaultIdleTTL is how long an idle bounded-elastic worker is kept.
	DefaultIdleTTL = 60 * time.Second
)

// DefaultMaxWorkers returns the bounded-elastic ceiling for this machine.
func DefaultMaxWorkers() int {
	return 10 * runtime.GOMAXPROCS(0)
}

// Validate validates the scheduler configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	switch c.Type {
	case "":
		return &ValidationError{Field: "type", Message: "strategy type is required"}

	case TypeSingle, TypeImmediate:

	case TypeParallel:
		if c.Parallelism <= 0 {
			return &ValidationError{Field: "parallelism", Message: "parallelism must be > 0"}
		}

	case TypeBoundedElastic:
		if c.MaxWorkers < 0 {
			return &ValidationError{Field: "maxWorkers", Message: "maxWorkers must be >= 0"}
		}
		if c.QueueCapacity < 0 {
			return &ValidationError{Field: "queueCapacity", Message: "queueCapacity must be >= 0"}
		}
		if c.IdleTTL < 0 {
			return &ValidationError{Field: "idleTTL", Message: "idleTTL must be >= 0"}
		}

	default:
		return &ValidationError{Field: "type", Message: "unknown strategy type: " + string(c.Type)}
	}

	return nil
}

// ValidationError represents a scheduler configuration error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}
