package scheduler

import (
	"log/slog"

	"go.trai.ch/zerr"

	"github.com/wesleyorama2/schedbench/internal/bench"
)

// New creates a scheduler from its configuration.
//
// Supported types:
//   - "single" - one context, submission order preserved
//   - "parallel" - a fixed pool of Parallelism contexts
//   - "bounded-elastic" - grows on demand up to MaxWorkers contexts
//   - "immediate" - runs on the submitting context
func New(cfg Config, logger *slog.Logger) (Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid strategy"), "strategy", cfg.Name)
	}

	switch cfg.Type {
	case TypeSingle:
		return NewSingle(cfg.Name, logger), nil
	case TypeParallel:
		return NewParallel(cfg.Name, cfg.Parallelism, logger), nil
	case TypeBoundedElastic:
		return NewBoundedElastic(cfg.Name, cfg.MaxWorkers, cfg.QueueCapacity, cfg.IdleTTL, logger), nil
	case TypeImmediate:
		return NewImmediate(cfg.Name), nil
	default:
		return nil, zerr.With(zerr.Wrap(bench.ErrUnknownStrategy, string(cfg.Type)), "type", string(cfg.Type))
	}
}

// IsValidType returns true if the type is a supported strategy type.
func IsValidType(t string) bool {
	switch Type(t) {
	case TypeSingle, TypeParallel, TypeBoundedElastic, TypeImmediate:
		return true
	default:
		return false
	}
}

// SupportedTypes returns every supported strategy type.
func SupportedTypes() []Type {
	return []Type{TypeSingle, TypeParallel, TypeBoundedElastic, TypeImmediate}
}

// MaxContexts returns the largest number of contexts a configuration may use.
func MaxContexts(cfg Config) int {
	switch cfg.Type {
	case TypeSingle, TypeImmediate:
		return 1
	case TypeParallel:
		return cfg.Parallelism
	case TypeBoundedElastic:
		if cfg.MaxWorkers > 0 {
			return cfg.MaxWorkers
		}
		return DefaultMaxWorkers()
	default:
		return 0
	}
}

// Description documents a strategy type.
type Description struct {
	Type        Type
	Name        string
	Description string
	UseCases    []string
}

// Describe returns documentation for a strategy type, or nil if unknown.
func Describe(t Type) *Description {
	switch t {
	case TypeSingle:
		return &Description{
			Type:        TypeSingle,
			Name:        "Single",
			Description: "One dedicated context runs every task in submission order.",
			UseCases: []string{
				"Baseline for fully serial blocking work",
				"Work that must not run concurrently",
			},
		}
	case TypeParallel:
		return &Description{
			Type:        TypeParallel,
			Name:        "Parallel",
			Description: "A fixed pool of contexts. Tasks are assigned round-robin, so a slow task delays the tasks queued behind it on the same context.",
			UseCases: []string{
				"CPU-bound work sized to the core count",
				"Blocking work with a known concurrency limit",
			},
		}
	case TypeBoundedElastic:
		return &Description{
			Type:        TypeBoundedElastic,
			Name:        "Bounded Elastic",
			Description: "Spawns contexts on demand up to a ceiling, reuses idle ones and retires them after an idle TTL. Excess work waits in a bounded queue.",
			UseCases: []string{
				"Blocking I/O wrapped for a non-blocking caller",
				"Bursty workloads where idle contexts should not be kept",
			},
		}
	case TypeImmediate:
		return &Description{
			Type:        TypeImmediate,
			Name:        "Immediate",
			Description: "No offloading: each task runs on the caller before submission returns. It monopolizes the caller, so it is started after every other strategy.",
			UseCases: []string{
				"Measuring dispatch overhead",
				"Work already running on a dedicated context",
			},
		}
	default:
		return nil
	}
}
