package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wesleyorama2/schedbench/internal/bench/scheduler"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the entire benchmark configuration.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *BenchmarkConfig) Validate() error {
	errs := &ValidationErrors{}

	validateWorkload(&c.Workload, errs)

	if len(c.Strategies) == 0 {
		errs.Add("strategies", "at least one strategy is required")
	}

	seen := make(map[string]bool, len(c.Strategies))
	immediates := 0
	for i, s := range c.Strategies {
		prefix := fmt.Sprintf("strategies[%d]", i)
		if s.Name != "" {
			if seen[s.Name] {
				errs.Add(prefix+".name", fmt.Sprintf("duplicate strategy name %q", s.Name))
			}
			seen[s.Name] = true
		}
		if s.Type == string(scheduler.TypeImmediate) {
			immediates++
		}
		validateStrategy(prefix, s, errs)
	}

	// A second immediate strategy could only start after the first finished.
	if immediates > 1 {
		errs.Add("strategies", "at most one immediate strategy is allowed")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateWorkload(w *WorkloadConfig, errs *ValidationErrors) {
	if w.Count < 0 {
		errs.Add("workload.count", "count must be >= 0")
	}
	if w.AverageDelay < 0 {
		errs.Add("workload.averageDelay", "averageDelay must be >= 0")
	}
	if w.FailEvery < 1 {
		errs.Add("workload.failEvery", "failEvery must be >= 1")
	}
	if w.FailDelay < 0 {
		errs.Add("workload.failDelay", "failDelay must be >= 0")
	}
}

func validateStrategy(prefix string, s StrategyConfig, errs *ValidationErrors) {
	if !scheduler.IsValidType(s.Type) && s.Type != "" {
		errs.Add(prefix+".type", fmt.Sprintf("unknown strategy type %q (supported: single, parallel, bounded-elastic, immediate)", s.Type))
		return
	}

	cfg := s.SchedulerConfig()
	if err := cfg.Validate(); err != nil {
		var ve *scheduler.ValidationError
		if errors.As(err, &ve) {
			errs.Add(prefix+"."+ve.Field, ve.Message)
			return
		}
		errs.Add(prefix, err.Error())
	}
}
