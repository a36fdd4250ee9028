package bench

import (
	"sort"
	"sync"
)

// UtilizationTracker records the distinct execution contexts each strategy used.
//
// It is safe for concurrent use by many in-flight tasks across strategies.
type UtilizationTracker struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// NewUtilizationTracker creates an empty tracker.
func NewUtilizationTracker() *UtilizationTracker {
	return &UtilizationTracker{sets: make(map[string]map[string]struct{})}
}

// Register adds contextID to the strategy's set. Repeated registrations are no-ops.
func (t *UtilizationTracker) Register(strategy, contextID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.sets[strategy]
	if !ok {
		set = make(map[string]struct{})
		t.sets[strategy] = set
	}
	set[contextID] = struct{}{}
}

// Count returns the number of distinct contexts recorded for strategy.
func (t *UtilizationTracker) Count(strategy string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sets[strategy])
}

// Contexts returns the sorted context identifiers recorded for strategy.
func (t *UtilizationTracker) Contexts(strategy string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.sets[strategy]))
	for id := range t.sets[strategy] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Counts returns the cardinality of every strategy's set.
func (t *UtilizationTracker) Counts() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]int, len(t.sets))
	for name, set := range t.sets {
		out[name] = len(set)
	}
	return out
}
