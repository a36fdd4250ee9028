package report

import "math"

// DefaultTolerance is the relative change below which a strategy is reported unchanged.
const DefaultTolerance = 0.05

// Status classifies a strategy's change against the baseline.
type Status string

const (
	StatusFaster    Status = "faster"
	StatusSlower    Status = "slower"
	StatusUnchanged Status = "unchanged"
	StatusNew       Status = "new"
	StatusMissing   Status = "missing"
)

// Delta is the change of one strategy between baseline and current run.
type Delta struct {
	Name       string
	BaselineMs int64
	CurrentMs  int64
	DeltaMs    int64
	// Percent is the relative change; positive means slower.
	Percent float64
	Status  Status
}

// Comparison is the result of comparing a run against a baseline.
type Comparison struct {
	BaselineName string
	CurrentName  string
	// FingerprintMismatch is set when the two runs used different workloads,
	// which makes elapsed times only loosely comparable.
	FingerprintMismatch bool
	Deltas              []Delta
}

// Regressions returns the strategies that got slower.
func (c *Comparison) Regressions() []Delta {
	var out []Delta
	for _, d := range c.Deltas {
		if d.Status == StatusSlower {
			out = append(out, d)
		}
	}
	return out
}

// Compare compares current against baseline. Strategies are listed in the
// current run's order, then those only present in the baseline.
func Compare(baseline, current *Baseline, tolerance float64) *Comparison {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	c := &Comparison{
		BaselineName:        baseline.Name,
		CurrentName:         current.Name,
		FingerprintMismatch: baseline.Fingerprint != current.Fingerprint,
	}

	for _, cur := range current.Strategies {
		base, ok := baseline.Strategy(cur.Name)
		if !ok {
			c.Deltas = append(c.Deltas, Delta{Name: cur.Name, CurrentMs: cur.ElapsedMs, Status: StatusNew})
			continue
		}
		c.Deltas = append(c.Deltas, newDelta(cur.Name, base.ElapsedMs, cur.ElapsedMs, tolerance))
	}

	for _, base := range baseline.Strategies {
		if _, ok := current.Strategy(base.Name); !ok {
			c.Deltas = append(c.Deltas, Delta{Name: base.Name, BaselineMs: base.ElapsedMs, Status: StatusMissing})
		}
	}

	return c
}

func newDelta(name string, baseMs, curMs int64, tolerance float64) Delta {
	d := Delta{
		Name:       name,
		BaselineMs: baseMs,
		CurrentMs:  curMs,
		DeltaMs:    curMs - baseMs,
		Status:     StatusUnchanged,
	}

	switch {
	case baseMs > 0:
		d.Percent = float64(d.DeltaMs) / float64(baseMs)
	case curMs > 0:
		d.Percent = math.Inf(1)
	}

	if math.Abs(d.Percent) >= tolerance {
		if d.DeltaMs > 0 {
			d.Status = StatusSlower
		} else {
			d.Status = StatusFaster
		}
	}
	return d
}
