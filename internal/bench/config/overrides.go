package config

import "time"

// Overrides holds values set on the command line. Nil fields leave the
// configuration unchanged.
type Overrides struct {
	Name         *string
	Count        *int
	AverageDelay *time.Duration
	FailEvery    *int
	FailDelay    *time.Duration
	Seed         *int64
	Isolated     *bool
	SortRanking  *bool
}

// ApplyOverrides applies command-line values on top of the configuration.
func (c *BenchmarkConfig) ApplyOverrides(o Overrides) {
	if c.Options == nil {
		c.Options = &ExecutionOptions{}
	}

	if o.Name != nil {
		c.Name = *o.Name
	}
	if o.Count != nil {
		c.Workload.Count = *o.Count
	}
	if o.AverageDelay != nil {
		c.Workload.AverageDelay = Duration(*o.AverageDelay)
	}
	if o.FailEvery != nil {
		c.Workload.FailEvery = *o.FailEvery
	}
	if o.FailDelay != nil {
		c.Workload.FailDelay = Duration(*o.FailDelay)
	}
	if o.Seed != nil {
		c.Workload.Seed = *o.Seed
	}
	if o.Isolated != nil {
		c.Options.Isolated = *o.Isolated
	}
	if o.SortRanking != nil {
		c.Options.SortRanking = *o.SortRanking
	}
}
