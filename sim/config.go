package sim

import (
	"fmt"
	"math"
)

// DefaultInitialStock is the stock level a run starts with when none is configured.
const DefaultInitialStock int64 = 10000

// MaxDelayDays bounds DelayMax so the delay draw range fits a 32-bit int and
// the class-multiplier product stays exact in float64.
const MaxDelayDays int64 = math.MaxInt32 - 1

// SimConfig groups the run-level parameters of a fulfillment simulation.
type SimConfig struct {
	InitialStock      int64   // units on hand at time 0 (must be >= 0)
	ReturnRatePercent float64 // probability of a return, in percent [0, 100]
	DelayMin          int64   // inclusive lower bound of the base delivery delay (days)
	DelayMax          int64   // inclusive upper bound of the base delivery delay (days)
	Seed              int64   // master seed for the fulfillment random stream
}

// NewSimConfig creates a SimConfig with all fields explicitly set.
func NewSimConfig(initialStock int64, returnRatePercent float64, delayMin, delayMax, seed int64) SimConfig {
	return SimConfig{
		InitialStock:      initialStock,
		ReturnRatePercent: returnRatePercent,
		DelayMin:          delayMin,
		DelayMax:          delayMax,
		Seed:              seed,
	}
}

// ReturnRate is the return probability as a fraction in [0, 1].
func (c SimConfig) ReturnRate() float64 {
	return c.ReturnRatePercent / 100
}

// Validate returns a *ConfigurationError for the first invalid field, or nil.
func (c SimConfig) Validate() error {
	if c.InitialStock < 0 {
		return &ConfigurationError{Field: "initial stock", Reason: "must be >= 0"}
	}
	if math.IsNaN(c.ReturnRatePercent) || c.ReturnRatePercent < 0 || c.ReturnRatePercent > 100 {
		return &ConfigurationError{Field: "return rate", Reason: "must be within [0, 100] percent"}
	}
	if c.DelayMin < 0 {
		return &ConfigurationError{Field: "delay min", Reason: "must be >= 0"}
	}
	if c.DelayMax > MaxDelayDays {
		return &ConfigurationError{Field: "delay max", Reason: fmt.Sprintf("must be <= %d", MaxDelayDays)}
	}
	if c.DelayMin > c.DelayMax {
		return &ConfigurationError{Field: "delay min", Reason: "must not exceed delay max"}
	}
	return nil
}
