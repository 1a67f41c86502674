package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config groups the parameters of one M/D/c run.
type Config struct {
	ArrivalRate   float64 // l: mean arrivals per time unit (must be > 0)
	ServiceRate   float64 // u: services per time unit per server (must be > 0); service time is 1/u
	ServerCount   int     // c: parallel servers (must be > 0)
	WaitThreshold float64 // wait time boundary for the threshold partition (must be >= 0)
	Horizon       float64 // simulated end time; <= 0 gives an empty run

	// Seed for the arrival process. nil draws one from the wall clock; the
	// seed actually used is reported in RunResult.Seed.
	Seed *int64
	// Trace records every dispatched event in RunResult.Trace.
	Trace bool
}

// ServiceTime returns the deterministic service time 1/u.
func (c Config) ServiceTime() float64 {
	return 1 / c.ServiceRate
}

// Validate reports a descriptive error for mathematically invalid
// parameters. Values are never clamped.
func (c Config) Validate() error {
	if !(c.ArrivalRate > 0) || math.IsInf(c.ArrivalRate, 0) {
		return fmt.Errorf("%w: arrival rate must be a finite value > 0, got %v", ErrInvalidConfig, c.ArrivalRate)
	}
	if !(c.ServiceRate > 0) || math.IsInf(c.ServiceRate, 0) {
		return fmt.Errorf("%w: service rate must be a finite value > 0, got %v", ErrInvalidConfig, c.ServiceRate)
	}
	if c.ServerCount <= 0 {
		return fmt.Errorf("%w: server count must be > 0, got %d", ErrInvalidConfig, c.ServerCount)
	}
	if !(c.WaitThreshold >= 0) {
		return fmt.Errorf("%w: wait threshold must be >= 0, got %v", ErrInvalidConfig, c.WaitThreshold)
	}
	if math.IsNaN(c.Horizon) || math.IsInf(c.Horizon, 0) {
		return fmt.Errorf("%w: horizon must be finite, got %v", ErrInvalidConfig, c.Horizon)
	}
	return nil
}

// WithSeed returns a copy of c using seed.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}
