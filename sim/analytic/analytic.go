// Package analytic provides closed-form queueing references to compare
// simulated estimates against.
//
// All rates are per time unit. l is the arrival rate, u the per-server
// service rate, c the server count.
package analytic

import (
	"fmt"
	"math"
)

// Model names the queueing model a Reference was computed for.
type Model string

const (
	ModelMD1 Model = "M/D/1" // exact, Pollaczek-Khinchine
	ModelMMc Model = "M/M/c" // exact, Erlang C
	ModelMDc Model = "M/D/c" // approximation: half the M/M/c wait
)

// Reference holds the steady-state predictions of a model.
// An unstable system (Utilization >= 1) has Stable=false and +Inf waits.
type Reference struct {
	Model       Model
	Utilization float64 // rho = l / (c*u)
	Stable      bool
	Exact       bool // false when the values are an approximation

	MeanWait       float64 // Wq
	MeanCompletion float64 // Wq + 1/u
	MeanQueueDepth float64 // Lq = l*Wq (Little's law)
	PWaitZero      float64 // probability an arrival starts service immediately; NaN when not known
}

func validate(l, u float64, c int) error {
	if !(l > 0) || math.IsInf(l, 0) {
		return fmt.Errorf("arrival rate must be a finite value > 0, got %v", l)
	}
	if !(u > 0) || math.IsInf(u, 0) {
		return fmt.Errorf("service rate must be a finite value > 0, got %v", u)
	}
	if c <= 0 {
		return fmt.Errorf("server count must be > 0, got %d", c)
	}
	return nil
}

// unstable fills a Reference for rho >= 1.
func unstable(model Model, rho float64, exact bool) Reference {
	return Reference{
		Model:          model,
		Utilization:    rho,
		Exact:          exact,
		MeanWait:       math.Inf(1),
		MeanCompletion: math.Inf(1),
		MeanQueueDepth: math.Inf(1),
		PWaitZero:      0,
	}
}

// MD1 returns the exact M/D/1 reference. Mean wait follows
// Pollaczek-Khinchine with zero service variance: rho/(2(1-rho)) * 1/u.
func MD1(l, u float64) (Reference, error) {
	if err := validate(l, u, 1); err != nil {
		return Reference{}, err
	}
	rho := l / u
	if rho >= 1 {
		return unstable(ModelMD1, rho, true), nil
	}
	d := 1 / u
	wq := rho / (2 * (1 - rho)) * d
	return Reference{
		Model:          ModelMD1,
		Utilization:    rho,
		Stable:         true,
		Exact:          true,
		MeanWait:       wq,
		MeanCompletion: wq + d,
		MeanQueueDepth: l * wq,
		PWaitZero:      1 - rho,
	}, nil
}

// ErlangC returns the probability that an arrival must wait in an M/M/c
// queue with offered load a = l/u. It uses the Erlang B recursion, which
// stays stable for large c. Returns 1 when a >= c.
func ErlangC(c int, a float64) float64 {
	if a >= float64(c) {
		return 1
	}
	b := 1.0
	for k := 1; k <= c; k++ {
		b = a * b / (float64(k) + a*b)
	}
	return float64(c) * b / (float64(c) - a*(1-b))
}

// MMc returns the exact M/M/c reference.
func MMc(l, u float64, c int) (Reference, error) {
	if err := validate(l, u, c); err != nil {
		return Reference{}, err
	}
	rho := l / (float64(c) * u)
	if rho >= 1 {
		return unstable(ModelMMc, rho, true), nil
	}
	pw := ErlangC(c, l/u)
	wq := pw / (float64(c)*u - l)
	return Reference{
		Model:          ModelMMc,
		Utilization:    rho,
		Stable:         true,
		Exact:          true,
		MeanWait:       wq,
		MeanCompletion: wq + 1/u,
		MeanQueueDepth: l * wq,
		PWaitZero:      1 - pw,
	}, nil
}

// MDc returns the M/D/c reference. For c == 1 it is the exact M/D/1 result.
// Otherwise the mean wait is approximated as half the M/M/c wait, and
// PWaitZero is NaN.
func MDc(l, u float64, c int) (Reference, error) {
	if err := validate(l, u, c); err != nil {
		return Reference{}, err
	}
	if c == 1 {
		ref, err := MD1(l, u)
		ref.Model = ModelMDc
		return ref, err
	}
	mmc, err := MMc(l, u, c)
	if err != nil {
		return Reference{}, err
	}
	if !mmc.Stable {
		return unstable(ModelMDc, mmc.Utilization, false), nil
	}
	wq := mmc.MeanWait / 2
	return Reference{
		Model:          ModelMDc,
		Utilization:    mmc.Utilization,
		Stable:         true,
		Exact:          false,
		MeanWait:       wq,
		MeanCompletion: wq + 1/u,
		MeanQueueDepth: l * wq,
		PWaitZero:      math.NaN(),
	}, nil
}
