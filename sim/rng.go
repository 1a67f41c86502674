package sim

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical statistics.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

// SubsystemArrivals is the RNG subsystem for interarrival times.
// Uses the master seed directly so --seed N reproduces a single run.
const SubsystemArrivals = "arrivals"

// SubsystemRun returns the subsystem name for the run with the given name
// inside a sweep.
func SubsystemRun(name string) string {
	return fmt.Sprintf("run_%s", name)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemArrivals: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.SeedFor(name)))
	p.subsystems[name] = rng
	return rng
}

// SeedFor returns the derived seed of the named subsystem without creating
// an RNG. Sweeps use it to hand each run its own master seed.
func (p *PartitionedRNG) SeedFor(name string) int64 {
	if name == SubsystemArrivals {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// resolveSeed returns *seed, or a wall-clock seed when seed is nil.
func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

// === Arrival samplers ===

// ArrivalSampler generates interarrival times for the arrival process.
type ArrivalSampler interface {
	// SampleIAT returns the time until the next arrival. +Inf means no
	// further arrivals.
	SampleIAT() float64
}

// ExpSampler draws exponentially distributed interarrival times, giving a
// Poisson arrival process.
type ExpSampler struct {
	rate float64
	rng  *rand.Rand
}

// NewExpSampler creates an ExpSampler with the given arrival rate.
// The exponential distribution is undefined for rate <= 0.
func NewExpSampler(rate float64, rng *rand.Rand) (*ExpSampler, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: exponential sampling needs a finite rate > 0, got %v", ErrInvalidConfig, rate)
	}
	if rng == nil {
		return nil, fmt.Errorf("NewExpSampler: rng must not be nil")
	}
	return &ExpSampler{rate: rate, rng: rng}, nil
}

// SampleIAT returns the next exponential interarrival time.
func (s *ExpSampler) SampleIAT() float64 {
	return s.rng.ExpFloat64() / s.rate
}

// ScriptedSampler replays a fixed sequence of interarrival times. Once the
// sequence is exhausted it returns +Inf, so no further arrivals happen.
type ScriptedSampler struct {
	draws []float64
	next  int
}

// NewScriptedSampler creates a sampler replaying draws in order.
func NewScriptedSampler(draws ...float64) *ScriptedSampler {
	return &ScriptedSampler{draws: draws}
}

// SampleIAT returns the next scripted draw, or +Inf when none remain.
func (s *ScriptedSampler) SampleIAT() float64 {
	if s.next >= len(s.draws) {
		return math.Inf(1)
	}
	d := s.draws[s.next]
	s.next++
	return d
}

// Remaining returns how many scripted draws are left.
func (s *ScriptedSampler) Remaining() int {
	return len(s.draws) - s.next
}
