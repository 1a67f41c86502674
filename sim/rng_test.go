package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// BDD: Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemRun("a")).Float64()
		v2 := rng2.ForSubsystem(SubsystemRun("a")).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_ArrivalsUseMasterSeed(t *testing.T) {
	// BDD: the arrivals subsystem reproduces rand.NewSource(seed) exactly
	p := NewPartitionedRNG(NewSimulationKey(7))
	direct := rand.New(rand.NewSource(7))

	assert.Equal(t, int64(7), p.SeedFor(SubsystemArrivals))
	for i := 0; i < 5; i++ {
		assert.Equal(t, direct.Float64(), p.ForSubsystem(SubsystemArrivals).Float64())
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// BDD: different run names get different seeds, and the RNG is cached
	p := NewPartitionedRNG(NewSimulationKey(42))
	assert.NotEqual(t, p.SeedFor(SubsystemRun("a")), p.SeedFor(SubsystemRun("b")))
	assert.Same(t, p.ForSubsystem(SubsystemRun("a")), p.ForSubsystem(SubsystemRun("a")))
	assert.Equal(t, SimulationKey(42), p.Key())
}

// === Sampler Tests ===

func TestExpSampler_MeanIAT_MatchesRate(t *testing.T) {
	// GIVEN a sampler at 4 arrivals per time unit
	s, err := NewExpSampler(4, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	// WHEN 20000 IATs are sampled
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		v := s.SampleIAT()
		require.Greater(t, v, 0.0)
		sum += v
	}

	// THEN the mean IAT is 1/rate within 5%
	mean := sum / float64(n)
	assert.InEpsilon(t, 0.25, mean, 0.05)
}

func TestNewExpSampler_InvalidRate_FailsFast(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewExpSampler(rate, rng)
		assert.True(t, errors.Is(err, ErrInvalidConfig), "rate %v: got %v", rate, err)
	}
	_, err := NewExpSampler(1, nil)
	assert.Error(t, err)
}

func TestScriptedSampler_ReplaysThenInf(t *testing.T) {
	s := NewScriptedSampler(0.5, 1.5)
	assert.Equal(t, 2, s.Remaining())
	assert.Equal(t, 0.5, s.SampleIAT())
	assert.Equal(t, 1.5, s.SampleIAT())
	assert.Equal(t, 0, s.Remaining())
	assert.True(t, math.IsInf(s.SampleIAT(), 1))
}

func TestResolveSeed(t *testing.T) {
	seed := int64(99)
	assert.Equal(t, int64(99), resolveSeed(&seed))
	assert.NotPanics(t, func() { resolveSeed(nil) })
}
