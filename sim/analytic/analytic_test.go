package analytic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMD1_HalfLoad_MatchesPollaczekKhinchine(t *testing.T) {
	// GIVEN l=1, u=2 (service time 0.5, rho 0.5)
	ref, err := MD1(1.0, 2.0)
	require.NoError(t, err)

	// THEN Wq = 0.5/(2*0.5) * 0.5 = 0.25
	assert.True(t, ref.Stable)
	assert.True(t, ref.Exact)
	assert.InDelta(t, 0.5, ref.Utilization, 1e-12)
	assert.InDelta(t, 0.25, ref.MeanWait, 1e-12)
	assert.InDelta(t, 0.75, ref.MeanCompletion, 1e-12)
	assert.InDelta(t, 0.25, ref.MeanQueueDepth, 1e-12)
	assert.InDelta(t, 0.5, ref.PWaitZero, 1e-12)
}

func TestErlangC_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		c    int
		a    float64
		want float64
	}{
		{"single server equals rho", 1, 0.5, 0.5},
		{"two servers unit load", 2, 1.0, 1.0 / 3.0},
		{"saturated", 3, 3.0, 1.0},
		{"overloaded", 2, 5.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ErlangC(tt.c, tt.a), 1e-12)
		})
	}
}

func TestMMc_SingleServer_MatchesMM1(t *testing.T) {
	// GIVEN an M/M/1 queue with l=1, u=2
	ref, err := MMc(1.0, 2.0, 1)
	require.NoError(t, err)

	// THEN Wq = rho/(u-l) = 0.5
	assert.InDelta(t, 0.5, ref.MeanWait, 1e-12)
	assert.InDelta(t, 0.5, ref.PWaitZero, 1e-12)
}

func TestMDc_SingleServer_IsExactMD1(t *testing.T) {
	md1, err := MD1(1.5, 2.0)
	require.NoError(t, err)
	mdc, err := MDc(1.5, 2.0, 1)
	require.NoError(t, err)

	assert.Equal(t, ModelMDc, mdc.Model)
	assert.True(t, mdc.Exact)
	assert.InDelta(t, md1.MeanWait, mdc.MeanWait, 1e-12)
}

func TestMDc_MultiServer_HalfOfMMc(t *testing.T) {
	mmc, err := MMc(3.0, 2.0, 2)
	require.NoError(t, err)
	mdc, err := MDc(3.0, 2.0, 2)
	require.NoError(t, err)

	assert.False(t, mdc.Exact)
	assert.InDelta(t, mmc.MeanWait/2, mdc.MeanWait, 1e-12)
	assert.InDelta(t, 0.75, mdc.Utilization, 1e-12)
	assert.True(t, math.IsNaN(mdc.PWaitZero))
}

func TestUnstableSystems_ReportInfiniteWait(t *testing.T) {
	for _, fn := range []func() (Reference, error){
		func() (Reference, error) { return MD1(2.0, 2.0) },
		func() (Reference, error) { return MMc(5.0, 2.0, 2) },
		func() (Reference, error) { return MDc(5.0, 2.0, 2) },
	} {
		ref, err := fn()
		require.NoError(t, err)
		assert.False(t, ref.Stable)
		assert.True(t, math.IsInf(ref.MeanWait, 1))
		assert.GreaterOrEqual(t, ref.Utilization, 1.0)
	}
}

func TestInvalidParameters_ReturnError(t *testing.T) {
	_, err := MD1(0, 1)
	assert.Error(t, err)
	_, err = MMc(1, -1, 1)
	assert.Error(t, err)
	_, err = MDc(1, 1, 0)
	assert.Error(t, err)
	_, err = MDc(math.NaN(), 1, 1)
	assert.Error(t, err)
}
