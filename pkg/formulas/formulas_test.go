package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyReturns(t *testing.T) {
	returns := DailyReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}

func TestDailyReturns_SkipsZeroBase(t *testing.T) {
	returns := DailyReturns([]float64{0, 100, 110})
	require.Len(t, returns, 1)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
}

func TestDailyReturns_TooShort(t *testing.T) {
	assert.Nil(t, DailyReturns(nil))
	assert.Nil(t, DailyReturns([]float64{100}))
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(nil))
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{0.01}))

	// Flat returns have zero spread
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{0.01, 0.01, 0.01}))

	assert.Greater(t, AnnualizedVolatility([]float64{0.02, -0.01, 0.03, -0.02}), 0.0)
}

func TestSharpeRatio(t *testing.T) {
	assert.Equal(t, 0.0, SharpeRatio(nil))
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.01, 0.01}))

	assert.Greater(t, SharpeRatio([]float64{0.02, 0.01, 0.03}), 0.0)
	assert.Less(t, SharpeRatio([]float64{-0.02, -0.01, -0.03}), 0.0)
}

func TestMaxDrawdown(t *testing.T) {
	// Worst drop: 120 -> 90 is -25%
	assert.Equal(t, -25.0, MaxDrawdown([]float64{100, 110, 120, 90, 95, 100}))

	// Monotonic series never dips below its peak
	assert.Equal(t, 0.0, MaxDrawdown([]float64{100, 101, 102}))

	assert.Equal(t, 0.0, MaxDrawdown(nil))
}

func TestSMA(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	// Trailing averages over 140..159 and 110..159
	assert.InDelta(t, 149.5, SMA(closes, 20), 1e-9)
	assert.InDelta(t, 134.5, SMA(closes, 50), 1e-9)

	// Short series falls back to the last close
	assert.Equal(t, 102.0, SMA([]float64{100, 101, 102}, 20))
	assert.Equal(t, 0.0, SMA(nil, 20))
}

func TestRSI(t *testing.T) {
	assert.Equal(t, 0.0, RSI([]float64{100, 101}, 14))

	up := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
	}
	// A pure uptrend pins RSI at the top of its range
	assert.InDelta(t, 100.0, RSI(up, 14), 1e-6)

	down := make([]float64, 30)
	for i := range down {
		down[i] = 130 - float64(i)
	}
	assert.InDelta(t, 0.0, RSI(down, 14), 1e-6)
}

func TestChangeFromStart(t *testing.T) {
	assert.InDelta(t, 10.0, ChangeFromStart([]float64{100, 105, 110}), 1e-9)
	assert.InDelta(t, -20.0, ChangeFromStart([]float64{100, 80}), 1e-9)

	assert.Equal(t, 0.0, ChangeFromStart([]float64{100}))
	assert.Equal(t, 0.0, ChangeFromStart([]float64{0, 110}))
	assert.Equal(t, 0.0, ChangeFromStart(nil))
}

func TestChangeOverDays(t *testing.T) {
	closes := []float64{100, 102, 104, 106, 108, 110}

	assert.InDelta(t, 10.0, ChangeOverDays(closes, 5), 1e-9)
	assert.InDelta(t, 110.0/108.0*100-100, ChangeOverDays(closes, 1), 1e-9)

	// Not enough history for the window
	assert.Equal(t, 0.0, ChangeOverDays(closes, 10))
	assert.Equal(t, 0.0, ChangeOverDays([]float64{0, 110}, 1))
}
