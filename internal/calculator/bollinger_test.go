package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBollingerBands_ConstantWindowCollapses(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 50
	}
	b := BollingerBands(prices, DefaultBollingerPeriod)
	assert.Equal(t, 50.0, b.Middle)
	assert.Equal(t, b.Middle, b.Upper)
	assert.Equal(t, b.Middle, b.Lower)
}

func TestBollingerBands_Ordering(t *testing.T) {
	prices := []float64{}
	for i := 0; i < 30; i++ {
		prices = append(prices, 100+10*math.Sin(float64(i)))
	}
	b := BollingerBands(prices, DefaultBollingerPeriod)
	assert.LessOrEqual(t, b.Lower, b.Middle)
	assert.LessOrEqual(t, b.Middle, b.Upper)
	assert.InDelta(t, b.Upper-b.Middle, b.Middle-b.Lower, 1e-9)
}

func TestBollingerBands_KnownValues(t *testing.T) {
	// window {2,4,4,4,5,5,7,9}: mean 5, population stddev 2.
	b := BollingerBands([]float64{100, 2, 4, 4, 4, 5, 5, 7, 9}, 8)
	assert.InDelta(t, 5.0, b.Middle, 1e-12)
	assert.InDelta(t, 9.0, b.Upper, 1e-12)
	assert.InDelta(t, 1.0, b.Lower, 1e-12)
}

func TestBollingerBands_ShortSeriesDividesByPeriod(t *testing.T) {
	// middle echoes last price (4); deviations: 2^2 + 0 = 4; variance 4/4 = 1.
	b := BollingerBands([]float64{2, 4}, 4)
	require.Equal(t, 4.0, b.Middle)
	assert.InDelta(t, 6.0, b.Upper, 1e-12)
	assert.InDelta(t, 2.0, b.Lower, 1e-12)
}

func TestCompute_EmptySeries(t *testing.T) {
	ind := Compute(nil)
	assert.Equal(t, 0.0, ind.SMA20)
	assert.Equal(t, 0.0, ind.SMA50)
	assert.Equal(t, 50.0, ind.RSI)
	assert.Equal(t, 0.0, ind.MACD)
	assert.Equal(t, 0.0, ind.Bollinger.Upper)
}
