package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRSI_InsufficientDataIsNeutral(t *testing.T) {
	for n := 0; n <= 14; n++ {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = float64(100 + i*3)
		}
		assert.Equal(t, 50.0, RSI(prices, DefaultRSIPeriod), "len=%d", n)
	}
}

func TestRSI_NoLossesIs100(t *testing.T) {
	prices := []float64{}
	for i := 0; i < 20; i++ {
		prices = append(prices, 100+float64(i))
	}
	assert.Equal(t, 100.0, RSI(prices, DefaultRSIPeriod))
}

func TestRSI_OnlyTrailingWindowCounts(t *testing.T) {
	// Losses before the trailing 14 changes are ignored.
	prices := []float64{200, 150, 100}
	for i := 0; i < 14; i++ {
		prices = append(prices, 101+float64(i))
	}
	assert.Equal(t, 100.0, RSI(prices, DefaultRSIPeriod))
}

func TestRSI_FlatWindowHasNoLosses(t *testing.T) {
	prices := make([]float64, 21)
	for i := range prices {
		prices[i] = 50
	}
	assert.Equal(t, 100.0, RSI(prices, DefaultRSIPeriod))
}

func TestRSI_SimpleAverages(t *testing.T) {
	// 14 changes alternating +2 / -1: avgGain = 1, avgLoss = 0.5, RS = 2.
	prices := []float64{100}
	for i := 0; i < 14; i++ {
		last := prices[len(prices)-1]
		if i%2 == 0 {
			prices = append(prices, last+2)
		} else {
			prices = append(prices, last-1)
		}
	}
	assert.InDelta(t, 100-100/3.0, RSI(prices, DefaultRSIPeriod), 1e-9)
}

func TestRSI_AlwaysInRange(t *testing.T) {
	series := [][]float64{
		{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0.5, 0.4, 0.3, 0.2, 0.1, 0.05},
		{1, 3, 2, 5, 4, 8, 1, 9, 2, 7, 3, 6, 4, 5, 5, 6, 1},
	}
	for _, s := range series {
		v := RSI(s, DefaultRSIPeriod)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.Equal(t, 0.0, RSI(series[0], DefaultRSIPeriod))
}
