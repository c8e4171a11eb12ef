package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverage_ShortSeriesEchoesLast(t *testing.T) {
	assert.Equal(t, 0.0, MovingAverage(nil, 20))
	assert.Equal(t, 7.0, MovingAverage([]float64{3, 5, 7}, 20))
	assert.Equal(t, 42.0, MovingAverage([]float64{42}, 2))
}

func TestMovingAverage_UsesLastPeriod(t *testing.T) {
	prices := []float64{100, 1, 2, 3, 4}
	assert.InDelta(t, 2.5, MovingAverage(prices, 4), 1e-12)
	assert.InDelta(t, 22.0, MovingAverage(prices, 5), 1e-12)
}

func TestMovingAverage_NonPositivePeriod(t *testing.T) {
	assert.Equal(t, 4.0, MovingAverage([]float64{1, 4}, 0))
}

func TestExponentialMovingAverage_Edges(t *testing.T) {
	assert.Equal(t, 0.0, ExponentialMovingAverage(nil, 12))
	assert.Equal(t, 9.5, ExponentialMovingAverage([]float64{9.5}, 12))
}

func TestExponentialMovingAverage_SeedsWithFirstPrice(t *testing.T) {
	// period 3 -> k = 0.5
	got := ExponentialMovingAverage([]float64{10, 20, 30}, 3)
	// 10 -> 15 -> 22.5
	assert.InDelta(t, 22.5, got, 1e-12)
}

func TestExponentialMovingAverage_DependsOnWholeHistory(t *testing.T) {
	tail := []float64{10, 11, 12, 13, 14}
	longer := append([]float64{50, 40}, tail...)
	assert.NotEqual(t, ExponentialMovingAverage(tail, 3), ExponentialMovingAverage(longer, 3))
	assert.Equal(t, ExponentialMovingAverage(longer, 3), ExponentialMovingAverage(longer, 3))
}

func TestMACD_RisingSeriesPositive(t *testing.T) {
	var prices []float64
	for i := 0; i < 40; i++ {
		prices = append(prices, 100+float64(i))
	}
	assert.Greater(t, MACD(prices), 0.0)
	assert.InDelta(t, 0.0, MACD([]float64{5, 5, 5, 5}), 1e-9)
}
