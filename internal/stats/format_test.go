package stats

import (
	"math"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
)

func TestPercentEmptyDenominator(t *testing.T) {
	testCases := []struct {
		name         string
		value, total float64
		expected     float64
	}{
		{name: "regular share", value: 1, total: 4, expected: 25},
		{name: "zero total", value: 0, total: 0, expected: 0},
		{name: "value without total", value: 3, total: 0, expected: 0},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(tt.value, tt.total)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
			assert.InDelta(t, tt.expected, got, 0.0001)
		})
	}
}

func TestRatio(t *testing.T) {
	assert.False(t, Ratio(1, 0).IsPresent())
	assert.False(t, Ratio(math.Inf(1), 1).IsPresent())
	assert.Equal(t, mo.Some(2.5), Ratio(5, 2))
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "33,3", FormatDecimal(100.0/3, 1))
	assert.Equal(t, "66,67", FormatDecimal(200.0/3, 2))
	assert.Equal(t, "0,0", FormatDecimal(0, 1))
	assert.Equal(t, "n.d.", FormatOptional(mo.None[float64](), 1))
	assert.Equal(t, "7,5", FormatOptional(mo.Some(7.5), 1))
}

func TestShares(t *testing.T) {
	shares := Shares([]int{1, 3, 0}, 1)

	assert.InDelta(t, 25.0, shares[0].Percent, 0.0001)
	assert.Equal(t, "75,0%", shares[1].Label)
	assert.Zero(t, shares[2].Percent)

	empty := Shares([]int{0, 0}, 1)
	assert.Equal(t, "0,0%", empty[0].Label)
}
