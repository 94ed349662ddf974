package forecast

import (
	"testing"

	"github.com/nocagentic/forecaster/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.3, Percentile(sorted, 10), 1e-9)
	assert.InDelta(t, 2.5, Percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 3.7, Percentile(sorted, 90), 1e-9)
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 4.0, Percentile(sorted, 100))
}

func TestPercentile_SingleValue(t *testing.T) {
	assert.Equal(t, 7.5, Percentile([]float64{7.5}, 90))
}

func TestSummarize_PerColumnAndRounded(t *testing.T) {
	ensemble := domain.Ensemble{
		{4, 10.4},
		{1, 10.0},
		{3, 10.6},
		{2, 10.2},
	}

	band := Summarize(ensemble)

	assert.Equal(t, []float64{1.3, 10.1}, band.P10)
	assert.Equal(t, []float64{2.5, 10.3}, band.P50)
	assert.Equal(t, []float64{3.7, 10.5}, band.P90)

	// Input is left untouched.
	assert.Equal(t, 4.0, ensemble[0][0])
}

func TestSummarize_BandsAreOrdered(t *testing.T) {
	ensemble := NewSampler(21).Sample([]float64{30, 80, 10, 95, 40, 70, 20, 60, 5, 90}, 14, 37)

	band := Summarize(ensemble)

	for i := range band.P50 {
		assert.LessOrEqual(t, band.P10[i], band.P50[i])
		assert.LessOrEqual(t, band.P50[i], band.P90[i])
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 2.3, Round1(2.25))
	assert.Equal(t, 170.0, Round1(169.96))
	assert.Equal(t, 0.0, Round1(0.04))
}
