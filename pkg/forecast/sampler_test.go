package forecast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(start, step float64, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = start + step*float64(i)
	}
	return values
}

func TestFit_ShortHistoryHasNoTrend(t *testing.T) {
	m := Fit(linear(100, 10, 14))

	assert.Equal(t, 230.0, m.Level)
	assert.Zero(t, m.Trend)
	assert.Zero(t, m.Std)
}

func TestFit_TrendUsesTrailingWindow(t *testing.T) {
	// Flat for the first 6 points, then +5 per step over the trailing 14.
	values := append(linear(50, 0, 6), linear(55, 5, 14)...)

	m := Fit(values)

	assert.Equal(t, 120.0, m.Level)
	assert.InDelta(t, 5.0, m.Trend, 1e-9)
}

func TestFit_StdIsPopulationDeviationOfSteps(t *testing.T) {
	m := Fit([]float64{0, 1, 0, 1, 0, 1, 0, 1})

	assert.InDelta(t, 1.0, m.Std, 1e-9)
}

func TestFit_DegenerateHistory(t *testing.T) {
	single := Fit([]float64{42})
	assert.Equal(t, Model{Level: 42}, single)

	// One residual: fall back to 5% of the series deviation.
	two := Fit([]float64{10, 30})
	assert.InDelta(t, 0.5, two.Std, 1e-9)
	assert.Zero(t, two.Trend)

	assert.Equal(t, Model{}, Fit(nil))
}

func TestSampler_Shape(t *testing.T) {
	s := NewSampler(1)

	ensemble := s.Sample([]float64{5, 7, 6, 9, 8, 10, 12}, 14, 20)

	samples, horizon := ensemble.Shape()
	assert.Equal(t, 20, samples)
	assert.Equal(t, 14, horizon)
	for _, row := range ensemble {
		assert.Len(t, row, 14)
	}
}

func TestSampler_ValuesNeverNegative(t *testing.T) {
	s := NewSampler(7)
	// Low level, large swings: many draws would go negative without clamping.
	history := []float64{0, 50, 0, 60, 0, 40, 1, 0, 30, 0, 45, 0, 20, 0, 1, 0}

	ensemble := s.Sample(history, 30, 200)

	for _, row := range ensemble {
		for _, v := range row {
			require.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestSampler_SameSeedSameEnsemble(t *testing.T) {
	history := []float64{120, 130, 125, 140, 138, 150, 149, 160}

	a := NewSampler(99).Sample(history, 5, 10)
	b := NewSampler(99).Sample(history, 5, 10)
	c := NewSampler(100).Sample(history, 5, 10)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSampler_ZeroNoiseFollowsDrift(t *testing.T) {
	s := NewSampler(3)

	ensemble := s.Sample(linear(0, 2, 20), 4, 3)

	for _, row := range ensemble {
		assert.InDeltaSlice(t, []float64{40, 42, 44, 46}, row, 1e-9)
	}
}

func TestSampler_ShortHistoryStaysAtLastValue(t *testing.T) {
	s := NewSampler(11)

	ensemble := s.Sample(linear(100, 10, 8), 3, 50)
	band := Summarize(ensemble)

	for _, v := range band.P50 {
		assert.InDelta(t, 170.0, v, 0.1)
	}
}

func TestSampler_ConcurrentUse(t *testing.T) {
	s := NewSampler(5)
	history := []float64{10, 12, 9, 14, 13, 15, 11, 16}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ensemble := s.Sample(history, 10, 25)
			samples, horizon := ensemble.Shape()
			assert.Equal(t, 25, samples)
			assert.Equal(t, 10, horizon)
		}()
	}
	wg.Wait()
}
