package forecast

import (
	"math"
	"sort"

	"github.com/nocagentic/forecaster/pkg/domain"
)

// Percentile returns the p-th percentile (0-100) of sorted using linear
// interpolation between order statistics: rank = p/100 * (n-1).
// sorted must be in ascending order and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if hi >= n {
		hi = n - 1
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Summarize reduces an ensemble column by column to p10/p50/p90 bands,
// rounded to one decimal place.
func Summarize(e domain.Ensemble) domain.PercentileBand {
	_, horizon := e.Shape()

	band := domain.PercentileBand{
		P10: make([]float64, horizon),
		P50: make([]float64, horizon),
		P90: make([]float64, horizon),
	}

	for i := 0; i < horizon; i++ {
		col := e.Column(i)
		sort.Float64s(col)

		band.P10[i] = Round1(Percentile(col, 10))
		band.P50[i] = Round1(Percentile(col, 50))
		band.P90[i] = Round1(Percentile(col, 90))
	}

	return band
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
