package forecast

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/nocagentic/forecaster/pkg/domain"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// trendMinHistory is the shortest series for which a trend is estimated.
	trendMinHistory = 15
	// trendWindow is the number of trailing observations the trend is taken over.
	trendWindow = 14
	// degenerateStdFraction scales the series deviation when there are too
	// few residuals to measure step noise.
	degenerateStdFraction = 0.05
)

// Model is a fitted random walk with drift.
type Model struct {
	Level float64
	Trend float64
	Std   float64
}

// Fit estimates level, trend and noise from a history.
//
// Series shorter than 15 points get a zero trend.
func Fit(values []float64) Model {
	n := len(values)
	if n == 0 {
		return Model{}
	}

	m := Model{Level: values[n-1]}

	if n >= trendMinHistory {
		m.Trend = stat.Mean(diff(values[n-trendWindow:]), nil)
	}

	residuals := diff(values)
	if len(residuals) > 1 {
		m.Std = math.Sqrt(stat.PopVariance(residuals, nil))
	} else {
		m.Std = math.Sqrt(stat.PopVariance(values, nil)) * degenerateStdFraction
	}

	return m
}

// Sampler draws ensembles from a fitted Model. It is safe for concurrent use;
// each ensemble is drawn under a single lock so trajectories from concurrent
// requests never interleave.
type Sampler struct {
	mu  sync.Mutex
	src *rand.PCG
}

// NewSampler creates a sampler with a deterministic noise source.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{
		src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
}

// Sample fits the history and simulates samples trajectories of horizon steps.
// Every value is clamped to be non-negative.
func (s *Sampler) Sample(values []float64, horizon, samples int) domain.Ensemble {
	return s.Simulate(Fit(values), horizon, samples)
}

// Simulate draws samples trajectories of horizon steps from m.
func (s *Sampler) Simulate(m Model, horizon, samples int) domain.Ensemble {
	s.mu.Lock()
	defer s.mu.Unlock()

	noise := distuv.Normal{Mu: 0, Sigma: m.Std, Src: s.src}

	ensemble := make(domain.Ensemble, samples)
	for i := range ensemble {
		trajectory := make([]float64, horizon)
		current := m.Level
		for h := range trajectory {
			current = current + m.Trend + noise.Rand()
			if current < 0 {
				current = 0
			}
			trajectory[h] = current
		}
		ensemble[i] = trajectory
	}

	return ensemble
}

func diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}
