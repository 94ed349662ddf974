// Package forecast implements the statistical forecasting core: a random-walk
// sampler with drift that produces an ensemble of future trajectories, the
// calendar sequencer for forecast dates, and the reduction of an ensemble to
// p10/p50/p90 bands.
//
// Example usage:
//
//	sampler := forecast.NewSampler(42)
//	ensemble := sampler.Sample(history, 14, 20)
//	band := forecast.Summarize(ensemble)
package forecast
