// Package predictor loads the optional external forecasting model.
//
// Providers:
//   - none: no external predictor; every forecast uses the statistical sampler
//   - remote: an HTTP forecasting service (see package remote)
//   - anthropic: zero-shot forecasting with a language model (see package llm)
//
// Loading happens once at process start. A provider that cannot be loaded
// leaves the service without an external predictor for its lifetime.
package predictor
