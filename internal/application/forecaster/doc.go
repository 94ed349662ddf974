// Package forecaster implements the forecast endpoint use case: request
// validation, forecast date sequencing, predictor selection with fallback to
// the statistical sampler, percentile reduction and event publication.
package forecaster
