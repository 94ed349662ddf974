package domain

// ForecastRequest is the body of POST /forecast.
//
// Horizon and Samples are optional; nil means "use the configured default".
type ForecastRequest struct {
	SiteID    string    `json:"site_id" binding:"required"`
	Dates     []string  `json:"dates"`
	TrafficGB []float64 `json:"traffic_gb"`
	Horizon   *int      `json:"horizon,omitempty"`
	Samples   *int      `json:"samples,omitempty"`
}

// ForecastResponse is the result of a forecast.
//
// P10, P50 and P90 are rounded to one decimal place; Samples is the raw,
// unrounded ensemble.
type ForecastResponse struct {
	SiteID        string      `json:"site_id"`
	ForecastDates []string    `json:"forecast_dates"`
	P10           []float64   `json:"p10"`
	P50           []float64   `json:"p50"`
	P90           []float64   `json:"p90"`
	Samples       [][]float64 `json:"samples"`
	Predictor     string      `json:"predictor"`
}

// Ensemble is a samples x horizon matrix; each row is one simulated trajectory.
type Ensemble [][]float64

// Shape returns the number of trajectories and the length of the first one.
func (e Ensemble) Shape() (samples, horizon int) {
	if len(e) == 0 {
		return 0, 0
	}
	return len(e), len(e[0])
}

// Column returns the values at horizon step i across all trajectories.
func (e Ensemble) Column(i int) []float64 {
	col := make([]float64, len(e))
	for s, row := range e {
		col[s] = row[i]
	}
	return col
}

// PercentileBand holds per-step lower, median and upper quantiles.
type PercentileBand struct {
	P10 []float64
	P50 []float64
	P90 []float64
}

// PredictorStatistical names the built-in sampler in responses, events and metrics.
const PredictorStatistical = "statistical"
