package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nocagentic/forecaster/pkg/domain"
	"go.uber.org/zap"
)

// Name identifies the remote predictor in responses, events and metrics
const Name = "remote"

// Client calls an external forecasting service over HTTP.
//
// The service exposes:
//
//	GET  /health   200 when ready
//	POST /predict  {"values": [...], "horizon": h, "num_samples": n} -> {"samples": [[...], ...]}
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

type predictRequest struct {
	Values     []float64 `json:"values"`
	Horizon    int       `json:"horizon"`
	NumSamples int       `json:"num_samples"`
}

type predictResponse struct {
	Samples [][]float64 `json:"samples"`
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid predictor URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid predictor URL %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
	}, nil
}

// Name returns the predictor name
func (c *Client) Name() string {
	return Name
}

// HealthCheck checks that the service is reachable and ready
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// Predict requests samples trajectories of horizon steps for values
func (c *Client) Predict(ctx context.Context, values []float64, horizon, samples int) (domain.Ensemble, error) {
	body, err := json.Marshal(predictRequest{
		Values:     values,
		Horizon:    horizon,
		NumSamples: samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("predict returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("remote prediction received",
		zap.Int("horizon", horizon),
		zap.Int("samples", len(out.Samples)),
		zap.Duration("duration", time.Since(start)))

	return domain.Ensemble(out.Samples), nil
}
