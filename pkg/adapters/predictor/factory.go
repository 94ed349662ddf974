package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/nocagentic/forecaster/pkg/adapters/predictor/llm"
	"github.com/nocagentic/forecaster/pkg/adapters/predictor/remote"
	"github.com/nocagentic/forecaster/pkg/ports"
	"go.uber.org/zap"
)

// Supported providers
const (
	ProviderNone      = "none"
	ProviderRemote    = "remote"
	ProviderAnthropic = "anthropic"
)

// Config holds external predictor configuration
type Config struct {
	Provider string
	URL      string
	Timeout  time.Duration

	APIKey                string
	Model                 string
	Temperature           float64
	MaxTokens             int
	MaxConcurrentRequests int

	Logger *zap.Logger
}

// Load creates the configured external predictor. It returns a nil predictor
// and nil error when no provider is configured.
func Load(ctx context.Context, cfg *Config) (ports.Predictor, error) {
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, nil

	case ProviderRemote:
		client, err := remote.NewClient(cfg.URL, cfg.Timeout, cfg.Logger)
		if err != nil {
			return nil, err
		}

		probeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		if err := client.HealthCheck(probeCtx); err != nil {
			return nil, fmt.Errorf("remote predictor not reachable: %w", err)
		}
		return client, nil

	case ProviderAnthropic:
		p, err := llm.NewPredictor(&llm.Config{
			APIKey:                cfg.APIKey,
			Model:                 cfg.Model,
			Temperature:           cfg.Temperature,
			MaxTokens:             cfg.MaxTokens,
			MaxConcurrentRequests: cfg.MaxConcurrentRequests,
			Logger:                cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("unsupported predictor provider: %s", cfg.Provider)
	}
}
