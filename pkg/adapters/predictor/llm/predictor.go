package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/nocagentic/forecaster/pkg/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Name identifies the LLM predictor in responses, events and metrics
const Name = "anthropic"

const systemPrompt = "You are a time series forecaster. You only ever answer with numbers."

// Config holds LLM predictor configuration
type Config struct {
	APIKey                string
	Model                 string
	Temperature           float64
	MaxTokens             int
	MaxConcurrentRequests int
	// BaseURL overrides the API endpoint; empty uses the SDK default
	BaseURL string
	Logger  *zap.Logger
}

// Predictor forecasts by sampling continuations of the encoded series from a
// language model, one completion per trajectory.
type Predictor struct {
	client        anthropic.Client
	model         string
	temperature   float64
	maxTokens     int64
	maxConcurrent int
	logger        *zap.Logger
}

// NewPredictor creates an LLM predictor
func NewPredictor(cfg *Config) (*Predictor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("LLM model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxConcurrent := cfg.MaxConcurrentRequests
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	maxTokens := cfg.MaxTokens
	if maxTokens < 1 {
		maxTokens = 1024
	}

	return &Predictor{
		client:        anthropic.NewClient(opts...),
		model:         cfg.Model,
		temperature:   cfg.Temperature,
		maxTokens:     int64(maxTokens),
		maxConcurrent: maxConcurrent,
		logger:        cfg.Logger,
	}, nil
}

// Name returns the predictor name
func (p *Predictor) Name() string {
	return Name
}

// Predict samples one continuation per trajectory. Any failed or unparseable
// completion fails the whole prediction.
func (p *Predictor) Predict(ctx context.Context, values []float64, horizon, samples int) (domain.Ensemble, error) {
	series, scale := encodeSeries(values)
	prompt := buildPrompt(series, horizon)

	ensemble := make(domain.Ensemble, samples)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)

	for i := range ensemble {
		g.Go(func() error {
			text, err := p.complete(gctx, prompt)
			if err != nil {
				return err
			}

			trajectory, err := decodeContinuation(text, horizon, scale)
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}

			ensemble[i] = trajectory
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Debug("LLM prediction sampled",
		zap.String("model", p.model),
		zap.Int("horizon", horizon),
		zap.Int("samples", samples))

	return ensemble, nil
}

// complete requests a single completion and returns its text
func (p *Predictor) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   p.maxTokens,
		Temperature: anthropic.Float(p.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("LLM response has no text content")
}
