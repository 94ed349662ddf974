package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the forecasting service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"FORECAST_HTTP_PORT" envDefault:"8000"`
	GRPCPort int    `env:"FORECAST_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Shared secret checked against the X-API-Key header; empty disables auth
	APIKey      string   `env:"FORECAST_API_KEY"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Redis configuration
	Redis RedisConfig

	// External predictor configuration
	Predictor PredictorConfig

	// Statistical sampler configuration
	Sampler SamplerConfig

	// Request limits
	Limits LimitsConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// RedisConfig holds Redis connection configuration. An empty address keeps
// forecast events in process.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`

	// Approximate maximum length of each event stream
	StreamMaxLen int64 `env:"REDIS_STREAM_MAX_LEN" envDefault:"10000"`
}

// Enabled reports whether a Redis server is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// PredictorConfig holds external predictor configuration
type PredictorConfig struct {
	Provider string        `env:"PREDICTOR_PROVIDER" envDefault:"none"`
	URL      string        `env:"PREDICTOR_URL"`
	Timeout  time.Duration `env:"PREDICTOR_TIMEOUT" envDefault:"30s"`

	// LLM predictor settings
	LLMAPIKey             string  `env:"LLM_API_KEY"`
	LLMModel              string  `env:"LLM_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	LLMTemperature        float64 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens          int     `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	MaxConcurrentRequests int     `env:"LLM_MAX_CONCURRENT_REQUESTS" envDefault:"10"`
}

// SamplerConfig holds statistical sampler configuration
type SamplerConfig struct {
	// Seed for the noise source; 0 seeds from the clock at startup
	Seed uint64 `env:"SAMPLER_SEED" envDefault:"0"`
}

// LimitsConfig holds forecast request defaults and bounds
type LimitsConfig struct {
	DefaultHorizon int `env:"FORECAST_DEFAULT_HORIZON" envDefault:"14"`
	DefaultSamples int `env:"FORECAST_DEFAULT_SAMPLES" envDefault:"20"`
	MaxHorizon     int `env:"FORECAST_MAX_HORIZON" envDefault:"365"`
	MaxSamples     int `env:"FORECAST_MAX_SAMPLES" envDefault:"1000"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	// 0 disables the gRPC health server
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}

	// Validate predictor config
	switch c.Predictor.Provider {
	case "none":
	case "remote":
		u, err := url.Parse(c.Predictor.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("PREDICTOR_URL must be an absolute URL for the remote predictor")
		}
	case "anthropic":
		// A missing key is reported at startup and leaves the predictor unavailable
	default:
		return fmt.Errorf("unsupported predictor provider: %s (must be none, remote, or anthropic)", c.Predictor.Provider)
	}
	if c.Predictor.Timeout <= 0 {
		return fmt.Errorf("predictor timeout must be positive")
	}

	// Validate limits
	if c.Limits.MaxHorizon < 1 || c.Limits.MaxSamples < 1 {
		return fmt.Errorf("forecast maximums must be at least 1")
	}
	if c.Limits.DefaultHorizon < 1 || c.Limits.DefaultHorizon > c.Limits.MaxHorizon {
		return fmt.Errorf("default horizon must be between 1 and %d", c.Limits.MaxHorizon)
	}
	if c.Limits.DefaultSamples < 1 || c.Limits.DefaultSamples > c.Limits.MaxSamples {
		return fmt.Errorf("default samples must be between 1 and %d", c.Limits.MaxSamples)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}
