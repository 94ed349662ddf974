package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nocagentic/forecaster/internal/application/forecaster"
	"github.com/nocagentic/forecaster/internal/config"
	"github.com/nocagentic/forecaster/pkg/adapters/events/memory"
	"github.com/nocagentic/forecaster/pkg/adapters/events/redis"
	"github.com/nocagentic/forecaster/pkg/adapters/metrics/prometheus"
	"github.com/nocagentic/forecaster/pkg/adapters/predictor"
	"github.com/nocagentic/forecaster/pkg/api/grpc"
	"github.com/nocagentic/forecaster/pkg/api/http"
	"github.com/nocagentic/forecaster/pkg/api/websocket"
	"github.com/nocagentic/forecaster/pkg/forecast"
	"github.com/nocagentic/forecaster/pkg/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting forecasting service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	ctx := context.Background()

	// Event bus: Redis Streams when configured, in-process otherwise
	var eventBus ports.EventBus
	var redisClient *goredis.Client
	if cfg.Redis.Enabled() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		eventBus = redis.NewStreamsEventBus(redisClient, cfg.Redis.StreamMaxLen, logger)
	} else {
		eventBus = memory.NewInMemoryEventBus()
	}

	metricsCollector := prometheus.NewCollector()

	// The external predictor is loaded once; failure is permanent for this process
	external, err := predictor.Load(ctx, &predictor.Config{
		Provider:              cfg.Predictor.Provider,
		URL:                   cfg.Predictor.URL,
		Timeout:               cfg.Predictor.Timeout,
		APIKey:                cfg.Predictor.LLMAPIKey,
		Model:                 cfg.Predictor.LLMModel,
		Temperature:           cfg.Predictor.LLMTemperature,
		MaxTokens:             cfg.Predictor.LLMMaxTokens,
		MaxConcurrentRequests: cfg.Predictor.MaxConcurrentRequests,
		Logger:                logger,
	})
	if err != nil {
		logger.Warn("external predictor unavailable, using statistical sampler",
			zap.String("provider", cfg.Predictor.Provider),
			zap.Error(err))
		external = nil
	}

	seed := cfg.Sampler.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	// Initialize application components
	selector := forecaster.NewSelector(
		external,
		forecast.NewSampler(seed),
		cfg.Predictor.Timeout,
		metricsCollector,
		logger,
	)

	validator := forecaster.NewValidator(forecaster.Limits{
		DefaultHorizon: cfg.Limits.DefaultHorizon,
		DefaultSamples: cfg.Limits.DefaultSamples,
		MaxHorizon:     cfg.Limits.MaxHorizon,
		MaxSamples:     cfg.Limits.MaxSamples,
	})

	forecastService := forecaster.NewService(
		validator,
		selector,
		eventBus,
		metricsCollector,
		logger,
	)

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Port:        cfg.HTTPPort,
		Forecaster:  forecastService,
		APIKey:      cfg.APIKey,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	// Add WebSocket handler to HTTP server
	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupWebSocket(wsHandler)

	var grpcServer *grpc.Server
	if cfg.GRPCPort != 0 {
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Port:                       cfg.GRPCPort,
			ExternalPredictorAvailable: selector.ExternalAvailable(),
			Logger:                     logger,
		})
		if err != nil {
			logger.Fatal("failed to create gRPC server", zap.Error(err))
		}
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("forecasting service started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("predictor", selector.PredictorName()),
		zap.Bool("external_predictor_available", selector.ExternalAvailable()),
		zap.Bool("auth_enabled", cfg.APIKey != ""))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("forecasting service shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
