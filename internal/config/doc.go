// Package config provides configuration management for the forecasting service.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have sensible defaults for development use; with
// no environment at all the service listens on :8000, enforces no API key and
// forecasts with the statistical sampler only.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
