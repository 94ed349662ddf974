// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Forecast requests (POST /forecast)
//   - Live forecast events over WebSocket (GET /forecast/stream/:site_id)
//   - Health checks
//   - Prometheus metrics
package http
