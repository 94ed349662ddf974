// Package websocket streams forecast events for a site to WebSocket clients.
package websocket
