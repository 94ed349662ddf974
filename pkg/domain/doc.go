// Package domain holds the request, response, ensemble and event types shared
// by the forecasting service, together with its error taxonomy.
package domain
