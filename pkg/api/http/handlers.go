package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nocagentic/forecaster/pkg/domain"
	"go.uber.org/zap"
)

// HealthResponse represents a health check response
type HealthResponse struct {
	Status                     string `json:"status"`
	ExternalPredictorAvailable bool   `json:"external_predictor_available"`
	Predictor                  string `json:"predictor"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:                     "ok",
		ExternalPredictorAvailable: s.forecaster.ExternalPredictorAvailable(),
		Predictor:                  s.forecaster.PredictorName(),
	})
}

// handleForecast handles forecast requests
func (s *Server) handleForecast(c *gin.Context) {
	var req domain.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn("invalid forecast request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    domain.CodeInvalidRequest,
				Message: err.Error(),
			},
		})
		return
	}

	resp, err := s.forecaster.Forecast(c.Request.Context(), &req)
	if err != nil {
		var inputErr *domain.InputError
		if errors.As(err, &inputErr) {
			s.logger.Warn("rejected forecast request",
				zap.String("site_id", req.SiteID),
				zap.String("code", inputErr.Code),
				zap.String("reason", inputErr.Message))
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    inputErr.Code,
					Message: inputErr.Message,
				},
			})
			return
		}

		s.logger.Error("forecast failed", zap.String("site_id", req.SiteID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "FORECAST_FAILED",
				Message: "Forecast failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
