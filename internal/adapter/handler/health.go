package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto"
)

// Health reports liveness and the active generation backend
type Health struct {
	environment string
	provider    string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(environment, provider string) *Health {
	return &Health{environment: environment, provider: provider}
}

// Check returns health status
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *Health) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Provider:    h.provider,
	})
}
