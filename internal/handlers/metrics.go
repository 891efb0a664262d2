package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/babelbotio/babelbot/internal/observability"
)

type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (h *MetricsHandler) Register(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(observability.MetricsHandler()))
}
