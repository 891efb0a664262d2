// Package server hosts the HTTP surface: health, metrics, and the local
// chat endpoint.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/babelbotio/babelbot/internal/handlers"
)

type Server struct {
	echo *echo.Echo
	addr string
}

func NewServer(addr string, pingHandler *handlers.PingHandler, chatHandler *handlers.ChatHandler, metricsHandler *handlers.MetricsHandler) *Server {
	if addr == "" {
		addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	if pingHandler != nil {
		pingHandler.Register(e)
	}
	if chatHandler != nil {
		chatHandler.Register(e)
	}
	if metricsHandler != nil {
		metricsHandler.Register(e)
	}

	return &Server{
		echo: e,
		addr: addr,
	}
}

func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
