// Package server exposes the game backend over HTTP: the NPC chat endpoint,
// wallet analysis, and avatar generation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aetheria-game/server/internal/avatar"
	errx "github.com/aetheria-game/server/internal/core/error"
	"github.com/aetheria-game/server/internal/npc/chat"
	"github.com/aetheria-game/server/internal/wallet"
	logx "github.com/aetheria-game/server/pkg/logger"
)

// Config holds the HTTP listener settings.
type Config struct {
	Port         int      `envconfig:"PORT" default:"8080"`
	AllowOrigins []string `envconfig:"ALLOW_ORIGINS" default:"*"`
}

// Server wires the pipelines to their routes.
type Server struct {
	echo    *echo.Echo
	cfg     Config
	chat    *chat.Orchestrator
	wallet  wallet.DataClient
	avatars *avatar.Generator
}

func New(cfg Config, orchestrator *chat.Orchestrator, walletClient wallet.DataClient, avatars *avatar.Generator) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.HTTPErrorHandler = errorHandler

	s := &Server{
		echo:    e,
		cfg:     cfg,
		chat:    orchestrator,
		wallet:  walletClient,
		avatars: avatars,
	}

	e.GET("/ping", s.handlePing)
	e.POST("/chat", s.handleChat)
	e.POST("/wallet_analysis", s.handleWalletAnalysis)
	e.POST("/generate_avatar", s.handleGenerateAvatar)

	return s
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	logx.Info().Str("addr", addr).Msg("http server listening")
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// errorHandler maps pipeline errors onto HTTP responses. Application errors
// carry their own status and user-facing message; everything else is a 500.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := errx.SystemErrorMessage

	var appErr *errx.AppError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status
		message = appErr.Message
		logx.Error().Err(appErr.Err).Int("status", status).Str("path", c.Path()).Msg("request failed")
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	default:
		logx.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if err := c.JSON(status, map[string]string{"error": message}); err != nil {
		logx.Error().Err(err).Msg("failed to write error response")
	}
}
