package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aetheria-game/server/internal/npc/chat"
	"github.com/aetheria-game/server/internal/wallet"
)

type chatRequest struct {
	Message       string `json:"message"`
	SessionID     string `json:"session_id"`
	WalletAddress string `json:"wallet_address"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type walletAnalysisRequest struct {
	Address string `json:"address"`
}

type walletAnalysisResponse struct {
	WalletSummary *wallet.Summary `json:"wallet_summary"`
}

type generateAvatarRequest struct {
	Address string `json:"address"`
	Sex     string `json:"sex"`
}

func (s *Server) handlePing(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	response, err := s.chat.Chat(c.Request().Context(), chat.Request{
		Message:       req.Message,
		SessionID:     req.SessionID,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{Response: response})
}

func (s *Server) handleWalletAnalysis(c echo.Context) error {
	var req walletAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Address == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "address is required")
	}

	summary := wallet.BuildSummary(c.Request().Context(), s.wallet, req.Address)
	return c.JSON(http.StatusOK, walletAnalysisResponse{WalletSummary: summary})
}

func (s *Server) handleGenerateAvatar(c echo.Context) error {
	var req generateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Address == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "address is required")
	}

	result, err := s.avatars.Generate(c.Request().Context(), req.Address, req.Sex)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
