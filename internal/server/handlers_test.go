package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/aetheria-game/server/internal/core/error"
	"github.com/aetheria-game/server/internal/npc/chat"
	"github.com/aetheria-game/server/internal/npc/model"
	"github.com/aetheria-game/server/internal/npc/tools"
	"github.com/aetheria-game/server/internal/wallet"
)

type stubDataClient struct{}

func (stubDataClient) NetWorth(context.Context, string) (*wallet.NetWorth, error) {
	return &wallet.NetWorth{TotalNetworthUSD: "100.00"}, nil
}
func (stubDataClient) Age(context.Context, string) (string, error) { return "10 days", nil }
func (stubDataClient) Holdings(context.Context, string) ([]wallet.Holding, error) {
	return []wallet.Holding{{Symbol: "ETH"}}, nil
}
func (stubDataClient) ProfitAndLoss(context.Context, string) (*wallet.ProfitSummary, error) {
	return &wallet.ProfitSummary{TotalCountOfTrades: 3}, nil
}
func (stubDataClient) ENS(context.Context, string) (string, error) { return "niloy.eth", nil }

func newTestServer() *Server {
	// generation disabled, so the orchestrator answers without collaborators
	orchestrator := chat.NewOrchestrator(
		nil, nil, nil, nil, nil,
		tools.FormatResultForPrompt,
		model.ChatConfig{UseModel: false},
		model.GenerationConfig{},
	)
	return New(Config{AllowOrigins: []string{"*"}}, orchestrator, stubDataClient{}, nil)
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodGet, "/ping", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestChatRequiresMessage(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodPost, "/chat", `{"session_id":"s1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatCannedResponse(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodPost, "/chat", `{"message":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Response)
}

func TestWalletAnalysis(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodPost, "/wallet_analysis",
		`{"address":"0xabc0000000000000000000000000000000000abc"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body walletAnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.WalletSummary)
	assert.Equal(t, "niloy.eth", body.WalletSummary.ENS)
	assert.Equal(t, "10 days", body.WalletSummary.WalletAge)
}

func TestWalletAnalysisRequiresAddress(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodPost, "/wallet_analysis", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateAvatarRequiresAddress(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodPost, "/generate_avatar", `{"sex":"male"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorHandlerMapsAppErrors(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	errorHandler(errx.New(assert.AnError, http.StatusBadGateway, "upstream unavailable"), c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upstream unavailable", body["error"])
}

func TestErrorHandlerDefaultsTo500(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	errorHandler(assert.AnError, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
