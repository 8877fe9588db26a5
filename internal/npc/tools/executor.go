package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aetheria-game/server/internal/npc/model"
	"github.com/aetheria-game/server/internal/wallet"
	logx "github.com/aetheria-game/server/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Executor dispatches structured tool invocations to the wallet data client.
type Executor struct {
	client         wallet.DataClient
	defaultAddress string
}

func NewExecutor(client wallet.DataClient, defaultAddress string) *Executor {
	return &Executor{client: client, defaultAddress: defaultAddress}
}

// Execute runs one invocation and wraps the outcome uniformly. A data client
// failure becomes an error-shaped result, never a returned error; an unknown
// tool name resolves to the "Unknown tool" result.
func (e *Executor) Execute(ctx context.Context, inv model.ToolInvocation) model.ToolResult {
	address := inv.WalletAddress()
	if address == "" {
		address = e.defaultAddress
	}

	logx.Info().Str("tool", inv.Name).Str("wallet_address", address).Msg("executing tool call")

	var (
		result any
		err    error
	)
	switch inv.Name {
	case ToolWalletNetworth:
		result, err = e.client.NetWorth(ctx, address)
	case ToolWalletAge:
		result, err = e.client.Age(ctx, address)
	case ToolPortfolioHoldings:
		result, err = e.client.Holdings(ctx, address)
	case ToolPnL:
		result, err = e.client.ProfitAndLoss(ctx, address)
	case ToolENS:
		result, err = e.client.ENS(ctx, address)
	default:
		return model.ErrorResult(inv.Name, "Unknown tool")
	}

	if err != nil {
		logx.Error().Err(err).Str("tool", inv.Name).Msg("tool execution failed")
		return model.ErrorResult(inv.Name, fmt.Sprintf("Error executing tool: %v", err))
	}
	return model.ToolResult{Tool: inv.Name, Result: result}
}

// ExecuteAll fans the invocations out concurrently; they share no state, so
// the only ordering requirement is that results land in invocation order.
// A failing invocation never prevents the others from completing.
func (e *Executor) ExecuteAll(ctx context.Context, invs []model.ToolInvocation) []model.ToolResult {
	results := make([]model.ToolResult, len(invs))

	g, gctx := errgroup.WithContext(ctx)
	for i, inv := range invs {
		g.Go(func() error {
			results[i] = e.Execute(gctx, inv)
			return nil
		})
	}
	// Execute never returns an error, so Wait only synchronizes.
	_ = g.Wait()

	return results
}

// FormatResultForPrompt renders one tool result as prompt text in the voice
// the persona prompt expects. Unretrievable data gets an in-character apology
// line instead of raw error JSON.
func FormatResultForPrompt(res model.ToolResult) string {
	failed := false
	if m, ok := res.Result.(map[string]any); ok {
		_, failed = m["error"]
	}

	switch res.Tool {
	case ToolWalletNetworth:
		if failed || res.Result == nil {
			return "I couldn't retrieve the wallet's net worth."
		}
		return "Wallet Net Worth: " + marshalIndent(res.Result)

	case ToolWalletAge:
		if age, ok := res.Result.(string); ok && age != "" && !failed {
			return "Wallet Age: " + age
		}
		return "I couldn't determine the wallet's age."

	case ToolPortfolioHoldings:
		holdings, ok := res.Result.([]wallet.Holding)
		if !ok || len(holdings) == 0 || failed {
			return "I couldn't retrieve the wallet's holdings."
		}
		var b strings.Builder
		b.WriteString("Portfolio Holdings:\n")
		for _, h := range holdings {
			fmt.Fprintf(&b, "- %s (%s): $%.2f (%.2f%% of portfolio)\n",
				h.Name, h.Symbol, h.USDValue, h.PortfolioPercentage)
		}
		return b.String()

	case ToolPnL:
		if failed || res.Result == nil {
			return "I couldn't retrieve profit and loss information."
		}
		return "Profit and Loss Information: " + marshalIndent(res.Result)

	case ToolENS:
		if name, ok := res.Result.(string); ok && name != "" && !failed {
			return "ENS Name: " + name
		}
		return "This wallet doesn't have an associated ENS name."
	}

	return "Tool Result: " + marshalCompact(res.Result)
}

func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "Tool result available but couldn't be formatted properly."
	}
	return string(b)
}

func marshalCompact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "Tool result available but couldn't be formatted properly."
	}
	return string(b)
}
