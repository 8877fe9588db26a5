package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetheria-game/server/internal/npc/model"
	"github.com/aetheria-game/server/internal/npc/tools"
)

const fallback = "0x1f9090aaE28b8a3dCeaDf281B0F12828e676c326"

func TestExtractToolCallsNil(t *testing.T) {
	assert.Empty(t, ExtractToolCalls(nil, fallback))
}

func TestExtractToolCallsArray(t *testing.T) {
	raw := []any{
		map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":      tools.ToolWalletAge,
				"arguments": "{}",
			},
		},
	}

	invs := ExtractToolCalls(raw, fallback)
	require.Len(t, invs, 1)
	assert.Equal(t, tools.ToolWalletAge, invs[0].Name)
	assert.Equal(t, fallback, invs[0].Parameters["wallet_address"])
}

func TestExtractToolCallsArrayOfStrings(t *testing.T) {
	raw := []any{
		`{"type": "function", "function": {"name": "get_wallet_networth", "arguments": {"wallet_address": "0xabc0000000000000000000000000000000000abc"}}}`,
		`{"type": "function", "function": {"name": "get_ens", "arguments": "{}"}}`,
	}

	invs := ExtractToolCalls(raw, fallback)
	require.Len(t, invs, 2)
	assert.Equal(t, "get_wallet_networth", invs[0].Name)
	assert.Equal(t, "0xabc0000000000000000000000000000000000abc", invs[0].Parameters["wallet_address"])
	assert.Equal(t, "get_ens", invs[1].Name)
	assert.Equal(t, fallback, invs[1].Parameters["wallet_address"])
}

func TestExtractToolCallsWrappedString(t *testing.T) {
	raw := []any{`"{\"type\": \"function\", \"function\": {\"name\": \"get_pnl\", \"arguments\": {\"wallet_address\": \"USER_ADDRESS\"}}}"`}

	invs := ExtractToolCalls(raw, fallback)
	require.Len(t, invs, 1)
	assert.Equal(t, "get_pnl", invs[0].Name)
	assert.Equal(t, fallback, invs[0].Parameters["wallet_address"])
}

func TestExtractToolCallsEmbeddedObject(t *testing.T) {
	raw := `Sure, let me check that for you: {"name": "get_portfolio_holdings", "parameters": {"wallet_address": "USER_ADDRESS"}} and I'll be right back.`

	invs := ExtractToolCalls(raw, fallback)
	require.Len(t, invs, 1)
	assert.Equal(t, "get_portfolio_holdings", invs[0].Name)
	assert.Equal(t, fallback, invs[0].Parameters["wallet_address"])
}

func TestExtractToolCallsProse(t *testing.T) {
	assert.Empty(t, ExtractToolCalls("I am Niloy, keeper of blockchain lore.", fallback))
	assert.Empty(t, ExtractToolCalls([]any{"no tool calls here"}, fallback))
}

func TestSentinelSubstitution(t *testing.T) {
	for _, sentinel := range []string{tools.PlaceholderAddress, tools.ExampleAddress, ""} {
		inv := model.ToolInvocation{
			Name:       tools.ToolENS,
			Parameters: map[string]any{"wallet_address": sentinel},
		}
		resolveWalletAddress(&inv, fallback)
		assert.Equal(t, fallback, inv.Parameters["wallet_address"], "sentinel %q", sentinel)
	}
}

func TestSentinelLeftWithoutFallback(t *testing.T) {
	inv := model.ToolInvocation{
		Name:       tools.ToolENS,
		Parameters: map[string]any{"wallet_address": tools.PlaceholderAddress},
	}
	resolveWalletAddress(&inv, "")
	assert.Equal(t, tools.PlaceholderAddress, inv.Parameters["wallet_address"])
}

func TestRealAddressNotOverwritten(t *testing.T) {
	real := "0xabc0000000000000000000000000000000000abc"
	inv := model.ToolInvocation{
		Name:       tools.ToolENS,
		Parameters: map[string]any{"wallet_address": real},
	}
	resolveWalletAddress(&inv, fallback)
	assert.Equal(t, real, inv.Parameters["wallet_address"])
}

func TestInvocationCountCapped(t *testing.T) {
	items := make([]any, maxInvocations+5)
	for i := range items {
		items[i] = map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":      tools.ToolENS,
				"arguments": map[string]any{},
			},
		}
	}

	invs := ExtractToolCalls(items, fallback)
	assert.Len(t, invs, maxInvocations)
}

func TestOversizedContentClamped(t *testing.T) {
	huge := strings.Repeat("x", maxContentLen+100)
	assert.Empty(t, ExtractToolCalls(huge, fallback))
}

func TestMalformedArgumentsDegradeToEmpty(t *testing.T) {
	raw := []any{
		map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":      tools.ToolWalletNetworth,
				"arguments": "{not valid json",
			},
		},
	}

	invs := ExtractToolCalls(raw, fallback)
	require.Len(t, invs, 1)
	assert.Equal(t, fallback, invs[0].Parameters["wallet_address"])
}
