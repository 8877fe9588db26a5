// Package intent decides whether a message is a tool-invoking request, a
// factual question, or general conversation.
package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/aetheria-game/server/internal/npc/model"
	"github.com/aetheria-game/server/internal/npc/parsers"
	"github.com/aetheria-game/server/internal/npc/tools"
	logx "github.com/aetheria-game/server/pkg/logger"
)

// ethAddressPattern matches an Ethereum address: 0x followed by 40 hex chars.
var ethAddressPattern = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)

// factualIndicators are checked in this fixed priority order; the first match
// wins. Kept as data so a better classifier can swap in without touching the
// orchestration.
var factualIndicators = []string{
	"what is",
	"how does",
	"explain",
	"define",
	"tell me about",
}

// Classifier resolves message intent. Tool-call intent dominates factual
// queries, which dominate general conversation.
type Classifier struct {
	invoker        model.ModelInvoker
	cfg            model.IntentModelConfig
	defaultAddress string
}

func NewClassifier(invoker model.ModelInvoker, cfg model.IntentModelConfig, defaultAddress string) *Classifier {
	return &Classifier{invoker: invoker, cfg: cfg, defaultAddress: defaultAddress}
}

// Classify determines the intent of one message. The model call inside is
// best-effort: transport or parse failures degrade to "no tool calls" and
// classification falls through to the keyword checks.
func (c *Classifier) Classify(ctx context.Context, message, walletAddress string) model.Intent {
	effectiveWallet := c.resolveWallet(message, walletAddress)

	invocations := c.detectToolCalls(ctx, message, effectiveWallet)
	if len(invocations) > 0 {
		return model.Intent{Kind: model.IntentToolCall, Invocations: invocations}
	}

	lower := strings.ToLower(message)
	for _, indicator := range factualIndicators {
		if strings.Contains(lower, indicator) {
			return model.Intent{Kind: model.IntentFactualQuery, Query: message}
		}
	}

	return model.Intent{Kind: model.IntentGeneral}
}

// resolveWallet picks the wallet address for tool execution: an address in
// the message wins over the supplied one, the configured default is last.
// The substitution into invocations happens exactly once, in the extractor.
func (c *Classifier) resolveWallet(message, walletAddress string) string {
	if fromMessage := ExtractWalletAddress(message); fromMessage != "" {
		return fromMessage
	}
	if walletAddress != "" {
		return walletAddress
	}
	return c.defaultAddress
}

func (c *Classifier) detectToolCalls(ctx context.Context, message, effectiveWallet string) []model.ToolInvocation {
	in := model.GenerateInput{
		Query:        message + "\n Wallet address: " + effectiveWallet,
		ToolsJSON:    tools.SchemaJSON(),
		Temperature:  c.cfg.Temperature,
		MaxNewTokens: c.cfg.MaxNewTokens,
	}

	raw, err := c.invoker.Invoke(ctx, in)
	if err != nil {
		logx.Error().Err(err).Msg("tool intent detection failed; continuing without tool calls")
		return nil
	}

	invocations := parsers.ExtractToolCalls(raw, effectiveWallet)
	logx.Debug().Int("count", len(invocations)).Msg("tool calls detected")
	return invocations
}

// ExtractWalletAddress returns the first Ethereum address in the message, or
// "" when none is present.
func ExtractWalletAddress(message string) string {
	return ethAddressPattern.FindString(message)
}
