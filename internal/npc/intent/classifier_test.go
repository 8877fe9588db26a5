package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetheria-game/server/internal/npc/model"
)

const defaultWallet = "0x1f9090aaE28b8a3dCeaDf281B0F12828e676c326"

// stubInvoker returns a fixed payload, recording the input it was given.
type stubInvoker struct {
	output any
	err    error
	lastIn model.GenerateInput
}

func (s *stubInvoker) Invoke(_ context.Context, in model.GenerateInput) (any, error) {
	s.lastIn = in
	return s.output, s.err
}

func TestClassifyFactualQuery(t *testing.T) {
	c := NewClassifier(&stubInvoker{output: "no tools needed"}, model.IntentModelConfig{}, defaultWallet)

	intent := c.Classify(context.Background(), "What is a DAO?", "")
	assert.Equal(t, model.IntentFactualQuery, intent.Kind)
	assert.Equal(t, "What is a DAO?", intent.Query)
}

func TestClassifyGeneral(t *testing.T) {
	c := NewClassifier(&stubInvoker{output: "just chatting"}, model.IntentModelConfig{}, defaultWallet)

	intent := c.Classify(context.Background(), "hello there, traveler", "")
	assert.Equal(t, model.IntentGeneral, intent.Kind)
}

func TestClassifyToolCallDominatesFactual(t *testing.T) {
	inv := &stubInvoker{output: []any{
		map[string]any{
			"type":     "function",
			"function": map[string]any{"name": "get_wallet_networth", "arguments": "{}"},
		},
	}}
	c := NewClassifier(inv, model.IntentModelConfig{}, defaultWallet)

	intent := c.Classify(context.Background(), "what is my wallet worth?", "")
	require.Equal(t, model.IntentToolCall, intent.Kind)
	require.Len(t, intent.Invocations, 1)
	assert.Equal(t, "get_wallet_networth", intent.Invocations[0].Name)
	assert.Equal(t, defaultWallet, intent.Invocations[0].Parameters["wallet_address"])
}

func TestClassifyInvokerFailureDegrades(t *testing.T) {
	c := NewClassifier(&stubInvoker{err: assert.AnError}, model.IntentModelConfig{}, defaultWallet)

	intent := c.Classify(context.Background(), "explain gas fees", "")
	assert.Equal(t, model.IntentFactualQuery, intent.Kind)
}

func TestWalletAddressPrecedence(t *testing.T) {
	inMessage := "0xabc0000000000000000000000000000000000abc"
	supplied := "0xdef0000000000000000000000000000000000def"

	inv := &stubInvoker{output: "ok"}
	c := NewClassifier(inv, model.IntentModelConfig{}, defaultWallet)

	c.Classify(context.Background(), "check "+inMessage, supplied)
	assert.Contains(t, inv.lastIn.Query, "Wallet address: "+inMessage)

	c.Classify(context.Background(), "check my wallet", supplied)
	assert.Contains(t, inv.lastIn.Query, "Wallet address: "+supplied)

	c.Classify(context.Background(), "check my wallet", "")
	assert.Contains(t, inv.lastIn.Query, "Wallet address: "+defaultWallet)
}

func TestExtractWalletAddress(t *testing.T) {
	assert.Equal(t, "0xabc0000000000000000000000000000000000abc",
		ExtractWalletAddress("balance of 0xabc0000000000000000000000000000000000abc please"))
	assert.Empty(t, ExtractWalletAddress("no address here"))
	assert.Empty(t, ExtractWalletAddress("0x123 too short"))
}
