package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetheria-game/server/internal/npc/knowledge"
	"github.com/aetheria-game/server/internal/npc/model"
	"github.com/aetheria-game/server/internal/npc/tools"
)

type stubStore struct {
	turns   []model.ConversationTurn
	learned []string
	saved   []model.ConversationTurn
	marked  []string
	loadErr error
	saveErr error
}

func (s *stubStore) SaveTurn(_ context.Context, turn model.ConversationTurn) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, turn)
	return nil
}

func (s *stubStore) RecentTurns(context.Context, string, int) ([]model.ConversationTurn, error) {
	return s.turns, s.loadErr
}

func (s *stubStore) LearnedConcepts(context.Context, string) ([]string, error) {
	return s.learned, s.loadErr
}

func (s *stubStore) MarkConceptLearned(_ context.Context, _ string, concept string) error {
	s.marked = append(s.marked, concept)
	return nil
}

type stubClassifier struct {
	intent model.Intent
}

func (s *stubClassifier) Classify(context.Context, string, string) model.Intent {
	return s.intent
}

type stubRunner struct {
	results []model.ToolResult
	got     []model.ToolInvocation
}

func (s *stubRunner) ExecuteAll(_ context.Context, invs []model.ToolInvocation) []model.ToolResult {
	s.got = invs
	return s.results
}

type stubKB struct {
	passages []knowledge.Passage
	err      error
	query    string
}

func (s *stubKB) Search(_ context.Context, query string) ([]knowledge.Passage, error) {
	s.query = query
	return s.passages, s.err
}

type stubInvoker struct {
	output any
	err    error
	lastIn model.GenerateInput
}

func (s *stubInvoker) Invoke(_ context.Context, in model.GenerateInput) (any, error) {
	s.lastIn = in
	return s.output, s.err
}

func newTestOrchestrator(store *stubStore, classifier *stubClassifier, runner *stubRunner, kb *stubKB, invoker *stubInvoker) *Orchestrator {
	return NewOrchestrator(
		store,
		classifier,
		runner,
		kb,
		invoker,
		tools.FormatResultForPrompt,
		model.ChatConfig{UseModel: true, MaxHistoryTurns: 5},
		model.GenerationConfig{Temperature: 0.7, TopP: 0.9, MaxNewTokens: 500},
	)
}

func TestChatCannedWhenModelDisabled(t *testing.T) {
	o := NewOrchestrator(
		&stubStore{}, &stubClassifier{}, &stubRunner{}, &stubKB{}, &stubInvoker{},
		tools.FormatResultForPrompt,
		model.ChatConfig{UseModel: false},
		model.GenerationConfig{},
	)

	resp, err := o.Chat(context.Background(), Request{Message: "hi", SessionID: "s1"})
	require.NoError(t, err)
	assert.Contains(t, cannedResponses, resp)
}

func TestChatGeneralFlow(t *testing.T) {
	store := &stubStore{turns: []model.ConversationTurn{{UserMessage: "hi", NPCResponse: "hello"}}}
	invoker := &stubInvoker{output: "Greetings, traveler!"}
	o := newTestOrchestrator(store, &stubClassifier{intent: model.Intent{Kind: model.IntentGeneral}}, &stubRunner{}, &stubKB{}, invoker)

	resp, err := o.Chat(context.Background(), Request{Message: "tell me of gas fees", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "Greetings, traveler!", resp)

	// generation call carries an empty tool schema and the sampling config
	assert.Equal(t, "[]", invoker.lastIn.ToolsJSON)
	assert.InDelta(t, 0.7, invoker.lastIn.Temperature, 0.001)
	assert.Contains(t, invoker.lastIn.Query, "User: hi")

	// the turn is persisted and the mentioned concept marked
	require.Len(t, store.saved, 1)
	assert.Equal(t, "tell me of gas fees", store.saved[0].UserMessage)
	assert.Equal(t, "Greetings, traveler!", store.saved[0].NPCResponse)
	assert.Equal(t, []string{"gas"}, store.marked)
}

func TestChatToolCallFlow(t *testing.T) {
	runner := &stubRunner{results: []model.ToolResult{
		{Tool: tools.ToolWalletAge, Result: "42 days"},
	}}
	invoker := &stubInvoker{output: "Your wallet is 42 days old."}
	intent := model.Intent{
		Kind:        model.IntentToolCall,
		Invocations: []model.ToolInvocation{{Name: tools.ToolWalletAge}},
	}
	o := newTestOrchestrator(&stubStore{}, &stubClassifier{intent: intent}, runner, &stubKB{}, invoker)

	resp, err := o.Chat(context.Background(), Request{Message: "how old is my wallet?", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "Your wallet is 42 days old.", resp)
	require.Len(t, runner.got, 1)
	assert.Contains(t, invoker.lastIn.Query, "Wallet Age: 42 days")
}

func TestChatFactualFlow(t *testing.T) {
	kb := &stubKB{passages: []knowledge.Passage{{Content: "Gas is the fee unit of Ethereum."}}}
	invoker := &stubInvoker{output: "Gas, you ask?"}
	intent := model.Intent{Kind: model.IntentFactualQuery, Query: "what is gas?"}
	o := newTestOrchestrator(&stubStore{}, &stubClassifier{intent: intent}, &stubRunner{}, kb, invoker)

	_, err := o.Chat(context.Background(), Request{Message: "what is gas?", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "what is gas?", kb.query)
	assert.Contains(t, invoker.lastIn.Query, "Gas is the fee unit of Ethereum.")
}

func TestChatStoreFailuresDegrade(t *testing.T) {
	store := &stubStore{loadErr: assert.AnError, saveErr: assert.AnError}
	invoker := &stubInvoker{output: "still here"}
	o := newTestOrchestrator(store, &stubClassifier{intent: model.Intent{Kind: model.IntentGeneral}}, &stubRunner{}, &stubKB{}, invoker)

	resp, err := o.Chat(context.Background(), Request{Message: "hello", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "still here", resp)
}

func TestChatGenerationFailureFails(t *testing.T) {
	invoker := &stubInvoker{err: assert.AnError}
	o := newTestOrchestrator(&stubStore{}, &stubClassifier{intent: model.Intent{Kind: model.IntentGeneral}}, &stubRunner{}, &stubKB{}, invoker)

	_, err := o.Chat(context.Background(), Request{Message: "hello", SessionID: "s1"})
	assert.Error(t, err)
}

func TestChatChunkedOutputJoined(t *testing.T) {
	invoker := &stubInvoker{output: []any{"Greetings", ", ", "traveler!"}}
	o := newTestOrchestrator(&stubStore{}, &stubClassifier{intent: model.Intent{Kind: model.IntentGeneral}}, &stubRunner{}, &stubKB{}, invoker)

	resp, err := o.Chat(context.Background(), Request{Message: "hello", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "Greetings, traveler!", resp)
}
