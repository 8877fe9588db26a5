// Package chat ties the pipeline together: history, concepts, intent, tool
// execution or knowledge lookup, prompt assembly, generation, persistence.
package chat

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strings"

	errx "github.com/aetheria-game/server/internal/core/error"
	"github.com/aetheria-game/server/internal/llm"
	"github.com/aetheria-game/server/internal/npc/concepts"
	"github.com/aetheria-game/server/internal/npc/knowledge"
	"github.com/aetheria-game/server/internal/npc/model"
	"github.com/aetheria-game/server/internal/npc/prompts"
	logx "github.com/aetheria-game/server/pkg/logger"
)

// cannedResponses answer chat requests when generation is disabled, for
// cost-free smoke testing.
var cannedResponses = []string{
	"Hmm, I'm not sure what you mean. Can you provide more details?",
	"Yes",
	"No",
	"I'm not sure",
	"I don't know",
}

// Classifier resolves the intent of one message.
type Classifier interface {
	Classify(ctx context.Context, message, walletAddress string) model.Intent
}

// ToolRunner executes a batch of invocations, one result per invocation in
// invocation order.
type ToolRunner interface {
	ExecuteAll(ctx context.Context, invs []model.ToolInvocation) []model.ToolResult
}

// KnowledgeBase retrieves passages relevant to a factual query.
type KnowledgeBase interface {
	Search(ctx context.Context, query string) ([]knowledge.Passage, error)
}

// ResultFormatter renders one tool result as prompt text.
type ResultFormatter func(model.ToolResult) string

// Request is one incoming chat message.
type Request struct {
	Message       string
	SessionID     string
	WalletAddress string
}

// Orchestrator runs the chat pipeline. All collaborators are injected so the
// flow is testable without live network access.
type Orchestrator struct {
	store        model.ConversationStore
	classifier   Classifier
	tools        ToolRunner
	knowledge    KnowledgeBase
	invoker      model.ModelInvoker
	formatResult ResultFormatter
	cfg          model.ChatConfig
	gen          model.GenerationConfig
}

func NewOrchestrator(
	store model.ConversationStore,
	classifier Classifier,
	tools ToolRunner,
	kb KnowledgeBase,
	invoker model.ModelInvoker,
	formatResult ResultFormatter,
	cfg model.ChatConfig,
	gen model.GenerationConfig,
) *Orchestrator {
	return &Orchestrator{
		store:        store,
		classifier:   classifier,
		tools:        tools,
		knowledge:    kb,
		invoker:      invoker,
		formatResult: formatResult,
		cfg:          cfg,
		gen:          gen,
	}
}

// Chat processes one message and returns the NPC reply. Store reads and the
// intent model call degrade to empty values; only the generation call itself
// can fail the request.
func (o *Orchestrator) Chat(ctx context.Context, req Request) (string, error) {
	if !o.cfg.UseModel {
		return cannedResponses[rand.IntN(len(cannedResponses))], nil
	}

	history, err := o.store.RecentTurns(ctx, req.SessionID, o.cfg.MaxHistoryTurns)
	if err != nil {
		logx.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to load history; continuing without it")
		history = nil
	}

	learned, err := o.store.LearnedConcepts(ctx, req.SessionID)
	if err != nil {
		logx.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to load learned concepts; continuing without them")
		learned = nil
	}

	detected := concepts.Detect(req.Message)

	intent := o.classifier.Classify(ctx, req.Message, req.WalletAddress)

	var knowledgeText, toolResultsText string
	switch intent.Kind {
	case model.IntentFactualQuery:
		passages, err := o.knowledge.Search(ctx, intent.Query)
		if err != nil {
			logx.Error().Err(err).Msg("knowledge base search failed; continuing without passages")
		}
		knowledgeText = knowledge.FormatForPrompt(passages)
		logx.Info().Int("passages", len(passages)).Msg("knowledge base searched")

	case model.IntentToolCall:
		results := o.tools.ExecuteAll(ctx, intent.Invocations)
		var b strings.Builder
		for _, res := range results {
			b.WriteString(o.formatResult(res))
			b.WriteString("\n")
		}
		toolResultsText = b.String()
		logx.Info().Int("tools", len(results)).Msg("tool calls executed")
	}

	logx.Debug().
		Str("session_id", req.SessionID).
		Str("intent", string(intent.Kind)).
		Strs("detected_concepts", detected).
		Msg("assembling persona prompt")

	prompt := prompts.Assemble(history, learned, knowledgeText, toolResultsText, req.Message)

	raw, err := o.invoker.Invoke(ctx, model.GenerateInput{
		Query:        prompt,
		ToolsJSON:    "[]",
		Temperature:  o.gen.Temperature,
		MaxNewTokens: o.gen.MaxNewTokens,
		TopP:         o.gen.TopP,
	})
	if err != nil {
		return "", errx.New(err, http.StatusBadGateway, errx.ModelErrorMessage)
	}
	response := llm.OutputText(raw)

	if err := o.store.SaveTurn(ctx, model.ConversationTurn{
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		NPCResponse: response,
	}); err != nil {
		logx.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to save conversation turn")
	}

	for _, concept := range detected {
		if err := o.store.MarkConceptLearned(ctx, req.SessionID, concept); err != nil {
			logx.Error().Err(err).Str("concept", concept).Msg("failed to mark concept learned")
		}
	}

	return response, nil
}
