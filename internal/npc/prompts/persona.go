// Package prompts assembles the generation request for the persona model.
package prompts

import (
	_ "embed"
	"strings"

	"github.com/aetheria-game/server/internal/npc/model"
)

//go:embed template/persona_prompt.txt
var personaPrompt string

// Assemble composes the final prompt: persona preamble, learned-concepts
// summary, chronological history, knowledge and tool text blocks, style
// rules, the new user line and the reply cue. Pure string composition.
//
// Known tokens are replaced individually so free-form text blocks cannot
// interfere with each other.
func Assemble(history []model.ConversationTurn, learnedConcepts []string, knowledgeText, toolResultsText, userMessage string) string {
	return strings.NewReplacer(
		"{learned_concepts}", FormatLearnedConcepts(learnedConcepts),
		"{history}", FormatHistory(history),
		"{knowledge}", knowledgeText,
		"{tool_results}", toolResultsText,
		"{message}", userMessage,
	).Replace(personaPrompt)
}

// FormatHistory renders turns as alternating speaker-labeled lines in
// chronological order.
func FormatHistory(history []model.ConversationTurn) string {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString("User: " + turn.UserMessage + "\n")
		b.WriteString("Niloy: " + turn.NPCResponse + "\n\n")
	}
	return b.String()
}

// FormatLearnedConcepts renders the learned-concepts summary sentence, with
// an explicit empty-state default.
func FormatLearnedConcepts(concepts []string) string {
	if len(concepts) == 0 {
		return "You haven't explored any concepts yet."
	}
	return "You have learned about: " + strings.Join(concepts, ", ") + "."
}
