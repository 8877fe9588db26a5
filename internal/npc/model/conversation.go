package model

import (
	"context"
	"time"
)

// ConversationTurn is one saved exchange between the player and the NPC.
// Turns are immutable once written.
type ConversationTurn struct {
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	NPCResponse string    `json:"npc_response"`
	Timestamp   time.Time `json:"timestamp"`
}

// ConversationStore persists conversation turns and learned concepts.
type ConversationStore interface {
	// SaveTurn appends one completed exchange to the session log.
	SaveTurn(ctx context.Context, turn ConversationTurn) error

	// RecentTurns returns the most recent maxTurns exchanges for the session
	// in chronological order.
	RecentTurns(ctx context.Context, sessionID string, maxTurns int) ([]ConversationTurn, error)

	// LearnedConcepts returns the concepts already recorded for the session.
	LearnedConcepts(ctx context.Context, sessionID string) ([]string, error)

	// MarkConceptLearned records a concept for the session. Recording the
	// same concept twice is a no-op.
	MarkConceptLearned(ctx context.Context, sessionID string, concept string) error
}
