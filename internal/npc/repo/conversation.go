package repo

import (
	"context"
	"database/sql"

	errx "github.com/aetheria-game/server/internal/core/error"
	"github.com/aetheria-game/server/internal/npc/model"
	logx "github.com/aetheria-game/server/pkg/logger"
)

// PostgresConversationStore persists conversation turns and learned concepts
// in the managed Postgres instance.
//
// Expected schema:
//
//	CREATE TABLE conversation_history (
//	    id bigserial PRIMARY KEY,
//	    session_id text NOT NULL,
//	    user_message text NOT NULL,
//	    npc_response text NOT NULL,
//	    timestamp timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE TABLE learned_concepts (
//	    id bigserial PRIMARY KEY,
//	    session_id text NOT NULL,
//	    concept text NOT NULL,
//	    timestamp timestamptz NOT NULL DEFAULT now(),
//	    UNIQUE (session_id, concept)
//	);
type PostgresConversationStore struct {
	db *sql.DB
}

func NewPostgresConversationStore(db *sql.DB) *PostgresConversationStore {
	return &PostgresConversationStore{db: db}
}

func (s *PostgresConversationStore) SaveTurn(ctx context.Context, turn model.ConversationTurn) error {
	const q = `
		INSERT INTO conversation_history (session_id, user_message, npc_response, timestamp)
		VALUES ($1, $2, $3, now())`

	if _, err := s.db.ExecContext(ctx, q, turn.SessionID, turn.UserMessage, turn.NPCResponse); err != nil {
		logx.Error().Err(err).Str("session_id", turn.SessionID).Msg("failed to save conversation turn")
		return errx.WrapPostgres(err)
	}
	return nil
}

// RecentTurns reads the newest maxTurns rows and reverses them so callers
// always see chronological order.
func (s *PostgresConversationStore) RecentTurns(ctx context.Context, sessionID string, maxTurns int) ([]model.ConversationTurn, error) {
	const q = `
		SELECT session_id, user_message, npc_response, timestamp
		FROM conversation_history
		WHERE session_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, q, sessionID, maxTurns)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to load conversation history")
		return nil, errx.WrapPostgres(err)
	}
	defer rows.Close()

	var turns []model.ConversationTurn
	for rows.Next() {
		var t model.ConversationTurn
		if err := rows.Scan(&t.SessionID, &t.UserMessage, &t.NPCResponse, &t.Timestamp); err != nil {
			return nil, errx.WrapPostgres(err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapPostgres(err)
	}

	return chronological(turns), nil
}

// chronological reorders a newest-first result set in place so callers always
// see oldest-first turns.
func chronological(turns []model.ConversationTurn) []model.ConversationTurn {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns
}

func (s *PostgresConversationStore) LearnedConcepts(ctx context.Context, sessionID string) ([]string, error) {
	const q = `SELECT concept FROM learned_concepts WHERE session_id = $1 ORDER BY timestamp ASC`

	rows, err := s.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to load learned concepts")
		return nil, errx.WrapPostgres(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var concept string
		if err := rows.Scan(&concept); err != nil {
			return nil, errx.WrapPostgres(err)
		}
		out = append(out, concept)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapPostgres(err)
	}
	return out, nil
}

func (s *PostgresConversationStore) MarkConceptLearned(ctx context.Context, sessionID string, concept string) error {
	const q = `
		INSERT INTO learned_concepts (session_id, concept, timestamp)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id, concept) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, q, sessionID, concept); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Str("concept", concept).Msg("failed to mark concept learned")
		return errx.WrapPostgres(err)
	}
	return nil
}

var _ model.ConversationStore = (*PostgresConversationStore)(nil)
