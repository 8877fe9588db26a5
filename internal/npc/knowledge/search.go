// Package knowledge performs semantic lookups against the documents table
// for factual player questions.
package knowledge

import (
	"context"
	"database/sql"
	"net/http"

	errx "github.com/aetheria-game/server/internal/core/error"
	"github.com/aetheria-game/server/internal/npc/model"
	logx "github.com/aetheria-game/server/pkg/logger"
	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

// Passage is one retrieved knowledge-base entry.
type Passage struct {
	Content string
}

// Searcher embeds the query and runs a cosine-distance match over the
// documents table.
//
// Expected schema:
//
//	CREATE TABLE documents (
//	    id bigserial PRIMARY KEY,
//	    content text NOT NULL,
//	    embedding vector(1536) NOT NULL
//	);
type Searcher struct {
	db  *sql.DB
	ai  *openai.Client
	cfg model.KnowledgeConfig
}

func NewSearcher(db *sql.DB, ai *openai.Client, cfg model.KnowledgeConfig) *Searcher {
	return &Searcher{db: db, ai: ai, cfg: cfg}
}

// Search returns up to MaxResults passages above the similarity threshold,
// most similar first.
func (s *Searcher) Search(ctx context.Context, query string) ([]Passage, error) {
	embedding, err := s.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	const q = `
		SELECT content
		FROM documents
		WHERE 1 - (embedding <=> $1) > $2
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, q, pgvector.NewVector(embedding), s.cfg.MatchThreshold, s.cfg.MaxResults)
	if err != nil {
		logx.Error().Err(err).Msg("knowledge base query failed")
		return nil, errx.WrapPostgres(err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		if err := rows.Scan(&p.Content); err != nil {
			return nil, errx.WrapPostgres(err)
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapPostgres(err)
	}
	return passages, nil
}

func (s *Searcher) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.ai.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.cfg.EmbeddingModel),
		Input: []string{text},
	})
	if err != nil {
		logx.Error().Err(err).Msg("query embedding failed")
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errx.New(nil, http.StatusBadGateway, "empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

// FormatForPrompt renders passages as the knowledge block of the persona
// prompt. Empty results format to the empty string.
func FormatForPrompt(passages []Passage) string {
	if len(passages) == 0 {
		return ""
	}
	out := "Relevant knowledge from the blockchain realm:\n\n"
	for _, p := range passages {
		out += "- " + p.Content + "\n"
	}
	return out
}
