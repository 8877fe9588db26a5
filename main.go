package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	openai "github.com/sashabaranov/go-openai"

	"github.com/aetheria-game/server/internal/avatar"
	"github.com/aetheria-game/server/internal/core"
	"github.com/aetheria-game/server/internal/llm"
	"github.com/aetheria-game/server/internal/npc/chat"
	"github.com/aetheria-game/server/internal/npc/intent"
	"github.com/aetheria-game/server/internal/npc/knowledge"
	"github.com/aetheria-game/server/internal/npc/model"
	"github.com/aetheria-game/server/internal/npc/repo"
	"github.com/aetheria-game/server/internal/npc/tools"
	"github.com/aetheria-game/server/internal/server"
	"github.com/aetheria-game/server/internal/wallet"
	logx "github.com/aetheria-game/server/pkg/logger"
	pkgpostgres "github.com/aetheria-game/server/pkg/postgres"
	pkgredis "github.com/aetheria-game/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the game backend,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis    pkgredis.Config
	Postgres pkgpostgres.Config

	// External services
	Moralis  wallet.MoralisConfig
	Flock    llm.FlockConfig
	Venice   avatar.VeniceConfig
	Supabase avatar.SupabaseStorageConfig

	// Embeddings provider for knowledge base retrieval
	OpenAIKey string `envconfig:"OPENAI_API_KEY" required:"true"`

	// Pipeline configs
	Chat       model.ChatConfig
	Generation model.GenerationConfig
	Intent     model.IntentModelConfig
	Knowledge  model.KnowledgeConfig

	// HTTP listener
	Server server.Config

	WalletCacheTTLMinutes int `envconfig:"WALLET_CACHE_TTL_MINUTES" default:"10"`
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.FromEnv()})

	rdb := cfg.Redis.MustNew()
	defer rdb.Close()

	db := cfg.Postgres.MustNew()
	defer db.Close()

	walletClient := wallet.NewCachedDataClient(
		wallet.NewMoralisClient(cfg.Moralis),
		rdb,
		time.Duration(cfg.WalletCacheTTLMinutes)*time.Minute,
	)

	invoker, err := llm.NewFlockClient(cfg.Flock)
	if err != nil {
		log.Fatalf("Failed to initialise model client: %v", err)
	}
	classifier := intent.NewClassifier(invoker, cfg.Intent, cfg.Chat.DefaultWallet)
	executor := tools.NewExecutor(walletClient, cfg.Chat.DefaultWallet)
	searcher := knowledge.NewSearcher(db, openai.NewClient(cfg.OpenAIKey), cfg.Knowledge)
	store := repo.NewPostgresConversationStore(db)

	orchestrator := chat.NewOrchestrator(
		store,
		classifier,
		executor,
		searcher,
		invoker,
		tools.FormatResultForPrompt,
		cfg.Chat,
		cfg.Generation,
	)

	generator := avatar.NewGenerator(
		walletClient,
		avatar.NewVeniceClient(cfg.Venice),
		avatar.NewSupabaseStorage(cfg.Supabase),
	)

	srv := server.New(cfg.Server, orchestrator, walletClient, generator)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil {
			logx.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}
