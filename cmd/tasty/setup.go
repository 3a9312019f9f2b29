package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/tastybot/internal/config"
	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/internal/providers/llm"
	"github.com/sandevgo/tastybot/internal/providers/search"
	"github.com/sandevgo/tastybot/internal/service/turn"
	"github.com/sandevgo/tastybot/internal/storage/sqlite"
	"github.com/sandevgo/tastybot/internal/transport/cli"
	httptransport "github.com/sandevgo/tastybot/internal/transport/http"
	"github.com/sandevgo/tastybot/internal/transport/telegram"
	"github.com/sandevgo/tastybot/pkg/log"
	"github.com/sandevgo/tastybot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	searchCfg := config.NewSearchConfig(ctx)

	// 2. Storage
	db, messagesRepo, stateRepo, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. LLM provider and the collaborators built on it
	aiProvider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Recipe search: embeddings + vector index
	searcher := initSearch(llmCfg, searchCfg)

	// 5. Turn pipeline
	turns := turn.NewOrchestrator(
		appCfg,
		turn.NewRouter(llm.NewClassifier(aiProvider)),
		turn.NewPrefsStep(llm.NewExtractor(aiProvider)),
		turn.NewSearchStep(searcher, appCfg.TopK),
		turn.NewRequestStep(llm.NewAnalyzer(aiProvider)),
		turn.NewResponseStep(llm.NewResponder(aiProvider)),
		messagesRepo,
		stateRepo,
	)

	// 6. Transports
	transports, err := initTransports(ctx, appCfg, turns, messagesRepo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, core.MessagesRepository, core.StateRepository, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, nil, err
	}
	return db, sqlite.NewMessagesRepo(db), sqlite.NewStateRepo(db), nil
}

func initSearch(llmCfg *config.LLMConfig, cfg *config.SearchConfig) *search.Searcher {
	apiKey := cfg.EmbeddingAPIKey
	if apiKey == "" {
		apiKey = llmCfg.OpenAIAPIKey
	}

	embedder := llm.NewEmbeddingClient(cfg.EmbeddingBaseURL, apiKey, cfg.EmbeddingModel)
	index := search.NewIndexClient(cfg.IndexURL, cfg.IndexAPIKey)
	return search.NewSearcher(embedder, index)
}

func initTransports(ctx context.Context, cfg *config.AppConfig, turns *turn.Orchestrator, messages core.MessagesRepository) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, turns)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if cfg.EnableHTTP {
		services = append(services, httptransport.NewServer(config.NewHTTPConfig(ctx), turns, messages))
	}

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(turns, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
