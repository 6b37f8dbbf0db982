package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/auth"
	"github.com/orza-hq/orza-engine/pkg/config"
	"github.com/orza-hq/orza-engine/pkg/database"
	"github.com/orza-hq/orza-engine/pkg/handlers"
	"github.com/orza-hq/orza-engine/pkg/logging"
	"github.com/orza-hq/orza-engine/pkg/middleware"
	"github.com/orza-hq/orza-engine/pkg/nlp"
	"github.com/orza-hq/orza-engine/pkg/query"
	"github.com/orza-hq/orza-engine/pkg/response"
	"github.com/orza-hq/orza-engine/pkg/schema"
	"github.com/orza-hq/orza-engine/pkg/services"
	"github.com/orza-hq/orza-engine/pkg/store"
	"github.com/orza-hq/orza-engine/pkg/validate"
)

// Version is set at build time via ldflags.
var Version = "dev"

const migrationsPath = "migrations"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s",
			cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)),
		zap.String("llm_provider", cfg.LLM.Provider))

	ctx := context.Background()

	connStr := cfg.Database.ConnectionString()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(connStr, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	verifier, err := auth.NewVerifier(&auth.VerifierConfig{
		Secret:  cfg.Auth.JWTSecret,
		JWKSURL: cfg.Auth.JWKSURL,
	})
	if err != nil {
		logger.Fatal("Failed to create token verifier", zap.Error(err))
	}
	authMW := auth.NewMiddleware(verifier, logger)

	extractor, err := buildExtractor(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create intent extractor", zap.Error(err))
	}

	st := store.NewStore(db.Pool, logger)
	registry := schema.NewRegistry(st, logger)
	validator := validate.NewValidator(registry, logger)
	compiler := query.NewCompiler(st, logger)
	formatter := response.NewFormatter(logger)
	pipeline := services.NewPipelineService(extractor, validator, compiler, formatter, st, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(pipeline, authMW, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(pipeline, authMW, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting orza-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func runMigrations(connStr string, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("open sql connection: %w", err)
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, migrationsPath, logger)
}

// buildExtractor creates the configured language model client. An empty
// provider disables /api/chat extraction; /api/query keeps working.
func buildExtractor(cfg *config.Config, logger *zap.Logger) (nlp.Extractor, error) {
	switch cfg.LLM.Provider {
	case "":
		logger.Warn("No LLM provider configured; natural-language questions are disabled")
		return nil, nil
	case "openai":
		return nlp.NewOpenAIExtractor(&nlp.OpenAIConfig{
			Endpoint: cfg.LLM.Endpoint,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
		}, logger)
	case "anthropic":
		return nlp.NewAnthropicExtractor(&nlp.AnthropicConfig{
			Model:  cfg.LLM.Model,
			APIKey: cfg.LLM.APIKey,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
