package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"brew-backend/internal/catalog"
	"brew-backend/internal/llm"
	"brew-backend/internal/llm/anthropic"
	"brew-backend/internal/llm/openai"
	"brew-backend/internal/recommendations"
	"brew-backend/internal/services/health"
	"brew-backend/internal/shared/config"
	"brew-backend/internal/shared/server"
	"brew-backend/internal/shared/server/middleware"
	"brew-backend/internal/shared/storage/db"
	"brew-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config                config.Config
	Router                *gin.Engine
	DB                    *sql.DB
	Catalog               catalog.Repo
	CatalogSource         string
	LLM                   llm.Client
	Generator             recommendations.Generator
	RecommendationService *recommendations.Service
	RecommendationHandler *recommendations.Handler
	Health                *health.Service
}

// Build prepares dependencies and wires routes. The catalog is loaded once
// here; request handling never touches the database.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	repo, source, err := buildCatalog(ctx, sqlDB)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Catalog = repo
	app.CatalogSource = source

	client, configured, err := NewLLMClient(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.LLM = client

	app.Generator = recommendations.NewGuardedGenerator(
		recommendations.NewAIProvider(client, configured),
		recommendations.BreakerConfig{
			Name:             "ai-" + cfg.LLMProvider,
			FailureThreshold: uint32(max(cfg.BreakerFailures, 0)),
			Cooldown:         time.Duration(cfg.BreakerCooldownSecs) * time.Second,
		},
	)
	app.RecommendationService = recommendations.NewService(
		app.Catalog,
		app.Generator,
		time.Duration(cfg.AITimeoutSeconds)*time.Second,
	)
	app.RecommendationHandler = recommendations.NewHandler(app.RecommendationService, app.Catalog)
	app.Health = health.NewService(app.Generator, app.CatalogSource)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                cfg,
		RecommendationHandler: app.RecommendationHandler,
		Health:                app.Health,
		RateLimiter:           middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            cfg.Env,
		"llm_provider":   cfg.LLMProvider,
		"llm_model":      cfg.LLMModel,
		"ai_available":   app.Generator.IsAvailable(),
		"catalog_source": app.CatalogSource,
	})
	return app, nil
}

// Close releases the database handle, if any.
func (a *App) Close() {
	if a == nil || a.DB == nil {
		return
	}
	if err := a.DB.Close(); err != nil {
		telemetry.Warn("bootstrap.db_close_failed", map[string]any{"error": err})
	}
	a.DB = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.catalog", map[string]any{"message": "DATABASE_URL empty; using built-in catalog"})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultCatalogOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_connect_failed", map[string]any{
				"message": "using built-in catalog",
				"error":   err,
			})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildCatalog(ctx context.Context, sqlDB *sql.DB) (catalog.Repo, string, error) {
	if sqlDB == nil {
		return catalog.NewDefaultRepo(), health.CatalogSourceMemory, nil
	}
	snapshot, err := catalog.Load(ctx, &catalog.PGRepo{DB: sqlDB})
	if err != nil {
		return nil, "", fmt.Errorf("load catalog: %w", err)
	}
	return snapshot, health.CatalogSourcePostgres, nil
}

// NewLLMClient returns the client for the configured provider and whether a
// credential is present. Without one the placeholder client is used.
func NewLLMClient(cfg config.Config) (llm.Client, bool, error) {
	key := strings.TrimSpace(cfg.APIKey())
	if key == "" {
		return llm.PlaceholderClient{}, false, nil
	}
	switch cfg.LLMProvider {
	case "anthropic":
		client, err := anthropic.NewClient(key, cfg.AnthropicBaseURL, cfg.LLMModel)
		if err != nil {
			return nil, false, err
		}
		return client, true, nil
	case "openai":
		client, err := openai.NewClient(key, cfg.LLMModel)
		if err != nil {
			return nil, false, err
		}
		return client, true, nil
	default:
		return nil, false, errors.New("unsupported LLM_PROVIDER " + cfg.LLMProvider)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
