package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"support-backend/internal/helpdesk"
	"support-backend/internal/llm"
	openai "support-backend/internal/llm/openai"
	"support-backend/internal/manuals"
	"support-backend/internal/queue"
	"support-backend/internal/recommendations"
	"support-backend/internal/sentiment"
	"support-backend/internal/services/health"
	"support-backend/internal/shared/config"
	"support-backend/internal/shared/server"
	"support-backend/internal/shared/storage/db"
	"support-backend/internal/shared/storage/object"
	localstore "support-backend/internal/shared/storage/object/local"
	s3store "support-backend/internal/shared/storage/object/s3"
	"support-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config                config.Config
	Router                *gin.Engine
	DB                    *sql.DB
	Redis                 *recommendations.RedisStore
	Store                 object.ObjectStore
	Queue                 queue.Client
	FeedbackReceiver      queue.Receiver
	FeedbackRepo          recommendations.FeedbackRepo
	LLM                   llm.Generator
	ManualsRepo           manuals.Repo
	RecommendationStore   recommendations.Store
	Analyzer              *sentiment.Analyzer
	Processor             *manuals.Processor
	Engine                *recommendations.Engine
	Helpdesk              helpdesk.TicketSource
	SentimentHandler      *sentiment.Handler
	ManualHandler         *manuals.Handler
	RecommendationHandler *recommendations.Handler
	HelpdeskHandler       *helpdesk.Handler
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqsClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    gen,
	}
	if sqsClient != nil {
		app.Queue = sqsClient
		app.FeedbackReceiver = sqsClient
	}

	if err := buildRecommendationStore(ctx, app); err != nil {
		return nil, err
	}
	buildHelpdesk(ctx, app)
	buildServices(app)

	checks := map[string]health.Pinger{}
	if app.DB != nil {
		checks["database"] = app.DB
	}
	if app.Redis != nil {
		checks["redis"] = app.Redis
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                cfg,
		Health:                health.NewService(checks),
		SentimentHandler:      app.SentimentHandler,
		ManualHandler:         app.ManualHandler,
		RecommendationHandler: app.RecommendationHandler,
		HelpdeskHandler:       app.HelpdeskHandler,
	})

	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (*queue.SQSClient, error) {
	if cfg.FeedbackQueueURL == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.FeedbackQueueURL, cfg.AWSRegion)
}

func buildGenerator(cfg config.Config) (llm.Generator, error) {
	if cfg.LLMProvider != "openai" {
		telemetry.Info("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
		return llm.Unconfigured{}, nil
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && isDevLike(cfg.Env) {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"reason": "OPENAI_API_KEY empty"})
		return llm.Unconfigured{}, nil
	}
	return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL)
}

func buildRecommendationStore(ctx context.Context, app *App) error {
	if app.Config.RedisURL == "" {
		app.RecommendationStore = recommendations.NewMemoryStore()
		return nil
	}
	rs, err := recommendations.NewRedisStore(ctx, app.Config.RedisURL, app.Config.RecommendationTTL)
	if err != nil {
		if isDevLike(app.Config.Env) {
			telemetry.Warn("bootstrap.memory_recommendations", map[string]any{"error": err.Error()})
			app.RecommendationStore = recommendations.NewMemoryStore()
			return nil
		}
		return err
	}
	app.Redis = rs
	app.RecommendationStore = rs
	return nil
}

func buildHelpdesk(ctx context.Context, app *App) {
	cfg := app.Config
	client, err := helpdesk.NewClient(ctx, helpdesk.Options{
		BaseURL:      cfg.HelpdeskBaseURL,
		APIToken:     cfg.HelpdeskAPIToken,
		ClientID:     cfg.HelpdeskClientID,
		ClientSecret: cfg.HelpdeskClientSecret,
		TokenURL:     cfg.HelpdeskTokenURL,
	})
	if err != nil {
		if !errors.Is(err, helpdesk.ErrNotConfigured) {
			telemetry.Warn("bootstrap.helpdesk_disabled", map[string]any{"error": err.Error()})
		}
		return
	}
	app.Helpdesk = client
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ManualsRepo = &manuals.PGRepo{DB: app.DB}
		app.FeedbackRepo = &recommendations.PGFeedbackRepo{DB: app.DB}
	} else {
		app.ManualsRepo = manuals.NewMemoryRepo()
		app.FeedbackRepo = recommendations.NewMemoryFeedbackRepo()
	}

	app.Analyzer = sentiment.NewAnalyzer(app.LLM, app.Config.SentimentBatchDelay)
	app.Processor = manuals.NewProcessor(app.ManualsRepo, app.LLM, app.Store, app.Config.ManualChunkDelay)
	app.Engine = recommendations.NewEngine(app.LLM, app.Processor, app.RecommendationStore, app.Queue)
	app.Engine.Feedback = app.FeedbackRepo

	app.SentimentHandler = sentiment.NewHandler(app.Analyzer)
	app.ManualHandler = manuals.NewHandler(app.Processor)
	app.RecommendationHandler = recommendations.NewHandler(app.Engine)
	app.HelpdeskHandler = helpdesk.NewHandler(app.Helpdesk)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
