package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-assistant/internal/auth"
	"resume-assistant/internal/generation"
	"resume-assistant/internal/llm"
	"resume-assistant/internal/llm/gemini"
	"resume-assistant/internal/llm/openai"
	"resume-assistant/internal/resumes"
	"resume-assistant/internal/services/health"
	sharedauth "resume-assistant/internal/shared/auth"
	"resume-assistant/internal/shared/config"
	"resume-assistant/internal/shared/server"
	"resume-assistant/internal/shared/server/middleware"
	"resume-assistant/internal/shared/storage/db"
	"resume-assistant/internal/shared/storage/object"
	localstore "resume-assistant/internal/shared/storage/object/local"
	s3store "resume-assistant/internal/shared/storage/object/s3"
	"resume-assistant/internal/shared/telemetry"
	"resume-assistant/internal/users"
)

// App holds the process-wide dependencies, built once and injected into handlers.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Generator llm.Generator
	Signer    *sharedauth.Signer

	UsersRepo         users.Repo
	UsersService      *users.Service
	GenerationService *generation.Service
	ResumeService     *resumes.Service
	GoogleAuth        *googleauth.GoogleService
}

// Option overrides a dependency before services are wired. Used by tests.
type Option func(*App)

// WithGenerator replaces the configured provider.
func WithGenerator(gen llm.Generator) Option {
	return func(a *App) { a.Generator = gen }
}

// WithUsersRepo replaces the repository selected from configuration.
func WithUsersRepo(repo users.Repo) Option {
	return func(a *App) { a.UsersRepo = repo }
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	if app.UsersRepo == nil {
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.DB = sqlDB
		if sqlDB != nil {
			app.UsersRepo = &users.PGRepo{DB: sqlDB}
		} else {
			app.UsersRepo = users.NewMemoryRepo()
		}
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	if app.Generator == nil {
		gen, err := buildGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.Generator = gen
	}

	signer, err := sharedauth.NewSigner(cfg.JWTSecret, cfg.IsDevLike())
	if err != nil {
		return nil, err
	}
	app.Signer = signer

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Health:            health.NewService(app.DB, app.Config.LLMProvider),
		UserHandler:       users.NewHandler(app.UsersService),
		GenerationHandler: generation.NewHandler(app.GenerationService),
		ResumeHandler:     resumes.NewHandler(app.ResumeService),
		GoogleAuth:        app.GoogleAuth,
		Signer:            app.Signer,
		RateLimiter:       middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"storage":      storageName(app.DB),
		"object_store": cfg.ObjectStoreType,
		"llm_provider": cfg.LLMProvider,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
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
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, openai.Options{Timeout: cfg.LLMTimeout})
	case "none":
		return llm.PlaceholderGenerator{}, nil
	default:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			if cfg.IsDevLike() {
				telemetry.Warn("bootstrap.llm.placeholder", map[string]any{"reason": "GEMINI_API_KEY empty"})
				return llm.PlaceholderGenerator{}, nil
			}
			return nil, errors.New("GEMINI_API_KEY is required")
		}
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, gemini.Options{Timeout: cfg.LLMTimeout})
	}
}

func buildServices(app *App) error {
	if app.UsersRepo == nil || app.Store == nil || app.Generator == nil {
		return errors.New("failed to initialize dependencies")
	}
	app.UsersService = users.NewService(app.UsersRepo)
	app.GenerationService = generation.NewService(app.UsersService, app.Generator)
	app.ResumeService = resumes.NewService(app.UsersService, app.Store)
	app.GoogleAuth = googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:     app.Config.GoogleClientID,
		ClientSecret: app.Config.GoogleClientSecret,
		RedirectURL:  app.Config.GoogleRedirectURL,
		UIRedirect:   app.Config.UIRedirectURL,
	}, app.UsersService, app.Signer)
	return nil
}

func storageName(sqlDB *sql.DB) string {
	if sqlDB == nil {
		return "memory"
	}
	return "postgres"
}
