package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/interview-backend/internal/api"
	interviewapi "github.com/futig/interview-backend/internal/api/interview"
	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/integration/callback"
	"github.com/futig/interview-backend/internal/integration/common"
	"github.com/futig/interview-backend/internal/integration/llm"
	"github.com/futig/interview-backend/internal/pkg/validator"
	"github.com/futig/interview-backend/internal/prompts"
	"github.com/futig/interview-backend/internal/repository"
	"github.com/futig/interview-backend/internal/telegram"
	"github.com/futig/interview-backend/internal/telegram/state"
	"github.com/futig/interview-backend/internal/usecase/interview"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Analysis holds one model call over a whole session, so handlers get more
// time than the usual request budget.
const (
	requestTimeout = 120 * time.Second
	writeTimeout   = requestTimeout + 10*time.Second
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required to serve the HTTP API")
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	db, interviewUC, err := buildInterview(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	interviewHandler := interviewapi.NewHandler(interviewUC, validator.NewValidator())
	logger.Info("API handlers initialized")

	router := api.SetupRouter(interviewHandler, api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: requestTimeout,
	}, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*BotApp, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is required to run the bot")
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	db, interviewUC, err := buildInterview(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	storage := state.NewMemoryStorage(cfg.TelegramCfg.StateTTL)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, storage, interviewUC, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &BotApp{bot: bot, db: db, logger: logger}, nil
}

// buildInterview wires storage, the model client and the interview use case
// shared by the HTTP API and the bot.
func buildInterview(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, *interview.InterviewUsecase, error) {
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	recordRepo := repository.NewRecordPostgres(db)
	logger.Info("Repositories initialized")

	model, err := setupModelClient(ctx, cfg, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("setup model client: %w", err)
	}

	promptManager, err := prompts.NewManager()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load prompts: %w", err)
	}

	var callbackConnector interview.CallbackConnector
	if cfg.CallbackConnectorCfg.CallbackEndpoint != "" {
		callbackConnector = callback.NewConnector(cfg.CallbackConnectorCfg, logger)
		logger.Info("Analysis callbacks enabled",
			zap.String("endpoint", cfg.CallbackConnectorCfg.CallbackEndpoint),
		)
	}

	interviewUC := interview.NewUsecase(
		recordRepo,
		model,
		promptManager,
		callbackConnector,
		interview.NewConfig(cfg.InterviewCfg, cfg.LLMConnectorCfg),
		logger,
	)
	logger.Info("Use cases initialized")

	return db, interviewUC, nil
}

func setupModelClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (interview.ModelClient, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock model connector")
		return llm.NewMockConnector(logger), nil
	}

	logger.Info("Using model provider", zap.String("provider", cfg.LLMConnectorCfg.Provider))
	switch cfg.LLMConnectorCfg.Provider {
	case config.ProviderGemini:
		httpClient := common.NewSDKClient(cfg.LLMConnectorCfg.HTTPClientConfig)
		return llm.NewGeminiConnector(ctx, cfg.LLMConnectorCfg, httpClient)
	default:
		return llm.NewConnector(cfg.LLMConnectorCfg, logger), nil
	}
}
