package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/interview-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Model providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string   `env:"SERVER_ADDR,notEmpty"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	LLMConnectorCfg      LLMConnectorConfig      `envPrefix:"LLM_"`
	CallbackConnectorCfg CallbackConnectorConfig `envPrefix:"CALLBACK_"`

	// Interview pipeline configuration
	InterviewCfg InterviewConfig `envPrefix:"INTERVIEW_"`

	// Bearer token verification (HS256)
	JWTSecret string `env:"JWT_SECRET"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	StateTTL           time.Duration `env:"STATE_TTL" envDefault:"24h"`
	ShutdownTimeout    int           `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

// InterviewConfig parameterizes question generation and analysis prompts.
type InterviewConfig struct {
	QuestionCount   int    `env:"QUESTION_COUNT" envDefault:"3"`
	Role            string `env:"ROLE" envDefault:"nurse"`
	Topic           string `env:"TOPIC" envDefault:"adult nursing"`
	DefaultCategory string `env:"DEFAULT_CATEGORY" envDefault:"general"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Provider            string               `env:"PROVIDER" envDefault:"openai"`
	APIKey              string               `env:"API_KEY"`
	CompletionsEndpoint string               `env:"COMPLETIONS_ENDPOINT" envDefault:"/chat/completions"`
	GenerationModel     string               `env:"GENERATION_MODEL" envDefault:"gpt-4o-mini"`
	AnalysisModel       string               `env:"ANALYSIS_MODEL" envDefault:"gemini-2.0-flash"`
	GenerationSampling  GenerationSampling   `envPrefix:"GENERATION_"`
	AnalysisSampling    AnalysisSampling     `envPrefix:"ANALYSIS_"`
	MaxTokens           int                  `env:"MAX_TOKENS" envDefault:"0"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// GenerationSampling holds the sampling parameters of question generation calls.
type GenerationSampling struct {
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.7"`
	TopP        float64 `env:"TOP_P" envDefault:"0.7"`
}

// AnalysisSampling holds the sampling parameters of session analysis calls.
type AnalysisSampling struct {
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.4"`
	TopP        float64 `env:"TOP_P" envDefault:"0.95"`
}

type CallbackConnectorConfig struct {
	HTTPClientConfig
	CallbackEndpoint string               `env:"ENDPOINT"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse builds and validates a Config from the process environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	// Validate interview configuration
	if cfg.InterviewCfg.QuestionCount < 1 || cfg.InterviewCfg.QuestionCount > 20 {
		errs = append(errs, fmt.Sprintf("INTERVIEW_QUESTION_COUNT must be between 1 and 20, got %d", cfg.InterviewCfg.QuestionCount))
	}

	// Validate LLM configuration
	llm := cfg.LLMConnectorCfg
	switch llm.Provider {
	case ProviderOpenAI:
		if llm.Url == "" && !cfg.EnableMocks {
			errs = append(errs, "LLM_SERVICE_URL is required for the openai provider")
		}
	case ProviderGemini:
		if llm.APIKey == "" && !cfg.EnableMocks {
			errs = append(errs, "LLM_API_KEY is required for the gemini provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("LLM_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, llm.Provider))
	}

	for name, v := range map[string]float64{
		"LLM_GENERATION_TEMPERATURE": llm.GenerationSampling.Temperature,
		"LLM_ANALYSIS_TEMPERATURE":   llm.AnalysisSampling.Temperature,
	} {
		if v < 0 || v > 2 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 2, got %g", name, v))
		}
	}
	for name, v := range map[string]float64{
		"LLM_GENERATION_TOP_P": llm.GenerationSampling.TopP,
		"LLM_ANALYSIS_TOP_P":   llm.AnalysisSampling.TopP,
	} {
		if v <= 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be in (0, 1], got %g", name, v))
		}
	}

	// Validate Telegram configuration
	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}

// IsProduction reports whether the service runs with the prod environment flag.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}
