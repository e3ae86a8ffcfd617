package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/permitcheck/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR,notEmpty"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HandlerTimeout  time.Duration `env:"HANDLER_TIMEOUT" envDefault:"5m"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Remote oracle configuration
	OracleConnectorCfg OracleConnectorConfig `envPrefix:"ORACLE_"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Session configuration
	SessionCfg SessionConfig

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type OracleConnectorConfig struct {
	HTTPClientConfig
	FeasibilityEndpoint string               `env:"FEASIBILITY_ENDPOINT" envDefault:"/api/feasibility-check"`
	NarrativeEndpoint   string               `env:"NARRATIVE_ENDPOINT" envDefault:"/api/generate-narrative"`
	ReviewEndpoint      string               `env:"REVIEW_ENDPOINT" envDefault:"/api/review-permit"`
	VisualEndpoint      string               `env:"VISUAL_ENDPOINT" envDefault:"/api/generate-visual"`
	ExportEndpoint      string               `env:"EXPORT_ENDPOINT" envDefault:"/api/export-document"`
	HealthEndpoint      string               `env:"HEALTH_ENDPOINT" envDefault:"/api/health"`
	Readiness           pkgRetry.RetryConfig `envPrefix:"READINESS_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"120s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`   // 10 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"12582912"` // 12 MiB, multipart parse limit
}

type SessionConfig struct {
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	ExportTTL  time.Duration `env:"EXPORT_TTL" envDefault:"15m"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Variables may also be set externally, a missing file is not fatal.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if !cfg.EnableMocks && cfg.OracleConnectorCfg.Url == "" {
		errors = append(errors, "ORACLE_SERVICE_URL is required unless ENABLE_MOCKS is set")
	}

	if cfg.FileUploadCfg.MaxFileSize < 1 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxFileSize))
	}

	if cfg.FileUploadCfg.MaxUploadSize < cfg.FileUploadCfg.MaxFileSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_UPLOAD_SIZE must be at least FILE_UPLOAD_MAX_FILE_SIZE(%d), got %d",
			cfg.FileUploadCfg.MaxFileSize, cfg.FileUploadCfg.MaxUploadSize))
	}

	if cfg.HandlerTimeout < cfg.OracleConnectorCfg.RequestTimeout {
		errors = append(errors, fmt.Sprintf("HANDLER_TIMEOUT(%s) must not be shorter than ORACLE_TIMEOUT(%s)",
			cfg.HandlerTimeout, cfg.OracleConnectorCfg.RequestTimeout))
	}

	if cfg.SessionCfg.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("SESSION_TTL must be at least 1m, got %s", cfg.SessionCfg.SessionTTL))
	}

	if cfg.SessionCfg.ExportTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("EXPORT_TTL must be at least 1m, got %s", cfg.SessionCfg.ExportTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
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
