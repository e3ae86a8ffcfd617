package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/permitcheck/internal/api"
	workflowapi "github.com/futig/permitcheck/internal/api/workflow"
	"github.com/futig/permitcheck/internal/config"
	"github.com/futig/permitcheck/internal/integration/oracle"
	"github.com/futig/permitcheck/internal/pkg/validator"
	"github.com/futig/permitcheck/internal/repository"
	"github.com/futig/permitcheck/internal/usecase/workflow"
	"go.uber.org/zap"
)

type oracleConnector interface {
	workflow.OracleConnector
	Ping(ctx context.Context) error
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize oracle connector (with mock support)
	var oracleConn oracleConnector
	if cfg.EnableMocks {
		logger.Info("Using mock oracle connector")
		oracleConn = oracle.NewMockConnector(logger)
	} else {
		logger.Info("Using real oracle connector", zap.String("url", cfg.OracleConnectorCfg.Url))
		oracleConn = oracle.NewConnector(cfg.OracleConnectorCfg, logger)
	}

	waitForOracle(ctx, oracleConn, cfg.OracleConnectorCfg, logger)

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository[*workflow.Controller](cfg.SessionCfg.SessionTTL)
	exportRepo := repository.NewExportRepository(cfg.SessionCfg.ExportTTL)
	logger.Info("Repositories initialized",
		zap.Duration("session_ttl", cfg.SessionCfg.SessionTTL),
		zap.Duration("export_ttl", cfg.SessionCfg.ExportTTL),
	)

	// Initialize validators
	uploadValidator := validator.NewValidator(cfg.FileUploadCfg)

	// Initialize use cases
	workflowUC := workflow.NewUsecase(
		sessionRepo,
		exportRepo,
		oracleConn,
		uploadValidator,
		logger,
	)

	// Setup API handlers
	workflowHandler := workflowapi.NewHandler(workflowUC, uploadValidator)

	// Setup router
	router := api.SetupRouter(api.RouterConfig{
		HandlerTimeout: cfg.HandlerTimeout,
		CORSOrigins:    cfg.CORSOrigins,
	}, workflowHandler, logger)
	logger.Info("HTTP router configured")

	// Oracle calls may take as long as the handler timeout, so the write timeout follows it
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      cfg.HandlerTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}, nil
}
