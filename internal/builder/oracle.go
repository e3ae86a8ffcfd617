package builder

import (
	"context"

	"github.com/futig/permitcheck/internal/config"
	"github.com/futig/permitcheck/internal/pkg/retry"
	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// waitForOracle probes the oracle health endpoint with retries. An oracle that never
// answers only produces a warning.
func waitForOracle(ctx context.Context, oracle pinger, cfg config.OracleConnectorConfig, logger *zap.Logger) bool {
	retryCfg := cfg.Readiness
	if retryCfg.Attempts == 0 {
		retryCfg = *retry.DefaultRetryConfig()
	}

	err := retry.Do(ctx, &retryCfg, func() error {
		return oracle.Ping(ctx)
	}, func(n uint, err error) {
		logger.Info("Oracle not ready yet", zap.Uint("attempt", n+1), zap.Error(err))
	})
	if err != nil {
		logger.Warn("Oracle is not reachable, starting anyway", zap.Error(err))
		return false
	}

	logger.Info("Oracle is ready")
	return true
}
