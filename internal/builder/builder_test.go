package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/futig/permitcheck/internal/config"
	"github.com/futig/permitcheck/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyOracle struct {
	failures int
	calls    int
}

func (f *flakyOracle) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

func probeConfig(attempts uint) config.OracleConnectorConfig {
	return config.OracleConnectorConfig{
		Readiness: retry.RetryConfig{Attempts: attempts, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}
}

func TestWaitForOracleRetries(t *testing.T) {
	oracle := &flakyOracle{failures: 2}

	ready := waitForOracle(context.Background(), oracle, probeConfig(5), zap.NewNop())

	assert.True(t, ready)
	assert.Equal(t, 3, oracle.calls)
}

func TestWaitForOracleGivesUp(t *testing.T) {
	oracle := &flakyOracle{failures: 100}

	ready := waitForOracle(context.Background(), oracle, probeConfig(3), zap.NewNop())

	assert.False(t, ready)
	assert.Equal(t, 3, oracle.calls)
}

func TestSetupLogger(t *testing.T) {
	logger, err := setupLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = setupLogger("loud")
	assert.Error(t, err)
}
