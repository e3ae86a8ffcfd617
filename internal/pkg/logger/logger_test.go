package logger

import (
	"context"
	"testing"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithSessionAndAction(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithAction(ctx, "submit")
	ctx = WithSession(ctx, "s-1", entity.StageAssessment)
	ctxzap.Info(ctx, "hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "submit", fields["action"])
	assert.Equal(t, "s-1", fields["session_id"])
	assert.Equal(t, "assessment", fields["stage"])
}
