package contextutil_test

import (
	"context"
	"testing"

	"go-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFields(t *testing.T) {
	t.Run("Authenticated request", func(t *testing.T) {
		ctx := contextutil.WithRequestID(context.Background(), "req-1")
		ctx = contextutil.WithActor(ctx, 42, "client")

		fields := contextutil.Fields(ctx)
		assert.Equal(t, []zap.Field{
			zap.String("request_id", "req-1"),
			zap.Int64("user_id", 42),
			zap.String("role", "client"),
		}, fields)
	})

	t.Run("Anonymous request", func(t *testing.T) {
		ctx := contextutil.WithRequestID(context.Background(), "req-2")
		ctx = contextutil.WithActor(ctx, 0, "")

		_, ok := contextutil.GetActor(ctx)
		assert.False(t, ok)
		assert.Len(t, contextutil.Fields(ctx), 1)
	})

	t.Run("Empty context", func(t *testing.T) {
		assert.Empty(t, contextutil.GetRequestID(context.Background()))
		assert.Empty(t, contextutil.Fields(context.Background()))
	})
}

func TestGetLogger_Fallbacks(t *testing.T) {
	scoped := zap.NewExample()
	def := zap.NewNop()

	assert.Same(t, scoped, contextutil.GetLogger(contextutil.WithLogger(context.Background(), scoped), def))
	assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
