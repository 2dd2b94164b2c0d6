package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext(t *testing.T) {
	logger, _ := observedLogger()
	ctx := WithContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_Fallbacks(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotPanics(t, func() { FromContext(ctx).Info("test") })
}

func TestWithRequestID(t *testing.T) {
	logger, logs := observedLogger()

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithAccountID(t *testing.T) {
	logger, logs := observedLogger()

	ctx, enriched := WithAccountID(context.Background(), logger, "acc-1")
	assert.Equal(t, "acc-1", GetAccountID(ctx))
	assert.Empty(t, GetAccountID(context.Background()))

	enriched.Info("hello")
	assert.Equal(t, "acc-1", logs.All()[0].ContextMap()["account_id"])
}

func TestTraceCorrelation(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	t.Run("no span yields empty ids", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
		assert.Empty(t, GetSpanID(context.Background()))
	})

	t.Run("active span ids are injected", func(t *testing.T) {
		ctx, span := tp.Tracer("test").Start(context.Background(), "op")
		defer span.End()

		assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
		assert.Equal(t, span.SpanContext().SpanID().String(), GetSpanID(ctx))

		logger, logs := observedLogger()
		L(WithContext(ctx, logger)).Info("traced")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, GetTraceID(ctx), fields["trace_id"])
		assert.Equal(t, GetSpanID(ctx), fields["span_id"])
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("logger from context keeps single request_id", func(t *testing.T) {
		logger, logs := observedLogger()
		ctx, _ := WithRequestID(context.Background(), logger, "req-1")

		L(ctx).With(zap.String("op", "withdraw")).Warn("slow")

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
		assert.Equal(t, "withdraw", entry.ContextMap()["op"])
		count := 0
		for _, f := range entry.Context {
			if f.Key == "request_id" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("explicit logger gets request_id from context", func(t *testing.T) {
		logger, logs := observedLogger()
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-2")

		WithLogger(ctx, logger).Error("boom")
		assert.Equal(t, "req-2", logs.All()[0].ContextMap()["request_id"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			WithLogger(context.Background(), nil).Debug("nothing")
		})
	})
}
