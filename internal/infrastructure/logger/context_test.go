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

func contextFields(entry observer.LoggedEntry) map[string]interface{} {
	return entry.ContextMap()
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, tagged := WithRequestID(context.Background(), zap.New(core), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Same(t, tagged, FromContext(ctx))

	tagged.Info("hello")
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-1", contextFields(recorded.All()[0])[FieldRequestID])
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	t.Run("without span", func(t *testing.T) {
		l := zap.NewNop()
		assert.Empty(t, GetTraceID(context.Background()))
		assert.Same(t, l, WithTraceContext(context.Background(), l))
	})

	t.Run("with span", func(t *testing.T) {
		ctx, span := tp.Tracer("test").Start(context.Background(), "op")
		defer span.End()

		core, recorded := observer.New(zapcore.InfoLevel)
		WithTraceContext(ctx, zap.New(core)).Info("traced")

		fields := contextFields(recorded.All()[0])
		assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
		assert.Equal(t, span.SpanContext().TraceID().String(), fields[FieldTraceID])
		assert.Equal(t, span.SpanContext().SpanID().String(), fields[FieldSpanID])
	})
}

func TestContextLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	core, recorded := observer.New(zapcore.DebugLevel)
	ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-7")
	ctx, span := tp.Tracer("test").Start(ctx, "register")
	defer span.End()

	L(ctx).With(zap.String(FieldServer, "epic")).Info("submitting")
	L(ctx).Debug("d")
	L(ctx).Warn("w")
	L(ctx).Error("e")

	require.Equal(t, 4, recorded.Len())
	first := contextFields(recorded.All()[0])
	assert.Equal(t, "req-7", first[FieldRequestID])
	assert.Equal(t, "epic", first[FieldServer])
	assert.Equal(t, span.SpanContext().TraceID().String(), first[FieldTraceID])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := WithLogger(context.Background(), nil)
	assert.NotPanics(t, func() {
		cl.Info("nothing")
		cl.With(zap.Int("n", 1)).Warn("still nothing")
	})
	assert.NotNil(t, cl.Zap())
}
