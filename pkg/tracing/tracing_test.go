package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{Service: "cartd", Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, ok := otel.GetTextMapPropagator().(propagation.TraceContext)
	require.True(t, ok)
}

func TestInitEnabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	// the exporter dials lazily, so no collector is needed here
	shutdown, err := Init(context.Background(), Options{Service: "cartd", Version: "test", Endpoint: "127.0.0.1:4317", Enabled: true})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	span.End()
	require.True(t, span.SpanContext().IsValid())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
