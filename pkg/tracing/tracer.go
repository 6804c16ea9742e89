// Package tracing sets up the global OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/andresuchdata/intellichain/pkg/logger"
)

const serviceVersion = "1.0.0"

// InitTracer installs a Jaeger-exporting tracer provider and the W3C trace
// context propagator as the otel globals.
func InitTracer(serviceName, jaegerEndpoint string) (trace.TracerProvider, error) {
	if jaegerEndpoint == "" {
		return nil, fmt.Errorf("jaeger endpoint is required")
	}

	logger.Log.Info().
		Str("service", serviceName).
		Str("endpoint", jaegerEndpoint).
		Msg("Initializing tracer")

	exporter, err := jaeger.New(
		jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	SetPropagator()

	return tp, nil
}

// SetPropagator installs trace context and baggage propagation.
func SetPropagator() {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context, tp trace.TracerProvider) error {
	if provider, ok := tp.(*sdktrace.TracerProvider); ok {
		return provider.Shutdown(ctx)
	}
	return nil
}

// Start initializes tracing when enabled and returns a function that flushes
// it. A failed setup is logged and leaves tracing off.
func Start(enabled bool, serviceName, jaegerEndpoint string) func(context.Context) {
	if !enabled {
		return func(context.Context) {}
	}

	tp, err := InitTracer(serviceName, jaegerEndpoint)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to initialize tracer")
		return func(context.Context) {}
	}

	return func(ctx context.Context) {
		if err := Shutdown(ctx, tp); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}
}
