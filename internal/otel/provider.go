// Package otel builds the tracer provider backing the self-tracing facade.
package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"capture_collector/internal/config"
)

// NewProvider creates a tracer provider wired to the given span processor,
// which feeds every finished span back into the capture pipeline as an
// introspection-scope event.
//
// When cfg names an OTLP endpoint, the same spans are additionally exported
// over OTLP/HTTP through a batching processor, for debugging the collector
// from the outside. The HTTP client honors HTTP_PROXY/HTTPS_PROXY/NO_PROXY
// through Go's standard transport.
func NewProvider(cfg *config.OTELConfig, scopes sdktrace.SpanProcessor) (*sdktrace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resourceOpts := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	}
	if customAttrs := cfg.ParseResourceAttributes(); len(customAttrs) > 0 {
		resourceOpts = append(resourceOpts, resource.WithAttributes(customAttrs...))
	}

	res, err := resource.New(ctx, resourceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(scopes),
	}

	if endpoint := cfg.Endpoint(); endpoint != "" {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
			otlptracehttp.WithTimeout(10*time.Second),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
	}

	return sdktrace.NewTracerProvider(providerOpts...), nil
}

// ShutdownProvider gracefully shuts down the tracer provider, flushing any
// spans still in flight. Flushed spans still reach the pipeline, so this
// must run before the session's buffer stops accepting events.
func ShutdownProvider(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}

	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}

	return nil
}
