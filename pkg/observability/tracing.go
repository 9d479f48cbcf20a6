// Package observability wires optional OpenTelemetry trace export.
// When no OTLP endpoint is configured the client's spans go to the
// default no-op provider and cost nothing.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/duration"
)

// SetupTracing installs an OTLP/gRPC trace exporter as the global
// tracer provider. Returns a shutdown function that flushes pending
// spans. endpoint is host:port of the collector (e.g. "localhost:4317").
func SetupTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	connCtx, cancel := context.WithTimeout(ctx, duration.OTLPConnect)
	defer cancel()

	exporter, err := otlptracegrpc.New(connCtx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(defaults.ToolName),
		semconv.ServiceVersion(defaults.Version),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return func(shutdownCtx context.Context) error {
		flushCtx, flushCancel := context.WithTimeout(shutdownCtx, duration.OTLPShutdown)
		defer flushCancel()
		return provider.Shutdown(flushCtx)
	}, nil
}
