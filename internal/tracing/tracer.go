package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const defaultServiceName = "evitalab-core"

// TracerProvider manages the lifecycle of the OpenTelemetry tracer
type TracerProvider struct {
	tp *sdktrace.TracerProvider
}

// QueryTracer wraps the spans recorded around evitaDB calls
type QueryTracer struct {
	tracer trace.Tracer
}

// NewTracerProvider creates a new OpenTelemetry tracer provider exporting over OTLP gRPC
func NewTracerProvider(ctx context.Context, serviceName, serviceVersion, otlpEndpoint string, insecure bool, sampleRatio float64) (*TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(otlpEndpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.ServiceNamespaceKey.String("evitalab"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	if sampleRatio > 0 && sampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)

	return &TracerProvider{tp: tp}, nil
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.tp.Shutdown(ctx)
}

// NewQueryTracer creates a new query tracer
func NewQueryTracer(serviceName string) *QueryTracer {
	return &QueryTracer{tracer: otel.Tracer(serviceName)}
}

// StartQuerySpan starts a span for one query execution against a collection
func (qt *QueryTracer) StartQuerySpan(ctx context.Context, language, target, query string) (context.Context, trace.Span) {
	return qt.tracer.Start(ctx, "query_execution",
		trace.WithAttributes(
			attribute.String("query.language", language),
			attribute.String("query.target", target),
			attribute.String("query.text", query),
			attribute.String("component", "query-executor"),
		),
	)
}

// StartBuildSpan starts a span for building a query from a fetch request
func (qt *QueryTracer) StartBuildSpan(ctx context.Context, language, target string) (context.Context, trace.Span) {
	return qt.tracer.Start(ctx, "query_build",
		trace.WithAttributes(
			attribute.String("query.language", language),
			attribute.String("query.target", target),
			attribute.String("component", "query-builder"),
		),
	)
}

// StartDriverResolutionSpan starts a span for negotiating the driver of a connection
func (qt *QueryTracer) StartDriverResolutionSpan(ctx context.Context, connection string) (context.Context, trace.Span) {
	return qt.tracer.Start(ctx, "driver_resolution",
		trace.WithAttributes(
			attribute.String("connection.name", connection),
			attribute.String("component", "driver-resolver"),
		),
	)
}

// StartSchemaFetchSpan starts a span for loading a catalog schema into the cache
func (qt *QueryTracer) StartSchemaFetchSpan(ctx context.Context, catalogKey string) (context.Context, trace.Span) {
	return qt.tracer.Start(ctx, "schema_fetch",
		trace.WithAttributes(
			attribute.String("cache.key", catalogKey),
			attribute.String("component", "schema-cache"),
		),
	)
}

// RecordQueryMetrics records query performance metrics on a span
func (qt *QueryTracer) RecordQueryMetrics(span trace.Span, duration time.Duration, recordCount int64, success bool) {
	span.SetAttributes(
		attribute.Int64("query.duration_ms", duration.Milliseconds()),
		attribute.Int64("query.record_count", recordCount),
		attribute.Bool("query.success", success),
	)

	if !success {
		span.SetStatus(codes.Error, "query failed")
	}
}

// RecordError records an error on a span
func (qt *QueryTracer) RecordError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attrs...)
	span.RecordError(err)
}

var globalQueryTracer *QueryTracer

// InitGlobalTracer initializes the global query tracer
func InitGlobalTracer(serviceName string) {
	globalQueryTracer = NewQueryTracer(serviceName)
}

// GetGlobalTracer returns the global query tracer. Without InitGlobalTracer it
// records through whatever provider otel currently has, a no-op one by default.
func GetGlobalTracer() *QueryTracer {
	if globalQueryTracer == nil {
		return NewQueryTracer(defaultServiceName)
	}
	return globalQueryTracer
}
