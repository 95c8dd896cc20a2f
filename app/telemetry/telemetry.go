package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Options selects where spans are exported.
type Options struct {
	ServiceName string
	Version     string
	// Endpoint is host:port or a URL of an OTLP/HTTP collector. Tracing is
	// disabled when empty.
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

// InitTracing installs a global tracer provider exporting to opts.Endpoint.
// Without an endpoint the global no-op provider is left in place.
func InitTracing(ctx context.Context, opts Options) (Shutdown, error) {
	if opts.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, exporterOptions(opts)...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

func exporterOptions(opts Options) []otlptracehttp.Option {
	var out []otlptracehttp.Option
	if strings.Contains(opts.Endpoint, "://") {
		out = append(out, otlptracehttp.WithEndpointURL(opts.Endpoint))
	} else {
		out = append(out, otlptracehttp.WithEndpoint(opts.Endpoint))
	}
	if opts.Insecure {
		out = append(out, otlptracehttp.WithInsecure())
	}
	return out
}
