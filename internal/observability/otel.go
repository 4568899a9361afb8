// Package observability configures OpenTelemetry tracing for the service.
package observability

import (
	"context"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/config"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
)

// Options are process details attached to every span
type Options struct {
	Environment string
	Version     string
	// Writer receives spans from the stdout exporter; nil means os.Stdout
	Writer io.Writer
}

// Shutdown flushes and stops the tracer provider
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs a global tracer provider when tracing is enabled. Spans go
// to the OTLP endpoint when one is configured, otherwise to stdout.
func Setup(ctx context.Context, cfg config.TracingConfig, opts Options, log *logger.Logger) (Shutdown, error) {
	if !cfg.Enabled {
		return noop, nil
	}
	if log == nil {
		log = logger.Nop()
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "adaptive-summarizer"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(strings.TrimSpace(opts.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(opts.Environment)),
		),
	)
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	exporter, err := buildExporter(ctx, cfg, opts)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("otel tracing initialized", "service", serviceName, "endpoint", cfg.Endpoint, "ratio", cfg.SampleRatio)
	return tp.Shutdown, nil
}

func buildExporter(ctx context.Context, cfg config.TracingConfig, opts Options) (sdktrace.SpanExporter, error) {
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if cfg.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, httpOpts...)
	}
	stdoutOpts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
	if opts.Writer != nil {
		stdoutOpts = append(stdoutOpts, stdouttrace.WithWriter(opts.Writer))
	}
	return stdouttrace.New(stdoutOpts...)
}
