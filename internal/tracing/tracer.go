// Package tracing wires OpenTelemetry for regdash. API calls made by the TUI
// produce client spans, and the stand-in server continues the same trace
// through W3C traceparent headers.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/regdash/internal/config"
)

// Default service names, one per binary role.
const (
	ServiceTUI    = "regdash"
	ServiceServer = "regdash-server"
)

// Provider manages the OpenTelemetry tracer provider.
type Provider struct {
	provider   *sdktrace.TracerProvider
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	enabled    bool
}

// Disabled returns a no-op provider.
func Disabled() *Provider {
	return &Provider{
		tracer:     noop.NewTracerProvider().Tracer("noop"),
		propagator: propagation.TraceContext{},
	}
}

// NewProvider creates and configures the trace provider.
// If tracing is disabled in the config, a no-op provider is returned.
func NewProvider(cfg config.TracingConfig, serviceName string) (*Provider, error) {
	if !cfg.Enabled {
		return Disabled(), nil
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}

	if serviceName == "" {
		serviceName = ServiceTUI
	}
	// resource.NewSchemaless avoids schema version conflicts with resource.Default()
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	return &Provider{
		provider:   provider,
		tracer:     provider.Tracer(serviceName),
		propagator: propagation.TraceContext{},
		enabled:    true,
	}, nil
}

func newExporter(cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "file":
		path := cfg.FilePath
		if path == "" {
			path = config.DefaultTracesFilePath()
		}
		if path == "" {
			return nil, fmt.Errorf("file_path required for file exporter")
		}
		exp, err := NewFileExporter(path)
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
		return exp, nil
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exp, nil
	case "otlp":
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		exp, err := otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		return exp, nil
	case "none", "":
		// Tracing enabled for propagation only
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}
}

// NewProviderWithSyncer builds an enabled provider that exports every span
// synchronously to exp. Used by tests and short-lived commands.
func NewProviderWithSyncer(exp sdktrace.SpanExporter, serviceName string) *Provider {
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	return &Provider{
		provider:   provider,
		tracer:     provider.Tracer(serviceName),
		propagator: propagation.TraceContext{},
		enabled:    true,
	}
}

// Tracer returns the configured tracer. Safe to use when disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Propagator returns the W3C trace context propagator.
func (p *Provider) Propagator() propagation.TextMapPropagator {
	return p.propagator
}

// Enabled returns whether tracing is enabled.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans and shuts down the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
