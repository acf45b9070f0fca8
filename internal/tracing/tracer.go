package tracing

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	defaultService      = "windrow"
	defaultOTLPEndpoint = "localhost:4317"
)

// Config selects where fetch and query spans go. Tracing is off unless
// Enabled is set.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Exporter is one of "file", "stdout", "otlp" or "none".
	Exporter string `yaml:"exporter" mapstructure:"exporter"`

	// FilePath is where the "file" exporter writes its JSONL, typically
	// <config dir>/traces/traces.jsonl.
	FilePath string `yaml:"file_path" mapstructure:"file_path"`

	// OTLPEndpoint is the gRPC collector address for the "otlp" exporter.
	OTLPEndpoint string `yaml:"otlp_endpoint" mapstructure:"otlp_endpoint"`

	// SampleRate is the sampled fraction of traces, 1.0 meaning all.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`

	// ServiceName tags exported spans. Defaults to "windrow".
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// DefaultConfig returns the development defaults: disabled, sampling
// everything, file exporter once a path is configured.
func DefaultConfig() Config {
	return Config{
		Exporter:     "file",
		OTLPEndpoint: defaultOTLPEndpoint,
		SampleRate:   1.0,
		ServiceName:  defaultService,
	}
}

// Provider owns the tracer handed to the engine and the sources. When
// tracing is disabled it degrades to a no-op tracer, never nil.
type Provider struct {
	sdk     *sdktrace.TracerProvider
	tracer  trace.Tracer
	enabled bool
}

// NewProvider builds a Provider from cfg and, when enabled, installs it
// as the global otel provider.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("noop")}, nil
	}

	exp, err := buildExporter(cfg)
	if err != nil {
		return nil, err
	}

	service := cfg.ServiceName
	if service == "" {
		service = defaultService
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 1.0
	}

	opts := []sdktrace.TracerProviderOption{
		// NewSchemaless sidesteps schema URL conflicts with resource.Default.
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", service))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
	}
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	sdk := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(sdk)

	return &Provider{sdk: sdk, tracer: sdk.Tracer(service), enabled: true}, nil
}

// buildExporter maps cfg.Exporter to a span exporter. A nil exporter with
// a nil error means record spans without exporting them, which keeps
// request IDs correlated in the debug log.
func buildExporter(cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "file":
		if cfg.FilePath == "" {
			return nil, errors.New("file_path required for file exporter")
		}
		exp, err := newFileExporter(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("file exporter: %w", err)
		}
		return exp, nil
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout exporter: %w", err)
		}
		return exp, nil
	case "otlp":
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = defaultOTLPEndpoint
		}
		exp, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
		return exp, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported exporter %q", cfg.Exporter)
	}
}

// Tracer returns the tracer for new spans. Safe to use while disabled.
func (p *Provider) Tracer() trace.Tracer { return p.tracer }

// Enabled reports whether spans are actually recorded and exported.
func (p *Provider) Enabled() bool { return p.enabled }

// Shutdown flushes pending spans. Call before exit or exported batches
// may be lost.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
