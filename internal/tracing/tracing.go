// Package tracing installs the global OpenTelemetry tracer provider.
// Catalog loads and sample decodes record spans against it.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zjrosen/wavtouch/internal/log"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "wavtouch"

// Exporter names.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// DefaultEndpoint is the OTLP gRPC collector address.
const DefaultEndpoint = "localhost:4317"

// Config selects where spans go.
type Config struct {
	Exporter string `mapstructure:"exporter" yaml:"exporter"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Path     string `mapstructure:"path" yaml:"path"` // stdout exporter target; empty means stderr
}

// Validate checks the exporter name.
func (c Config) Validate() error {
	switch c.Exporter {
	case "", ExporterNone, ExporterStdout, ExporterOTLP:
		return nil
	}
	return fmt.Errorf("trace.exporter must be one of none, stdout, otlp (got %q)", c.Exporter)
}

// Setup installs a tracer provider for cfg and returns its shutdown func.
// With no exporter the global no-op provider is left in place.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		exp     sdktrace.SpanExporter
		closer  io.Closer
		batched bool
		err     error
	)
	switch cfg.Exporter {
	case "", ExporterNone:
		return func(context.Context) error { return nil }, nil

	case ExporterStdout:
		var w io.Writer = os.Stderr
		if cfg.Path != "" {
			f, ferr := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if ferr != nil {
				return nil, fmt.Errorf("opening trace file: %w", ferr)
			}
			w, closer = f, f
		}
		exp, err = stdouttrace.New(stdouttrace.WithWriter(w))

	case ExporterOTLP:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = DefaultEndpoint
		}
		exp, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		batched = true
	}
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("creating %s exporter: %w", cfg.Exporter, err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", ServiceName))
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if batched {
		opts = append(opts, sdktrace.WithBatcher(exp))
	} else {
		opts = append(opts, sdktrace.WithSyncer(exp))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	log.Info(log.CatTrace, "Tracing enabled", "exporter", cfg.Exporter, "endpoint", cfg.Endpoint, "path", cfg.Path)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}
