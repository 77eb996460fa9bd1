// Package telemetry wires OpenTelemetry tracing around the analysis
// pipeline. Exporter settings come from the standard OTEL_* variables:
//
//	OTEL_ENABLED                    - Enable tracing (default: false)
//	OTEL_SERVICE_NAME               - Service name (default: field-access-analysis)
//	OTEL_SERVICE_VERSION            - Service version (default: unknown)
//	OTEL_EXPORTER_OTLP_ENDPOINT     - OTLP collector endpoint
//	OTEL_EXPORTER_OTLP_PROTOCOL     - grpc or http/protobuf (default: grpc)
//	OTEL_EXPORTER_OTLP_HEADERS      - Headers, e.g. Authorization=Bearer xxx
//	OTEL_EXPORTER_OTLP_INSECURE     - Use insecure connection (default: false)
//	OTEL_TRACES_SAMPLER             - Sampler type (default: always_on)
//	OTEL_TRACES_SAMPLER_ARG         - Sampler argument (e.g., ratio)
//	OTEL_RESOURCE_ATTRIBUTES        - Additional resource attributes
//
// The telemetry section of the config file can switch tracing on and
// rename the service; see Config.Override.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(_ context.Context) error {
	return nil
}

// Override applies the config file's telemetry section on top of the
// environment. A file can enable tracing but never disable it.
func (c *Config) Override(enabled bool, serviceName string) *Config {
	if enabled {
		c.Enabled = true
	}
	if serviceName != "" && serviceName != DefaultServiceName {
		c.ServiceName = serviceName
	}
	return c
}

// Init installs a global TracerProvider built from cfg. With tracing
// disabled it returns a no-op shutdown and the default no-op provider
// stays in place, so StartSpan costs nothing.
func Init(ctx context.Context, cfg *Config) (ShutdownFunc, error) {
	if cfg == nil || !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		return noopShutdown, err
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(newSampler(cfg)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
