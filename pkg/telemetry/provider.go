package telemetry

import (
	"context"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"google.golang.org/grpc/credentials/insecure"
)

// endpoint strips the scheme off cfg.Endpoint. An http:// endpoint
// implies a plaintext connection.
func endpoint(cfg *Config) (hostPort string, plaintext bool) {
	hostPort = cfg.Endpoint
	if rest, ok := strings.CutPrefix(hostPort, "http://"); ok {
		return rest, true
	}
	hostPort = strings.TrimPrefix(hostPort, "https://")
	return hostPort, cfg.Insecure
}

// newExporter builds the OTLP exporter for cfg.Protocol; anything other
// than http/protobuf selects gRPC.
func newExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	hostPort, plaintext := endpoint(cfg)

	switch strings.ToLower(cfg.Protocol) {
	case "http/protobuf", "http":
		var opts []otlptracehttp.Option
		if hostPort != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(hostPort))
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		if plaintext {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		var opts []otlptracegrpc.Option
		if hostPort != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(hostPort))
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		if plaintext {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		return otlptracegrpc.New(ctx, opts...)
	}
}

// newSampler maps OTEL_TRACES_SAMPLER onto an SDK sampler. Unknown or
// empty names sample everything; a CLI run is one short trace.
func newSampler(cfg *Config) trace.Sampler {
	name := strings.ToLower(cfg.Sampler)
	base, parent := strings.CutPrefix(name, "parentbased_")

	var s trace.Sampler
	switch base {
	case "always_off":
		s = trace.NeverSample()
	case "traceidratio":
		s = trace.TraceIDRatioBased(ratio(cfg.SamplerArg))
	default:
		s = trace.AlwaysSample()
	}
	if parent {
		return trace.ParentBased(s)
	}
	return s
}

// ratio parses a sampling ratio, clamped to [0, 1]. Unparsable input
// means full sampling.
func ratio(s string) float64 {
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	return min(max(r, 0), 1)
}

// newResource describes this process: service name and version, the
// host it ran on, and any OTEL_RESOURCE_ATTRIBUTES.
func newResource(cfg *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		attrs = append(attrs, semconv.HostName(host))
	}
	for k, v := range cfg.ResourceAttrs {
		attrs = append(attrs, attribute.String(k, v))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}
