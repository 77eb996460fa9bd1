package telemetry

import (
	"os"
	"strings"
)

// DefaultServiceName is used when neither the config file nor
// OTEL_SERVICE_NAME names the service.
const DefaultServiceName = "field-access-analysis"

// Config holds the tracing settings of one run.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string

	// Endpoint is the collector address, with or without scheme.
	Endpoint string
	// Protocol is grpc or http/protobuf.
	Protocol string
	Headers  map[string]string
	Insecure bool

	// Sampler is one of always_on, always_off, traceidratio, or any of
	// those prefixed with parentbased_. SamplerArg carries the ratio.
	Sampler    string
	SamplerArg string

	ResourceAttrs map[string]string
}

// LoadFromEnv reads the OTEL_* variables listed in the package doc.
func LoadFromEnv() *Config {
	return &Config{
		Enabled:        envBool("OTEL_ENABLED"),
		ServiceName:    envOr("OTEL_SERVICE_NAME", DefaultServiceName),
		ServiceVersion: envOr("OTEL_SERVICE_VERSION", "unknown"),
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Protocol:       envOr("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
		Headers:        parseKeyValuePairs(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Insecure:       envBool("OTEL_EXPORTER_OTLP_INSECURE"),
		Sampler:        os.Getenv("OTEL_TRACES_SAMPLER"),
		SamplerArg:     os.Getenv("OTEL_TRACES_SAMPLER_ARG"),
		ResourceAttrs:  parseKeyValuePairs(os.Getenv("OTEL_RESOURCE_ATTRIBUTES")),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

// parseKeyValuePairs parses "k1=v1,k2=v2". Values may contain '='.
// Pairs without a key are dropped.
func parseKeyValuePairs(s string) map[string]string {
	result := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		result[k] = strings.TrimSpace(v)
	}
	return result
}
