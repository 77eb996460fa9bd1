package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	apperrors "github.com/field-access-analysis/pkg/errors"
)

const tracerName = "github.com/field-access-analysis"

// StartSpan starts a span on the global tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, oteltrace.WithAttributes(attrs...))
}

// EndSpan records err, if any, and ends the span. Failed spans carry
// the error code under "error.code".
func EndSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("error.code", apperrors.GetErrorCode(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
