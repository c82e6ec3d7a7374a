package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("github.com/riskibarqy/cricket-fantasy/internal/usecase")

// startUsecaseSpan opens an internal child span under a traced caller. Untraced
// callers (CLI one-offs, tests) get their context back with a no-op span.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return usecaseTracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// recordSpanError marks the span failed with the error's taxonomy class.
func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String("cricket.error.class", errorClass(err)))
	span.SetStatus(codes.Error, err.Error())
}

func errorClass(err error) string {
	switch {
	case crerr.Is(err, ErrInvalidInput):
		return "invalid_input"
	case crerr.Is(err, ErrNotFound):
		return "not_found"
	case crerr.Is(err, ErrDependencyUnavailable):
		return "dependency_unavailable"
	case crerr.Is(err, ErrTransientFetch):
		return "transient_fetch"
	case crerr.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}
