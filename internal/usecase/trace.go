package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("quiniela-api/internal/usecase")

// inertSpan is handed out when no traced request surrounds the call,
// keeping service methods span-free outside HTTP handling.
var inertSpan = trace.SpanFromContext(context.Background())

func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, inertSpan
	}
	return usecaseTracer.Start(ctx, name)
}
