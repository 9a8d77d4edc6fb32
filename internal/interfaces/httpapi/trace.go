package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("quiniela-api/internal/interfaces/httpapi")

// inertSpan is safe for callers to End without touching a real trace.
var inertSpan = trace.SpanFromContext(context.Background())

// startSpan opens a child span for handler-level work. Middleware
// helpers and requests outside a traced route (such as /healthz) get an
// inert span so they never produce standalone roots.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, inertSpan
	}
	if !strings.HasPrefix(name, "httpapi.Handler.") {
		return ctx, inertSpan
	}
	return apiTracer.Start(ctx, name)
}
