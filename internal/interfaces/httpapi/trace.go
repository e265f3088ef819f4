package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	apiTracer = otel.Tracer("last-man-standing/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// Handlers and the auth gates get their own spans. Response helpers and the
// remaining middleware run inside the request span.
var tracedSpanPrefixes = []string{
	"httpapi.Handler.",
	"httpapi.Require",
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	for _, prefix := range tracedSpanPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// annotatePath copies the edition, gameweek and player path values onto the
// span when the route declares them.
func annotatePath(span trace.Span, r *http.Request) {
	if !span.IsRecording() {
		return
	}
	for _, name := range []string{"edition", "gameweek", "playerID"} {
		if value := r.PathValue(name); value != "" {
			span.SetAttributes(attribute.String("lms.path."+name, value))
		}
	}
}
