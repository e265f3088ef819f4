package usecase

import (
	"context"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	usecaseTracer   = otel.Tracer("last-man-standing/internal/usecase")
	usecaseNoopSpan = trace.SpanFromContext(context.Background())
)

// startUsecaseSpan only creates child spans. Calls made without a traced
// parent, such as scheduler ticks, get a no-op span.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func keyAttributes(editionID edition.ID, gameweek edition.Gameweek) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("lms.edition", string(editionID)),
		attribute.Int("lms.gameweek", int(gameweek)),
	}
}

func playerAttribute(playerID string) attribute.KeyValue {
	return attribute.String("lms.player_id", playerID)
}
