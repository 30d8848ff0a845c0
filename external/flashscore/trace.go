package flashscore

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var clientTracer = otel.Tracer("matchsync/external/flashscore")
var clientNoopSpan = trace.SpanFromContext(context.Background())

func startClientSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, clientNoopSpan
	}
	return clientTracer.Start(ctx, name)
}
