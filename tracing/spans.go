package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartRunSpan creates the root span for one ranking run.
// Returns the new context and a function to end the span.
//
// Example usage:
//
//	ctx, endRun := tracing.StartRunSpan(ctx, rc.UserID, limit)
//	defer endRun(err)
func StartRunSpan(ctx context.Context, userID string, limit int) (context.Context, func(error)) {
	tracer := otel.Tracer("rankpipe")

	ctx, span := tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("pipeline.user_id", userID),
			attribute.Int("pipeline.limit", limit),
		),
	)

	return ctx, endFunc(span)
}

// StartStageSpan creates a span for one stage invocation. stage is the
// stage kind (collect, hydrate, filter, score, select) and name identifies
// the concrete implementation.
func StartStageSpan(ctx context.Context, stage, name string) (context.Context, func(error)) {
	tracer := otel.Tracer("rankpipe")

	spanName := stage
	if name != "" {
		spanName = stage + " " + name
	}

	ctx, span := tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("pipeline.stage", stage),
			attribute.String("pipeline.stage_name", name),
		),
	)

	return ctx, endFunc(span)
}

// StartSpan creates a span for a general engine operation, such as a source
// adapter's backend round trip.
func StartSpan(ctx context.Context, name string) (context.Context, func(error)) {
	tracer := otel.Tracer("rankpipe")
	ctx, span := tracer.Start(ctx, name)
	return ctx, endFunc(span)
}

// endFunc returns a closure recording the outcome and ending the span.
func endFunc(span trace.Span) func(error) {
	return func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrs...)
}
