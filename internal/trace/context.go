package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer returns ctx carrying t; a nil t is stored as Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// SpanContext is the span that events emitted under a context nest in.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// CurrentSpan returns the innermost span started through StartSpan, or the
// zero SpanContext at the root.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

// WithSpanContext returns ctx with sc as the current span.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanKey{}, sc)
}

// StartSpan opens a span under the current span of ctx. The returned
// context makes the new span current; a no-op span leaves ctx as is, so
// children of a filtered-out span attach to the nearest emitted ancestor.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if span.ID() == 0 || ctx == nil {
		return span, ctx
	}
	return span, WithSpanContext(ctx, SpanContext{SpanID: span.ID(), GID: span.gid})
}
