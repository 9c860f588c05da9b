// Package trace wraps opentracing-go the way the wider ledger wraps
// block-processing spans around its own long-running calls, scoped
// here to the MST's Open and Commit operations (the two calls that
// can block on a meaningful amount of storage I/O).
package trace

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
)

// Tracer starts spans for named MST operations.
type Tracer interface {
	StartSpan(ctx context.Context, operation string) (context.Context, Span)
}

// Span is the minimal handle returned by StartSpan.
type Span interface {
	SetTag(key string, value interface{})
	Finish()
}

// opentracingTracer adapts a global opentracing.Tracer (normally a
// jaeger-client-go tracer installed by the caller) to Tracer.
type opentracingTracer struct{}

// New returns a Tracer backed by opentracing.GlobalTracer(). Callers
// that want spans reported to Jaeger install a jaeger-client-go tracer
// as the global tracer before constructing an MST; see cmd/mstctl.
func New() Tracer {
	return opentracingTracer{}
}

func (opentracingTracer) StartSpan(ctx context.Context, operation string) (context.Context, Span) {
	span, spanCtx := opentracing.StartSpanFromContext(ctx, operation)
	return spanCtx, span
}

// NoopTracer starts spans that do nothing, for callers that did not
// wire a tracer.
type NoopTracer struct{}

func (NoopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) SetTag(string, interface{}) {}
func (noopSpan) Finish()                    {}

var _ Tracer = NoopTracer{}
var _ Tracer = opentracingTracer{}
