// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"context"

	ot "github.com/opentracing/opentracing-go"
)

type contextKey int8

const (
	activeSpanKey contextKey = iota
	sessionKey
)

// ContextWithSpan returns a new context.Context holding a reference to an active span
func ContextWithSpan(ctx context.Context, sp ot.Span) context.Context {
	return context.WithValue(ctx, activeSpanKey, sp)
}

// SpanFromContext retrieves previously stored active span from context. If there is no
// span, this method returns false.
func SpanFromContext(ctx context.Context) (ot.Span, bool) {
	sp, ok := ctx.Value(activeSpanKey).(ot.Span)
	return sp, ok
}

// StartSpanFromContext starts a new span as a child of the span stored in ctx,
// inheriting the active session if any. The returned context references the
// new span.
func StartSpanFromContext(ctx context.Context, operationName string, opts ...ot.StartSpanOption) (ot.Span, context.Context) {
	col := GetC()
	if col == nil {
		col = InitCollector(nil)
	}

	if parent, ok := SpanFromContext(ctx); ok {
		opts = append(opts, ot.ChildOf(parent.Context()))
	}

	if sess, ok := SessionFromContext(ctx); ok {
		opts = append(opts, InSession(sess))
	}

	sp := col.StartSpan(operationName, opts...)

	return sp, ContextWithSpan(ctx, sp)
}
