// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"context"
	"time"

	ot "github.com/opentracing/opentracing-go"
)

const (
	// MaxLogsPerSpan is the maximum number of logs allowed on a span.
	MaxLogsPerSpan = 2
)

// Tracer extends the opentracing.Tracer interface
type Tracer interface {
	ot.Tracer

	// Options returns the current tracer options
	Options() TracerOptions
	// Flush sends out all buffered finished spans and blocks until they are
	// delivered or ctx is cancelled
	Flush(ctx context.Context) error
}

type tracerS struct {
	recorder SpanRecorder
}

var _ Tracer = (*tracerS)(nil)

func (r *tracerS) Inject(spanContext ot.SpanContext, format interface{}, carrier interface{}) error {
	switch format {
	case ot.TextMap, ot.HTTPHeaders:
		sc, ok := spanContext.(SpanContext)
		if !ok {
			return ot.ErrInvalidSpanContext
		}

		return injectTraceContext(sc, carrier)
	}

	return ot.ErrUnsupportedFormat
}

func (r *tracerS) Extract(format interface{}, carrier interface{}) (ot.SpanContext, error) {
	switch format {
	case ot.TextMap, ot.HTTPHeaders:
		return extractTraceContext(carrier)
	}

	return nil, ot.ErrUnsupportedFormat
}

func (r *tracerS) StartSpan(operationName string, opts ...ot.StartSpanOption) ot.Span {
	sso := ot.StartSpanOptions{}
	for _, o := range opts {
		o.Apply(&sso)
	}

	return r.StartSpanWithOptions(operationName, sso)
}

func (r *tracerS) StartSpanWithOptions(operationName string, opts ot.StartSpanOptions) ot.Span {
	startTime := opts.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}

	sc := NewRootSpanContext()
	for _, ref := range opts.References {
		if ref.Type == ot.ChildOfRef || ref.Type == ot.FollowsFromRef {
			if parent, ok := ref.ReferencedContext.(SpanContext); ok {
				sc = NewSpanContext(parent)
				break
			}
		}
	}

	if tag, ok := opts.Tags[suppressTracingTag]; ok {
		sc.Suppressed = tag.(bool)
		delete(opts.Tags, suppressTracingTag)
	}

	if tag, ok := opts.Tags[sessionTag]; ok {
		if sess, ok := tag.(Session); ok {
			sc.Session = sess
		}
		delete(opts.Tags, sessionTag)
	}

	var serviceName string
	if sensor != nil {
		serviceName = sensor.serviceName
	}

	return &spanS{
		context:   sc,
		tracer:    r,
		Service:   serviceName,
		Operation: operationName,
		Start:     startTime,
		Duration:  -1,
		Tags:      opts.Tags,
	}
}

// Options returns current tracer options
func (r *tracerS) Options() TracerOptions {
	if sensor == nil || sensor.options == nil {
		return DefaultTracerOptions()
	}

	return sensor.options.Tracer
}

// Flush sends out all buffered finished spans
func (r *tracerS) Flush(ctx context.Context) error {
	if f, ok := r.recorder.(interface {
		Flush(context.Context) error
	}); ok {
		return f.Flush(ctx)
	}

	return nil
}
