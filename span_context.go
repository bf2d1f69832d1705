// (c) Copyright ZeroEval Inc. 2026

package zeroeval

// SpanContext holds the basic Span metadata.
type SpanContext struct {
	// The higher 4 bytes of a 128-bit trace ID, 0 for 64-bit trace IDs
	TraceIDHi int64
	// A probabilistically unique identifier for a [multi-span] trace.
	TraceID int64
	// A probabilistically unique identifier for a span.
	SpanID int64
	// An optional parent span ID, 0 if this is the root span context.
	ParentID int64
	// The session this trace belongs to, if any
	Session Session
	// Whether the trace is suppressed and should not be sent to the backend.
	Suppressed bool
	// The span's associated baggage.
	Baggage map[string]string // initialized on first use
}

// NewRootSpanContext initializes a new root span context issuing a new trace ID
func NewRootSpanContext() SpanContext {
	spanID := randomID()

	return SpanContext{
		TraceID: spanID,
		SpanID:  spanID,
	}
}

// NewSpanContext initializes a new child span context from its parent. The parent
// context is ignored if it carries neither a trace nor a span ID.
func NewSpanContext(parent SpanContext) SpanContext {
	if parent.TraceID == 0 && parent.SpanID == 0 {
		return NewRootSpanContext()
	}

	c := parent.Clone()
	c.SpanID, c.ParentID = randomID(), parent.SpanID

	return c
}

// IsZero returns true if an ID context is not initialized
func (c SpanContext) IsZero() bool {
	return c.TraceIDHi == 0 && c.TraceID == 0 && c.SpanID == 0 && !c.Suppressed
}

// ForeachBaggageItem belongs to the opentracing.SpanContext interface
func (c SpanContext) ForeachBaggageItem(handler func(k, v string) bool) {
	for k, v := range c.Baggage {
		if !handler(k, v) {
			break
		}
	}
}

// WithBaggageItem returns an entirely new SpanContext with the
// given key:value baggage pair set.
func (c SpanContext) WithBaggageItem(key, val string) SpanContext {
	res := c.Clone()

	if res.Baggage == nil {
		res.Baggage = make(map[string]string, 1)
	}
	res.Baggage[key] = val

	return res
}

// Clone returns a deep copy of a SpanContext
func (c SpanContext) Clone() SpanContext {
	res := SpanContext{
		TraceIDHi:  c.TraceIDHi,
		TraceID:    c.TraceID,
		SpanID:     c.SpanID,
		ParentID:   c.ParentID,
		Session:    c.Session,
		Suppressed: c.Suppressed,
	}

	if c.Baggage != nil {
		res.Baggage = make(map[string]string, len(c.Baggage))
		for k, v := range c.Baggage {
			res.Baggage[k] = v
		}
	}

	return res
}
