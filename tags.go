// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	ot "github.com/opentracing/opentracing-go"
)

const (
	// suppressTracingTag is an internal tag that disables the delivery of a span
	// and its trace context downstream
	suppressTracingTag = "zeroeval.internal.suppress_tracing"
	// sessionTag is an internal tag holding the Session a span was started in
	sessionTag = "zeroeval.internal.session"
)

// SuppressTracing returns an opentracing.StartSpanOption that disables tracing
// for the started span and propagates this setting to the downstream services
func SuppressTracing() ot.Tag {
	return ot.Tag{Key: suppressTracingTag, Value: true}
}

// InSession returns an opentracing.StartSpanOption that assigns the started
// span and its descendants to the given session
func InSession(sess Session) ot.Tag {
	return ot.Tag{Key: sessionTag, Value: sess}
}
