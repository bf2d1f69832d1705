// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"strings"

	ot "github.com/opentracing/opentracing-go"
)

// ZeroEval header constants
const (
	// FieldT is the trace ID header
	FieldT = "x-zeroeval-trace-id"
	// FieldS is the span ID header
	FieldS = "x-zeroeval-span-id"
	// FieldL is the trace level header, "0" suppresses tracing downstream
	FieldL = "x-zeroeval-level"
	// FieldSession is the session ID header
	FieldSession = "x-zeroeval-session-id"
	// FieldB is the prefix of baggage item headers
	FieldB = "x-zeroeval-baggage-"
)

func injectTraceContext(sc SpanContext, opaqueCarrier interface{}) error {
	carrier, ok := opaqueCarrier.(ot.TextMapWriter)
	if !ok {
		return ot.ErrInvalidCarrier
	}

	if !sc.Suppressed {
		carrier.Set(FieldT, FormatLongID(sc.TraceIDHi, sc.TraceID))
		carrier.Set(FieldS, FormatID(sc.SpanID))
	}

	carrier.Set(FieldL, formatLevel(sc))

	if !sc.Session.IsZero() {
		carrier.Set(FieldSession, sc.Session.ID)
	}

	for k, v := range sc.Baggage {
		carrier.Set(FieldB+k, v)
	}

	return nil
}

// extractTraceContext searches the carrier for ZeroEval headers and parses
// their values into a SpanContext
func extractTraceContext(opaqueCarrier interface{}) (ot.SpanContext, error) {
	spanContext := SpanContext{
		Baggage: make(map[string]string),
	}

	carrier, ok := opaqueCarrier.(ot.TextMapReader)
	if !ok {
		return spanContext, ot.ErrInvalidCarrier
	}

	err := carrier.ForeachKey(func(k, v string) error {
		var err error

		switch strings.ToLower(k) {
		case FieldT:
			spanContext.TraceIDHi, spanContext.TraceID, err = ParseLongID(v)
			if err != nil {
				return ot.ErrSpanContextCorrupted
			}
		case FieldS:
			spanContext.SpanID, err = ParseID(v)
			if err != nil {
				return ot.ErrSpanContextCorrupted
			}
		case FieldL:
			spanContext.Suppressed = v == "0"
		case FieldSession:
			spanContext.Session = Session{ID: v}
		default:
			if strings.HasPrefix(strings.ToLower(k), FieldB) {
				// preserve the original case of the baggage key
				spanContext.Baggage[k[len(FieldB):]] = v
			}
		}

		return nil
	})
	if err != nil {
		return spanContext, err
	}

	if spanContext.IsZero() && spanContext.Session.IsZero() && len(spanContext.Baggage) == 0 {
		return spanContext, ot.ErrSpanContextNotFound
	}

	// one of the trace or span IDs is missing, the context cannot be restored
	if !spanContext.Suppressed && (spanContext.SpanID == 0) != (spanContext.TraceIDHi == 0 && spanContext.TraceID == 0) {
		return spanContext, ot.ErrSpanContextCorrupted
	}

	return spanContext, nil
}

func formatLevel(sc SpanContext) string {
	if sc.Suppressed {
		return "0"
	}

	return "1"
}
