// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go/ext"
)

// SpanKind represents the direction of the call associated with a span
type SpanKind uint8

// Valid span kinds
const (
	// The kind of a span associated with an inbound call, this must be the first span in the trace.
	EntrySpanKind SpanKind = iota + 1
	// The kind of a span associated with an outbound call, e.g. an HTTP client request, an LLM call, etc.
	ExitSpanKind
	// The default kind for a span that is associated with a call within the same service.
	IntermediateSpanKind
)

// String returns the representation of a span kind used in the span document
func (k SpanKind) String() string {
	switch k {
	case EntrySpanKind:
		return "entry"
	case ExitSpanKind:
		return "exit"
	default:
		return "intermediate"
	}
}

// SpanError describes an error captured on a span
type SpanError struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// SpanEvent is a timestamped set of span log fields
type SpanEvent struct {
	Timestamp uint64                 `json:"ts"`
	Fields    map[string]interface{} `json:"fields"`
}

// Span represents the span document sent to the ZeroEval backend
type Span struct {
	ID          string                 `json:"id"`
	TraceID     string                 `json:"trace_id"`
	ParentID    string                 `json:"parent_id,omitempty"`
	SessionID   string                 `json:"session_id,omitempty"`
	SessionName string                 `json:"session_name,omitempty"`
	Name        string                 `json:"name"`
	Kind        string                 `json:"kind"`
	Service     string                 `json:"service,omitempty"`
	StartedAt   time.Time              `json:"started_at"`
	EndedAt     time.Time              `json:"ended_at"`
	DurationMS  float64                `json:"duration_ms"`
	Input       interface{}            `json:"input,omitempty"`
	Output      interface{}            `json:"output,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	Tags        map[string]string      `json:"tags,omitempty"`
	Events      []SpanEvent            `json:"events,omitempty"`
	Status      string                 `json:"status"`
	Error       *SpanError             `json:"error,omitempty"`
}

// newSpan converts a finished span into its wire representation, redacting
// attribute values whose names match the configured secrets matcher
func newSpan(span *spanS) Span {
	secrets := span.tracer.Options().Secrets

	doc := Span{
		ID:          FormatID(span.context.SpanID),
		TraceID:     FormatLongID(span.context.TraceIDHi, span.context.TraceID),
		SessionID:   span.context.Session.ID,
		SessionName: span.context.Session.Name,
		Name:        span.Operation,
		Kind:        span.getSpanKind().String(),
		Service:     span.Service,
		StartedAt:   span.Start,
		EndedAt:     span.Start.Add(span.Duration),
		DurationMS:  float64(span.Duration) / float64(time.Millisecond),
		Input:       span.Input,
		Output:      span.Output,
		Tags:        span.UserTags,
		Events:      collectSpanEvents(span),
		Status:      "ok",
	}

	if span.context.ParentID != 0 {
		doc.ParentID = FormatID(span.context.ParentID)
	}

	if len(span.Tags) > 0 {
		doc.Attributes = make(map[string]interface{}, len(span.Tags))
		for k, v := range span.Tags {
			if secrets != nil && secrets.Match(k) {
				doc.Attributes[k] = "<redacted>"
				continue
			}

			doc.Attributes[k] = v
		}
	}

	if span.ErrorCount > 0 {
		doc.Status = "error"
		doc.Error = &SpanError{
			Message: errorMessage(span),
			Count:   span.ErrorCount,
		}
	}

	return doc
}

// getSpanKind returns the span kind derived from the span.kind tag
func (r *spanS) getSpanKind() SpanKind {
	switch r.Tags[string(ext.SpanKind)] {
	case ext.SpanKindRPCServerEnum, string(ext.SpanKindRPCServerEnum), "entry", "consumer":
		return EntrySpanKind
	case ext.SpanKindRPCClientEnum, string(ext.SpanKindRPCClientEnum), "exit", "producer":
		return ExitSpanKind
	default:
		return IntermediateSpanKind
	}
}

// collectSpanEvents converts span log records into wire events
func collectSpanEvents(span *spanS) []SpanEvent {
	var events []SpanEvent
	for _, l := range span.Logs {
		fields := make(map[string]interface{}, len(l.Fields))
		for _, f := range l.Fields {
			fields[f.Key()] = f.Value()
		}

		events = append(events, SpanEvent{
			Timestamp: uint64(l.Timestamp.UnixNano()) / uint64(time.Millisecond),
			Fields:    fields,
		})
	}

	return events
}

// errorMessage extracts the last recorded error message from span logs
func errorMessage(span *spanS) string {
	for i := len(span.Logs) - 1; i >= 0; i-- {
		for _, f := range span.Logs[i].Fields {
			switch f.Key() {
			case "error", "error.object", "message":
				return fmt.Sprint(f.Value())
			}
		}
	}

	if v, ok := span.Tags["error.message"]; ok {
		return fmt.Sprint(v)
	}

	return "error"
}
