// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"sync"
	"time"

	ot "github.com/opentracing/opentracing-go"
	otlog "github.com/opentracing/opentracing-go/log"
)

type spanS struct {
	context SpanContext
	tracer  *tracerS
	sync.Mutex

	Service    string
	Operation  string
	Start      time.Time
	Duration   time.Duration
	Tags       ot.Tags
	UserTags   map[string]string
	Input      interface{}
	Output     interface{}
	Logs       []ot.LogRecord
	ErrorCount int
}

func (r *spanS) BaggageItem(key string) string {
	r.Lock()
	defer r.Unlock()

	return r.context.Baggage[key]
}

func (r *spanS) SetBaggageItem(key, val string) ot.Span {
	if r.context.Suppressed {
		return r
	}

	r.Lock()
	defer r.Unlock()
	r.context = r.context.WithBaggageItem(key, val)

	return r
}

func (r *spanS) Context() ot.SpanContext {
	return r.context
}

func (r *spanS) Finish() {
	r.FinishWithOptions(ot.FinishOptions{})
}

func (r *spanS) FinishWithOptions(opts ot.FinishOptions) {
	finishTime := opts.FinishTime
	if finishTime.IsZero() {
		finishTime = time.Now()
	}

	duration := finishTime.Sub(r.Start)

	r.Lock()
	defer r.Unlock()

	for _, lr := range opts.LogRecords {
		r.appendLog(lr)
	}

	for _, ld := range opts.BulkLogData {
		r.appendLog(ld.ToLogRecord())
	}

	if r.Duration >= 0 {
		// the span has been finished before, don't record it twice
		return
	}
	r.Duration = duration

	if !r.context.Suppressed {
		r.tracer.recorder.RecordSpan(r)
	}
}

func (r *spanS) appendLog(lr ot.LogRecord) {
	maxLogs := r.tracer.Options().MaxLogsPerSpan
	if maxLogs == 0 || len(r.Logs) < maxLogs {
		r.Logs = append(r.Logs, lr)
	}
}

func (r *spanS) Log(ld ot.LogData) {
	if r.context.Suppressed {
		return
	}

	r.Lock()
	defer r.Unlock()
	if r.tracer.Options().DropAllLogs {
		return
	}

	if ld.Timestamp.IsZero() {
		ld.Timestamp = time.Now()
	}

	r.appendLog(ld.ToLogRecord())
}

func (r *spanS) LogEvent(event string) {
	r.Log(ot.LogData{
		Event: event})
}

func (r *spanS) LogEventWithPayload(event string, payload interface{}) {
	r.Log(ot.LogData{
		Event:   event,
		Payload: payload})
}

func (r *spanS) LogFields(fields ...otlog.Field) {
	if r.context.Suppressed {
		return
	}

	for _, v := range fields {
		// identify error log fields and bump the span error counter
		switch v.Key() {
		case "error", "error.object":
			r.Lock()
			r.ErrorCount++
			r.Unlock()
		}
	}

	lr := ot.LogRecord{
		Fields: fields,
	}

	r.Lock()
	defer r.Unlock()
	if r.tracer.Options().DropAllLogs {
		return
	}

	if lr.Timestamp.IsZero() {
		lr.Timestamp = time.Now()
	}

	r.appendLog(lr)
}

func (r *spanS) LogKV(keyValues ...interface{}) {
	fields, err := otlog.InterleavedKVToFields(keyValues...)
	if err != nil {
		r.LogFields(otlog.Error(err), otlog.String("function", "LogKV"))

		return
	}

	r.LogFields(fields...)
}

func (r *spanS) SetOperationName(operationName string) ot.Span {
	r.Lock()
	defer r.Unlock()
	r.Operation = operationName

	return r
}

func (r *spanS) SetTag(key string, value interface{}) ot.Span {
	if r.context.Suppressed {
		return r
	}

	r.Lock()
	defer r.Unlock()

	if key == "error" {
		if v, ok := value.(bool); !ok || v {
			r.ErrorCount++
		}
	}

	if r.Tags == nil {
		r.Tags = ot.Tags{}
	}

	r.Tags[key] = value

	return r
}

func (r *spanS) Tracer() ot.Tracer {
	return r.tracer
}

// SetInput attaches an input payload to a span started by the ZeroEval tracer.
// The value must be JSON-marshalable. Spans of other tracers are left untouched.
func SetInput(sp ot.Span, value interface{}) {
	if s, ok := sp.(*spanS); ok {
		s.Lock()
		defer s.Unlock()
		s.Input = value
	}
}

// SetOutput attaches an output payload to a span started by the ZeroEval tracer.
// The value must be JSON-marshalable. Spans of other tracers are left untouched.
func SetOutput(sp ot.Span, value interface{}) {
	if s, ok := sp.(*spanS); ok {
		s.Lock()
		defer s.Unlock()
		s.Output = value
	}
}

// SetSpanTags adds user-defined labels to a span started by the ZeroEval tracer.
// Unlike opentracing tags these are plain string key-value pairs used for
// filtering in the ZeroEval UI. Spans of other tracers are left untouched.
func SetSpanTags(sp ot.Span, tags map[string]string) {
	s, ok := sp.(*spanS)
	if !ok {
		return
	}

	s.Lock()
	defer s.Unlock()

	if s.UserTags == nil {
		s.UserTags = make(map[string]string, len(tags))
	}

	for k, v := range tags {
		s.UserTags[k] = v
	}
}
