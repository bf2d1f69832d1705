// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"context"
	"errors"
	"fmt"

	ot "github.com/opentracing/opentracing-go"
)

// DefaultMaxBufferedSignals is the default capacity of the asynchronous signal queue
const DefaultMaxBufferedSignals = 1024

var (
	// ErrSignalNoTarget is returned when a signal references neither a completion,
	// span, trace nor session
	ErrSignalNoTarget = errors.New("signal must reference at least one of completion, span, trace or session")
	// ErrSignalIncomplete is returned when a signal misses its name or value
	ErrSignalIncomplete = errors.New("signal name and value are required")
	// ErrNotInitialized is returned when the SDK has not been initialized yet
	ErrNotInitialized = errors.New("the collector has not been initialized, call InitCollector() first")
)

// Signal is a named feedback or metric value attached to a span, trace,
// session or model completion. At least one of the target IDs must be set.
type Signal struct {
	CompletionID string      `json:"completion_id,omitempty"`
	SpanID       string      `json:"span_id,omitempty"`
	TraceID      string      `json:"trace_id,omitempty"`
	SessionID    string      `json:"session_id,omitempty"`
	Name         string      `json:"name"`
	Value        interface{} `json:"value"`
}

// Validate checks that the signal satisfies the backend contract
func (sig Signal) Validate() error {
	if sig.Name == "" || sig.Value == nil {
		return ErrSignalIncomplete
	}

	if sig.CompletionID == "" && sig.SpanID == "" && sig.TraceID == "" && sig.SessionID == "" {
		return ErrSignalNoTarget
	}

	return validateSignalValue(sig.Value)
}

// TestSignal is a feedback value attached to a model completion produced by an
// A/B test behind the proxy. Posting the same (completion_id, name) pair again
// overwrites the previously recorded value.
type TestSignal struct {
	CompletionID string      `json:"completion_id"`
	Name         string      `json:"name"`
	Value        interface{} `json:"value"`
}

// Validate checks that the test signal satisfies the backend contract
func (sig TestSignal) Validate() error {
	if sig.CompletionID == "" || sig.Name == "" || sig.Value == nil {
		return ErrSignalIncomplete
	}

	return validateSignalValue(sig.Value)
}

// validateSignalValue restricts signal values to the types accepted by the
// backend: strings, booleans, integers and floats
func validateSignalValue(v interface{}) error {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	default:
		return fmt.Errorf("unsupported signal value type %T, expected string, bool, int or float", v)
	}
}

// SendSignal enqueues a signal for asynchronous delivery to the backend. It
// returns an error if the signal is malformed or the queue is full.
func SendSignal(sig Signal) error {
	if sensor == nil {
		return ErrNotInitialized
	}

	return sensor.enqueueSignal(sig)
}

// SendSpanSignal enqueues a signal attached to the given span and its trace
func SendSpanSignal(sp ot.Span, name string, value interface{}) error {
	sig := Signal{
		Name:  name,
		Value: value,
	}

	if sc, ok := sp.Context().(SpanContext); ok {
		sig.SpanID = FormatID(sc.SpanID)
		sig.TraceID = FormatLongID(sc.TraceIDHi, sc.TraceID)
		sig.SessionID = sc.Session.ID
	}

	return SendSignal(sig)
}

// SendSessionSignal enqueues a signal attached to the session stored in ctx
func SendSessionSignal(ctx context.Context, name string, value interface{}) error {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return ErrSignalNoTarget
	}

	return SendSignal(Signal{
		SessionID: sess.ID,
		Name:      name,
		Value:     value,
	})
}

// SendCompletionSignal enqueues a signal attached to a model completion
func SendCompletionSignal(completionID, name string, value interface{}) error {
	return SendSignal(Signal{
		CompletionID: completionID,
		Name:         name,
		Value:        value,
	})
}

// SendTestSignal delivers A/B test feedback for a model completion. Unlike
// regular signals test signals are sent synchronously, as they are typically
// emitted at the end of an evaluation run.
func SendTestSignal(sig TestSignal) error {
	if sensor == nil {
		return ErrNotInitialized
	}

	if err := sig.Validate(); err != nil {
		return err
	}

	return sensor.agent.SendTestSignal(sig)
}

// enqueueSignal validates a signal and hands it over to the dispatch loop
func (r *sensorS) enqueueSignal(sig Signal) error {
	if err := sig.Validate(); err != nil {
		return err
	}

	select {
	case r.signals <- sig:
		return nil
	default:
		r.logger.Warn("signal queue is full, dropping signal ", sig.Name)
		return errors.New("signal queue is full")
	}
}

// dispatchSignals delivers queued signals to the backend one at a time. The
// backend processes signals asynchronously, so delivery latency does not
// affect the caller.
func (r *sensorS) dispatchSignals() {
	for sig := range r.signals {
		if err := r.agent.SendSignal(sig); err != nil {
			r.logger.Warn("failed to send signal ", sig.Name, ": ", err)
		}
	}
}
