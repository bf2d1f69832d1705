// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"context"
	"sync"
	"time"
)

// A SpanRecorder handles all of the `spanS` data generated via an
// associated `Tracer` instance.
type SpanRecorder interface {
	// Implementations must determine whether and where to store `span`.
	RecordSpan(span *spanS)
	// Flush sends out all buffered spans
	Flush(ctx context.Context) error
}

// Recorder accepts spans, processes and queues them
// for delivery to the backend.
type Recorder struct {
	sync.RWMutex
	spans    []Span
	testMode bool
	done     chan struct{}
}

// NewRecorder initializes a new span recorder
func NewRecorder() *Recorder {
	r := &Recorder{
		done: make(chan struct{}),
	}

	ticker := time.NewTicker(1 * time.Second)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// Only attempt to send spans if the backend connection is ready
				// and the buffer is not empty
				if sensor != nil && sensor.agent.Ready() && r.QueuedSpansCount() > 0 {
					r.send(context.Background())
				}
			case <-r.done:
				return
			}
		}
	}()

	return r
}

// NewTestRecorder initializes a new span recorder that keeps all collected
// spans in memory. Used in tests.
func NewTestRecorder() *Recorder {
	return &Recorder{
		testMode: true,
	}
}

// stop terminates the background send loop
func (r *Recorder) stop() {
	if r.done != nil {
		close(r.done)
	}
}

// RecordSpan accepts spans to be recorded and, eventually, sent to the backend
func (r *Recorder) RecordSpan(span *spanS) {
	// If the connection is not ready and we're not in test mode, drop the span
	if !r.testMode && (sensor == nil || !sensor.agent.Ready()) {
		return
	}

	doc := newSpan(span)

	maxSpans := DefaultMaxBufferedSpans
	if sensor != nil {
		maxSpans = sensor.options.MaxBufferedSpans
	}

	r.Lock()
	defer r.Unlock()

	if len(r.spans) == maxSpans {
		r.spans = r.spans[1:]
	}

	r.spans = append(r.spans, doc)

	if r.testMode || !sensor.agent.Ready() {
		return
	}

	if len(r.spans) >= sensor.options.ForceTransmissionStartingAt {
		sensor.logger.Debug("forcing ", len(r.spans), " spans to the backend")
		r.send(context.Background())
	}
}

// QueuedSpansCount returns the number of spans in the send queue
func (r *Recorder) QueuedSpansCount() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.spans)
}

// GetQueuedSpans returns a copy of the queued spans and clears the queue
func (r *Recorder) GetQueuedSpans() []Span {
	r.Lock()
	defer r.Unlock()

	// copy the slice to avoid races
	queuedSpans := make([]Span, len(r.spans))
	copy(queuedSpans, r.spans)
	r.clearQueuedSpans()

	return queuedSpans
}

// Flush forces sending out the queued spans, blocking until they have been
// delivered or ctx is cancelled
func (r *Recorder) Flush(ctx context.Context) error {
	if sensor == nil {
		return ErrNotInitialized
	}

	spans := r.GetQueuedSpans()
	if len(spans) == 0 {
		return nil
	}

	res := make(chan error, 1)
	go func() {
		res <- sensor.agent.SendSpans(spans)
	}()

	select {
	case err := <-res:
		if err != nil {
			r.requeue(spans)
		}
		return err
	case <-ctx.Done():
		r.requeue(spans)
		return ctx.Err()
	}
}

// send sends the queued spans to the backend asynchronously. Failed batches
// are requeued up to the buffer capacity.
func (r *Recorder) send(ctx context.Context) {
	if r.testMode {
		return
	}

	go func() {
		if err := r.Flush(ctx); err != nil {
			sensor.logger.Warn("failed to send collected spans to the backend: ", err)
		}
	}()
}

// requeue puts back spans that could not be delivered, preserving the buffer cap
func (r *Recorder) requeue(spans []Span) {
	r.Lock()
	defer r.Unlock()

	r.spans = append(spans, r.spans...)
	if maxSpans := sensor.options.MaxBufferedSpans; len(r.spans) > maxSpans {
		r.spans = r.spans[len(r.spans)-maxSpans:]
	}
}

// clearQueuedSpans removes all items from the send queue. Must be called
// while holding the lock.
func (r *Recorder) clearQueuedSpans() {
	var maxSpans int
	if sensor != nil {
		maxSpans = sensor.options.MaxBufferedSpans
	} else {
		maxSpans = DefaultMaxBufferedSpans
	}

	r.spans = make([]Span, 0, maxSpans)
}
