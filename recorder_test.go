// (c) Copyright ZeroEval Inc. 2026

package zeroeval_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	ot "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zeroeval "github.com/zeroeval/zeroeval-go"
)

func TestRecorderBasics(t *testing.T) {
	recorder := zeroeval.NewTestRecorder()
	c := zeroeval.InitCollector(&zeroeval.Options{
		AgentClient: alwaysReadyClient{},
		Recorder:    recorder,
	})
	defer zeroeval.ShutdownCollector()

	pSpan := c.StartSpan("parent-span")
	span := c.StartSpan("llm.generate", ot.ChildOf(pSpan.Context()))
	span.SetTag(string(ext.SpanKind), "exit")
	span.SetTag("model", "openai/gpt-4o")
	span.Finish()

	// Validate GetQueuedSpans returns queued spans and clears the queue
	spans := recorder.GetQueuedSpans()
	assert.Len(t, spans, 1)
	assert.Equal(t, 0, recorder.QueuedSpansCount())
}

func TestRecorder_Flush_EmptyQueue(t *testing.T) {
	recorder := zeroeval.NewTestRecorder()
	zeroeval.InitCollector(&zeroeval.Options{
		AgentClient: alwaysReadyClient{},
		Recorder:    recorder,
	})
	defer zeroeval.ShutdownCollector()

	require.NoError(t, recorder.Flush(context.Background()))
}

func TestRecorder_Flush_NotInitialized(t *testing.T) {
	recorder := zeroeval.NewTestRecorder()
	assert.ErrorIs(t, recorder.Flush(context.Background()), zeroeval.ErrNotInitialized)
}

func TestRecorder_Flush_Requeue(t *testing.T) {
	recorder := zeroeval.NewTestRecorder()
	c := zeroeval.InitCollector(&zeroeval.Options{
		AgentClient: &failingAgentClient{},
		Recorder:    recorder,
	})
	defer zeroeval.ShutdownCollector()

	c.StartSpan("task").Finish()
	require.Equal(t, 1, recorder.QueuedSpansCount())

	assert.Error(t, recorder.Flush(context.Background()))

	// failed batches are requeued rather than dropped
	assert.Equal(t, 1, recorder.QueuedSpansCount())
}

func TestRecorder_BufferOverflow(t *testing.T) {
	recorder := zeroeval.NewTestRecorder()
	c := zeroeval.InitCollector(&zeroeval.Options{
		AgentClient:      alwaysReadyClient{},
		Recorder:         recorder,
		MaxBufferedSpans: 2,
	})
	defer zeroeval.ShutdownCollector()

	c.StartSpan("first").Finish()
	c.StartSpan("second").Finish()
	c.StartSpan("third").Finish()

	spans := recorder.GetQueuedSpans()
	require.Len(t, spans, 2)

	// the oldest span is dropped first
	assert.Equal(t, "second", spans[0].Name)
	assert.Equal(t, "third", spans[1].Name)
}

type alwaysReadyClient struct{}

func (alwaysReadyClient) Ready() bool                                  { return true }
func (alwaysReadyClient) SendSpans(spans []zeroeval.Span) error        { return nil }
func (alwaysReadyClient) SendSignal(sig zeroeval.Signal) error         { return nil }
func (alwaysReadyClient) SendTestSignal(sig zeroeval.TestSignal) error { return nil }

type failingAgentClient struct{}

func (failingAgentClient) Ready() bool                           { return true }
func (failingAgentClient) SendSpans(spans []zeroeval.Span) error { return errors.New("no backend") }
func (failingAgentClient) SendSignal(sig zeroeval.Signal) error  { return errors.New("no backend") }
func (failingAgentClient) SendTestSignal(sig zeroeval.TestSignal) error {
	return errors.New("no backend")
}

// recorderAgentClient captures everything sent through it
type recorderAgentClient struct {
	mu          sync.Mutex
	spanBatches [][]zeroeval.Span
	signals     []zeroeval.Signal
	testSignals []zeroeval.TestSignal
}

func (c *recorderAgentClient) Ready() bool { return true }

func (c *recorderAgentClient) SendSpans(spans []zeroeval.Span) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spanBatches = append(c.spanBatches, spans)
	return nil
}

func (c *recorderAgentClient) SendSignal(sig zeroeval.Signal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, sig)
	return nil
}

func (c *recorderAgentClient) SendTestSignal(sig zeroeval.TestSignal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testSignals = append(c.testSignals, sig)
	return nil
}

func (c *recorderAgentClient) Signals() []zeroeval.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]zeroeval.Signal(nil), c.signals...)
}

func (c *recorderAgentClient) TestSignals() []zeroeval.TestSignal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]zeroeval.TestSignal(nil), c.testSignals...)
}
