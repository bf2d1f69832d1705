// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan_SuppressedDropsWrites(t *testing.T) {
	tracer := &tracerS{recorder: NewTestRecorder()}

	sp := tracer.StartSpan("task", SuppressTracing())

	sp.SetTag("custom", "value")
	sp.SetTag("error", true)
	sp.LogKV("error", "out of cheese")
	sp.SetBaggageItem("user", "alice")

	s, ok := sp.(*spanS)
	require.True(t, ok)

	assert.Empty(t, s.Tags)
	assert.Empty(t, s.Logs)
	assert.Zero(t, s.ErrorCount)
	assert.Empty(t, sp.BaggageItem("user"))
}

func TestSpan_RecordedBeforeInit(t *testing.T) {
	prev := sensor
	sensor = nil
	defer func() { sensor = prev }()

	recorder := NewTestRecorder()
	tracer := &tracerS{recorder: recorder}

	sp := tracer.StartSpan("task")
	sp.Finish()

	assert.Len(t, recorder.GetQueuedSpans(), 1)
}

func TestSpan_SuppressedNotRecorded(t *testing.T) {
	recorder := NewTestRecorder()
	tracer := &tracerS{recorder: recorder}

	sp := tracer.StartSpan("task", SuppressTracing())
	sp.Finish()

	assert.Empty(t, recorder.GetQueuedSpans())
}
