// (c) Copyright ZeroEval Inc. 2026

// Package zeroeval provides the ZeroEval Go SDK: an opentracing-compatible
// tracer that records spans, sessions and signals and delivers them to the
// ZeroEval backend for observability and evaluation of LLM applications.
package zeroeval

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	ot "github.com/opentracing/opentracing-go"
	"github.com/zeroeval/zeroeval-go/logger"
)

const (
	// DefaultMaxBufferedSpans is the default span queue capacity
	DefaultMaxBufferedSpans = 1000
	// DefaultForceSpanSendAt is the default queue length that triggers an immediate flush
	DefaultForceSpanSendAt = 500
)

type sensorS struct {
	agent       AgentClient
	logger      LeveledLogger
	options     *Options
	serviceName string
	signals     chan Signal
}

var sensor *sensorS

// TracerLogger is the combined tracing and logging interface exposed by the collector
type TracerLogger interface {
	Tracer
	LeveledLogger
}

// Collector is the initialized SDK instance used to start spans and log messages
type Collector struct {
	t Tracer
	LeveledLogger
}

var _ TracerLogger = (*Collector)(nil)

var (
	c           *Collector
	once        sync.Once
	muCollector sync.Mutex
)

// InitCollector initializes the ZeroEval collector. Options not provided
// explicitly are populated from the ZEROEVAL_* environment variables.
// Subsequent calls return the already initialized instance.
func InitCollector(opts *Options) TracerLogger {
	once.Do(func() {
		if opts == nil {
			opts = DefaultOptions()
		} else {
			opts.setDefaults()
		}

		l := defaultLogger
		if lg, ok := l.(*logger.Logger); ok {
			setLogLevel(lg, opts.LogLevel)
		}

		sensor = &sensorS{
			logger:  l,
			options: opts,
			signals: make(chan Signal, opts.MaxBufferedSignals),
		}
		sensor.configureServiceName()

		if opts.AgentClient != nil {
			sensor.agent = opts.AgentClient
		} else {
			sensor.agent = newAgent(opts.APIURL, opts.APIKey, opts.WorkspaceID, l)
		}

		if opts.Recorder == nil {
			opts.Recorder = NewRecorder()
		}

		go sensor.dispatchSignals()

		tracer := &tracerS{
			recorder: opts.Recorder,
		}

		muCollector.Lock()
		defer muCollector.Unlock()

		c = &Collector{
			t:             tracer,
			LeveledLogger: l,
		}
	})

	return c
}

// GetC returns the collector instance, or nil if InitCollector has not been called
func GetC() TracerLogger {
	muCollector.Lock()
	defer muCollector.Unlock()
	return c
}

// ShutdownCollector flushes the remaining spans, stops the background
// delivery loops and resets the collector, allowing re-initialization.
// Mostly useful for testing and for graceful termination of short-lived
// processes.
func ShutdownCollector() {
	muCollector.Lock()
	defer muCollector.Unlock()

	if c == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
	defer cancel()

	if err := c.t.Flush(ctx); err != nil {
		sensor.logger.Warn("failed to flush spans on shutdown: ", err)
	}

	if r, ok := sensor.options.Recorder.(*Recorder); ok {
		r.stop()
	}

	close(sensor.signals)

	c = nil
	sensor = nil
	once = sync.Once{}
}

// Flush sends out all buffered spans, blocking until they are delivered or
// ctx is cancelled. Call it before terminating short-lived processes to avoid
// losing the tail of the trace.
func Flush(ctx context.Context) error {
	muCollector.Lock()
	col := c
	muCollector.Unlock()

	if col == nil {
		return ErrNotInitialized
	}

	return col.t.Flush(ctx)
}

func (r *sensorS) setLogger(l LeveledLogger) {
	r.logger = l

	if agent, ok := r.agent.(*agentS); ok && agent != nil {
		agent.setLogger(l)
	}
}

func (r *sensorS) configureServiceName() {
	r.serviceName = r.options.Service

	if r.serviceName == "" {
		r.serviceName = filepath.Base(os.Args[0])
	}
}

// StartSpan starts a new span with the given operation name and options
func (c *Collector) StartSpan(operationName string, opts ...ot.StartSpanOption) ot.Span {
	return c.t.StartSpan(operationName, opts...)
}

// Inject takes a SpanContext instance and injects it into the carrier. It matches
// [opentracing.Tracer.Inject].
func (c *Collector) Inject(sm ot.SpanContext, format interface{}, carrier interface{}) error {
	return c.t.Inject(sm, format, carrier)
}

// Extract returns a SpanContext instance given `format` and `carrier`. It matches
// [opentracing.Tracer.Extract].
func (c *Collector) Extract(format interface{}, carrier interface{}) (ot.SpanContext, error) {
	return c.t.Extract(format, carrier)
}

// Options returns the current tracer options
func (c *Collector) Options() TracerOptions {
	return c.t.Options()
}

// Flush sends out all buffered spans
func (c *Collector) Flush(ctx context.Context) error {
	return c.t.Flush(ctx)
}
