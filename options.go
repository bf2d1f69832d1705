// (c) Copyright ZeroEval Inc. 2026

package zeroeval

// Options allows the user to configure the SDK on initialization
type Options struct {
	// Service is the name under which spans are reported. Falls back to
	// ZEROEVAL_SERVICE_NAME and then to the name of the executable.
	Service string
	// APIKey authenticates the SDK against the ZeroEval backend. Falls back
	// to ZEROEVAL_API_KEY.
	APIKey string
	// APIURL is the base URL of the ZeroEval backend. Falls back to
	// ZEROEVAL_API_URL and then to https://api.zeroeval.com.
	APIURL string
	// WorkspaceID pins the workspace to report into. When empty, the
	// workspace is discovered from the backend during the announce phase.
	WorkspaceID string
	// MaxBufferedSpans is the maximum number of spans kept in the send queue.
	// When the queue is full, the oldest spans are dropped first.
	MaxBufferedSpans int
	// ForceTransmissionStartingAt is the queue length that triggers an
	// immediate flush without waiting for the next send cycle.
	ForceTransmissionStartingAt int
	// MaxBufferedSignals is the capacity of the asynchronous signal queue.
	MaxBufferedSignals int
	// LogLevel is the verbosity of the default logger (see Error, Warn, Info, Debug)
	LogLevel int
	// Recorder to use instead of the default one. Mostly useful for testing.
	Recorder SpanRecorder
	// AgentClient to use instead of the default backend client. Mostly useful for testing.
	AgentClient AgentClient
	// Tracer holds tracer-specific configuration
	Tracer TracerOptions
}

// TracerOptions carry the tracer-specific configuration. The object
// must not be updated when there is an active collector using it.
type TracerOptions struct {
	// DropAllLogs turns log events on all spans into no-ops
	DropAllLogs bool
	// MaxLogsPerSpan limits the number of log records in a span (if set to a non-zero
	// value). If a span has more logs than this value, logs are dropped as
	// necessary
	MaxLogsPerSpan int
	// Secrets is a matcher used to filter out sensitive data from HTTP request
	// parameters and span tag values before they leave the process. By default
	// the tracer redacts values whose names contain "key", "pass" or "secret".
	Secrets Matcher
	// CollectableHTTPHeaders is a list of HTTP headers to be collected from
	// instrumented requests and responses
	CollectableHTTPHeaders []string
	// DisabledIntegrations holds the names of integrations that must not be
	// activated even when their instrumentation is wired in. Populated from
	// ZEROEVAL_DISABLED_INTEGRATIONS.
	DisabledIntegrations map[string]bool
}

// DefaultTracerOptions returns the default set of options for the tracer
func DefaultTracerOptions() TracerOptions {
	return TracerOptions{
		MaxLogsPerSpan: MaxLogsPerSpan,
		Secrets:        DefaultSecretsMatcher(),
	}
}

// DefaultOptions returns the default set of options, overridden with values
// from the ZEROEVAL_* environment variables where present.
func DefaultOptions() *Options {
	opts := &Options{
		MaxBufferedSpans:            DefaultMaxBufferedSpans,
		ForceTransmissionStartingAt: DefaultForceSpanSendAt,
		MaxBufferedSignals:          DefaultMaxBufferedSignals,
		Tracer:                      DefaultTracerOptions(),
	}
	opts.setDefaults()

	return opts
}

func (opts *Options) setDefaults() {
	if opts.MaxBufferedSpans == 0 {
		opts.MaxBufferedSpans = DefaultMaxBufferedSpans
	}

	if opts.ForceTransmissionStartingAt == 0 {
		opts.ForceTransmissionStartingAt = DefaultForceSpanSendAt
	}

	if opts.MaxBufferedSignals == 0 {
		opts.MaxBufferedSignals = DefaultMaxBufferedSignals
	}

	if opts.Tracer.MaxLogsPerSpan == 0 {
		opts.Tracer.MaxLogsPerSpan = MaxLogsPerSpan
	}

	if opts.Tracer.Secrets == nil {
		opts.Tracer.Secrets = DefaultSecretsMatcher()
	}

	applyEnvConfig(opts)
}
