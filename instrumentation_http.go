// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"net/http"
	"net/url"

	ot "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	otlog "github.com/opentracing/opentracing-go/log"
)

// TracingHandlerFunc is an HTTP middleware that captures tracing data for
// inbound requests and ensures trace context propagation via ZeroEval headers.
// The pathTemplate parameter, when provided, is attached to the span as the
// route template used to match the request.
func TracingHandlerFunc(c TracerLogger, pathTemplate string, handler http.HandlerFunc) http.HandlerFunc {
	if IntegrationDisabled("http") {
		return handler
	}

	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		opts := []ot.StartSpanOption{
			ext.SpanKindRPCServer,
			ot.Tags{
				"http.host":   req.Host,
				"http.method": req.Method,
				"http.path":   req.URL.Path,
			},
		}

		if ps, ok := SpanFromContext(ctx); ok {
			opts = append(opts, ot.ChildOf(ps.Context()))
		} else if wireContext, err := c.Extract(ot.HTTPHeaders, ot.HTTPHeadersCarrier(req.Header)); err == nil {
			opts = append(opts, ext.RPCServerOption(wireContext))
		}

		if pathTemplate != "" && req.URL.Path != pathTemplate {
			opts = append(opts, ot.Tag{Key: "http.path_tpl", Value: pathTemplate})
		}

		span := c.StartSpan("http.server", opts...)
		defer span.Finish()

		params := collectHTTPParams(req.URL.Query(), c.Options().Secrets)
		if len(params) > 0 {
			span.SetTag("http.params", params.Encode())
		}

		collectHeaders(req.Header, c.Options().CollectableHTTPHeaders, span)

		defer func() {
			// capture the panic before it takes down the process
			if err := recover(); err != nil {
				if e, ok := err.(error); ok {
					span.SetTag("http.error", e.Error())
					span.LogFields(otlog.Error(e))
				} else {
					span.SetTag("http.error", err)
					span.LogFields(otlog.Object("error", err))
				}

				span.SetTag(string(ext.HTTPStatusCode), http.StatusInternalServerError)

				panic(err)
			}
		}()

		wrapped := &statusCodeRecorder{ResponseWriter: w}

		// inject the trace context into the response headers so browser agents
		// can pick up the server-side trace
		c.Inject(span.Context(), ot.HTTPHeaders, ot.HTTPHeadersCarrier(w.Header()))

		handler(wrapped, req.WithContext(ContextWithSpan(ctx, span)))

		if wrapped.Status() > 0 {
			if wrapped.Status() >= http.StatusInternalServerError {
				span.SetTag("error", true)
			}

			span.SetTag(string(ext.HTTPStatusCode), wrapped.Status())
		}
	}
}

// RoundTripper wraps an http.RoundTripper, traces outgoing requests started
// under an active span and propagates the trace context downstream. A nil
// original round tripper defaults to http.DefaultTransport.
func RoundTripper(c TracerLogger, original http.RoundTripper) http.RoundTripper {
	if original == nil {
		original = http.DefaultTransport
	}

	if IntegrationDisabled("http") {
		return original
	}

	return tracingRoundTripper(func(req *http.Request) (*http.Response, error) {
		ctx := req.Context()

		parentSpan, ok := SpanFromContext(ctx)
		if !ok {
			// don't trace the exit call if there is no entry span to attach it to
			return original.RoundTrip(req)
		}

		sanitizedURL := *req.URL
		sanitizedURL.RawQuery = ""
		sanitizedURL.User = nil

		span := c.StartSpan("http.client",
			ext.SpanKindRPCClient,
			ot.ChildOf(parentSpan.Context()),
			ot.Tags{
				"http.url":    sanitizedURL.String(),
				"http.method": req.Method,
			})
		defer span.Finish()

		params := collectHTTPParams(req.URL.Query(), c.Options().Secrets)
		if len(params) > 0 {
			span.SetTag("http.params", params.Encode())
		}

		// clone the request since RoundTrip must not modify the original one
		req = req.Clone(ContextWithSpan(ctx, span))
		c.Inject(span.Context(), ot.HTTPHeaders, ot.HTTPHeadersCarrier(req.Header))

		resp, err := original.RoundTrip(req)
		if err != nil {
			span.SetTag("http.error", err.Error())
			span.LogFields(otlog.Error(err))

			return resp, err
		}

		span.SetTag(string(ext.HTTPStatusCode), resp.StatusCode)
		collectHeaders(resp.Header, c.Options().CollectableHTTPHeaders, span)

		return resp, err
	})
}

type tracingRoundTripper func(*http.Request) (*http.Response, error)

func (rt tracingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req)
}

// collectHTTPParams filters the query params, replacing the values that match
// the secrets matcher with a placeholder
func collectHTTPParams(params url.Values, matcher Matcher) url.Values {
	if matcher == nil {
		return params
	}

	filtered := make(url.Values, len(params))
	for k, v := range params {
		if matcher.Match(k) {
			filtered[k] = []string{"<redacted>"}
			continue
		}

		filtered[k] = v
	}

	return filtered
}

// collectHeaders records the allow-listed headers on the span
func collectHeaders(headers http.Header, collectable []string, span ot.Span) {
	for _, h := range collectable {
		if v := headers.Get(h); v != "" {
			span.SetTag("http.header."+h, v)
		}
	}
}

// statusCodeRecorder is a wrapper over http.ResponseWriter to spy the returned status code
type statusCodeRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusCodeRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusCodeRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}

	return rec.ResponseWriter.Write(b)
}

// Status returns the response status code, 0 when the handler has not written it yet
func (rec *statusCodeRecorder) Status() int {
	return rec.status
}
