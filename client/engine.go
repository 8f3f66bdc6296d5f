// Package client implements a fluent builder for issuing single HTTP
// requests against a remote server.
package client

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/fetchkit/client/throttle"
)

// Engine owns the shared *http.Client and process-wide default
// headers, and is the factory for [Request] builders. It sets a
// default *http.Client and *http.Transport, which can be customized
// via optional funcs.
type Engine struct {
	c      *http.Client
	logger *slog.Logger
	clk    clock.Clock
	tracer trace.Tracer

	// defaults is read, not locked, during dispatch. Mutating it via
	// AddHeader/RemoveHeader while a request is in flight is a data
	// race and a caller responsibility.
	defaults map[string]string

	timeout   time.Duration
	pollEvery time.Duration
	requestID bool
}

func Build(optFns ...Option) (*Engine, error) {
	engine := &Engine{
		c:         &http.Client{},
		logger:    slog.Default(),
		clk:       clock.New(),
		tracer:    noop.NewTracerProvider().Tracer("fetchkit"),
		defaults:  make(map[string]string),
		pollEvery: defaultPollInterval,
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying engine option: %w", err)
		}
	}

	if opts.client != nil {
		engine.c = opts.client
	}

	if opts.logger != nil {
		engine.logger = opts.logger
	}

	if opts.clk != nil {
		engine.clk = opts.clk
	}

	if opts.tracerProvider != nil {
		engine.tracer = opts.tracerProvider.Tracer("fetchkit")
	}

	if opts.timeout != nil {
		engine.timeout = *opts.timeout
	}

	if opts.pollInterval != nil {
		engine.pollEvery = *opts.pollInterval
	}

	engine.requestID = opts.requestID

	for k, v := range opts.defaultHeaders {
		engine.defaults[k] = v
	}

	if opts.noFollowRedirects {
		engine.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return engine.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	engine.c.Transport = transport

	return engine, nil
}

// AddHeader sets a default header applied to every request the engine
// subsequently creates. Setting an existing key overwrites its value.
func (e *Engine) AddHeader(key, value string) {
	e.defaults[key] = value
}

// RemoveHeader deletes a default header. Removing a key that was
// never added is a no-op.
func (e *Engine) RemoveHeader(key string) {
	delete(e.defaults, key)
}

// DefaultHeaders returns a copy of the engine's current default
// header set.
func (e *Engine) DefaultHeaders() map[string]string {
	cpy := make(map[string]string, len(e.defaults))
	for k, v := range e.defaults {
		cpy[k] = v
	}

	return cpy
}

// Make creates a [Request] builder for the given URL. The URL is
// fixed for the builder's lifetime; everything else is set through
// the builder's fluent setters.
func (e *Engine) Make(rawURL string) *Request {
	return &Request{
		engine:  e,
		url:     rawURL,
		method:  MethodGet,
		headers: make(map[string]string),
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)

	return ua.base.RoundTrip(cpy)
}
