package client

import (
	"context"
	"fmt"
	"time"

	"github.com/adamwoolhether/fetchkit/client/progress"
)

// Request accumulates the configuration of a single dispatch. Every
// setter mutates the builder and returns it, enabling chaining. A
// builder is private to the caller that holds it and is not safe for
// concurrent mutation.
//
// A builder may be sent more than once; each send is an independent
// dispatch reflecting the builder's state at that moment.
type Request struct {
	engine    *Engine
	url       string
	method    Method
	body      any
	transform TransformFunc
	handler   ErrorHandler
	timeout   time.Duration
	sink      progress.Func
	headers   map[string]string

	// err holds the first builder misuse, surfaced on the next send.
	err error
}

// WithMethod sets the HTTP verb. Builders default to [MethodGet].
func (r *Request) WithMethod(m Method) *Request {
	r.method = m
	return r
}

// WithBody attaches an opaque body object. It is only consulted by a
// POST-style send, and only through the transformer; no validation
// ties it to the method.
func (r *Request) WithBody(body any) *Request {
	r.body = body
	return r
}

// WithTransform sets the serializer invoked when a send needs a payload.
func (r *Request) WithTransform(fn TransformFunc) *Request {
	r.transform = fn
	return r
}

// WithTimeout sets the dispatch timeout. Zero defers to the engine
// default, then to 30 seconds.
func (r *Request) WithTimeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// WithErrorHandler overrides the default failure construction for
// HTTP error statuses.
func (r *Request) WithErrorHandler(h ErrorHandler) *Request {
	r.handler = h
	return r
}

// WithProgress registers a sink receiving progress snapshots during a
// progress-tracked send.
func (r *Request) WithProgress(fn progress.Func) *Request {
	r.sink = fn
	return r
}

// WithHeader sets a request-level header. Setting the same key twice
// through this path records [ErrDuplicateHeader], which surfaces on
// the next send. Colliding with an engine default is fine: the
// request-level value wins.
func (r *Request) WithHeader(key, value string) *Request {
	if _, exists := r.headers[key]; exists {
		if r.err == nil {
			r.err = fmt.Errorf("%w: %s", ErrDuplicateHeader, key)
		}
		return r
	}

	r.headers[key] = value

	return r
}

// Headers resolves the effective header set: engine defaults overlaid
// by request-level headers, later writer wins. The receiver is not
// mutated.
func (r *Request) Headers() map[string]string {
	merged := make(map[string]string, len(r.engine.defaults)+len(r.headers))
	for k, v := range r.engine.defaults {
		merged[k] = v
	}
	for k, v := range r.headers {
		merged[k] = v
	}

	return merged
}

// Err reports the first builder misuse recorded so far, if any.
func (r *Request) Err() error {
	return r.err
}

// Send dispatches with string output. It is shorthand for
// StringOutput().Send(ctx).
func (r *Request) Send(ctx context.Context) (*StringResponse, error) {
	return r.StringOutput().Send(ctx)
}

// StringOutput binds the builder's current state to a single-shot
// string sender. Later builder mutations do not affect it.
func (r *Request) StringOutput() *StringSender {
	return &StringSender{state: r.capture()}
}

// ByteOutput binds the builder's current state to a single-shot byte sender.
func (r *Request) ByteOutput() *ByteSender {
	return &ByteSender{state: r.capture()}
}

// ProgressByteOutput binds the builder's current state to a
// single-shot byte sender that tracks download progress and reports
// the transfer totals on its response.
func (r *Request) ProgressByteOutput() *ProgressByteSender {
	return &ProgressByteSender{state: r.capture()}
}

// capture snapshots the builder for a sender, resolving headers now
// so the sender is immune to later mutation of either the builder or
// the engine defaults.
func (r *Request) capture() senderState {
	return senderState{
		engine:    r.engine,
		url:       r.url,
		method:    r.method,
		body:      r.body,
		transform: r.transform,
		handler:   r.handler,
		timeout:   r.timeout,
		sink:      r.sink,
		headers:   r.Headers(),
		err:       r.err,
	}
}
