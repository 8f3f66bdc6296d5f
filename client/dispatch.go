package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetchkit/client/progress"
)

// dispatchParams is everything a sender hands to the dispatcher.
type dispatchParams struct {
	method  Method
	url     string
	headers map[string]string
	payload string
	timeout time.Duration
	handler ErrorHandler
	track   bool
	sink    progress.Func
}

// buffered is the successful terminal outcome of a dispatch.
type buffered struct {
	status int
	header http.Header
	body   []byte
	last   progress.Snapshot
}

// resultKind enumerates the terminal transport outcomes the
// classifier understands.
type resultKind int

const (
	kindConnectionError resultKind = iota
	kindProtocolError
	kindDataError
)

// transportResult is a failed transport outcome awaiting classification.
type transportResult struct {
	kind   resultKind
	status int
	header http.Header
	body   []byte
	err    error
}

// dispatch performs one full send: build the transport request, fire
// it, optionally sample progress per tick, and map the terminal state
// to a buffered result or a typed failure. Exactly one outcome is
// produced per call.
func (e *Engine) dispatch(ctx context.Context, p dispatchParams) (*buffered, error) {
	timeout := p.timeout
	if timeout == 0 {
		timeout = e.timeout
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	ctx, span := e.tracer.Start(ctx, "fetchkit.dispatch", trace.WithAttributes(
		attribute.String("http.method", p.method.String()),
		attribute.String("url.full", p.url),
	))
	defer span.End()

	// The caller's ctx is the cancellation handle; the timeout lives on
	// a derived context so the two remain distinguishable afterwards.
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if p.payload != "" {
		body = strings.NewReader(p.payload)
	}

	req, err := http.NewRequestWithContext(reqCtx, p.method.String(), p.url, body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	if e.requestID {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := e.c.Do(req)
	if err != nil {
		return nil, e.finalize(ctx, span, transportResult{kind: kindConnectionError, err: err}, p.handler)
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			e.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			e.logger.Error("failed to close response body", "error", err)
		}
	}()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var reader io.Reader = resp.Body
	var mon *progress.Monitor
	if p.track {
		mon = progress.NewMonitor(resp.Body, contentLength(resp.Header), p.sink,
			progress.WithClock(e.clk),
			progress.WithInterval(e.pollEvery),
		)
		mon.Start()
		reader = mon
	}

	data, err := io.ReadAll(reader)

	// The terminal outcome must land after the last snapshot, so the
	// monitor is joined before anything is returned.
	var last progress.Snapshot
	if mon != nil {
		last = mon.Stop()
	}

	if err != nil {
		return nil, e.finalize(ctx, span, transportResult{kind: kindDataError, err: err}, p.handler)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		res := transportResult{
			kind:   kindProtocolError,
			status: resp.StatusCode,
			header: resp.Header,
			body:   data,
		}
		return nil, e.finalize(ctx, span, res, p.handler)
	}

	e.logger.Debug("dispatch complete",
		"method", p.method.String(),
		"url", p.url,
		"status", resp.StatusCode,
		"bytes", len(data),
	)

	return &buffered{
		status: resp.StatusCode,
		header: resp.Header,
		body:   data,
		last:   last,
	}, nil
}

// finalize resolves a failed transport outcome, giving an explicit
// cancellation priority over whatever the transport reported. An
// aborted operation surfaces to the transport as a connection error,
// so the caller's ctx is consulted first.
func (e *Engine) finalize(ctx context.Context, span trace.Span, res transportResult, handler ErrorHandler) error {
	var err error
	if errors.Is(ctx.Err(), context.Canceled) {
		err = ErrCancelled
	} else {
		err = e.classify(res, handler)
	}

	span.RecordError(err)

	return err
}

// classify maps a terminal transport outcome to a typed failure,
// delegating protocol errors to the custom handler when one was
// supplied. A timeout reaches this as a connection error, never as a
// cancellation.
func (e *Engine) classify(res transportResult, handler ErrorHandler) error {
	switch res.kind {
	case kindConnectionError:
		return &TransportError{Op: "connect", Err: res.err}
	case kindDataError:
		return &TransportError{Op: "read body", Err: res.err}
	case kindProtocolError:
		if handler != nil {
			return handler.HandleError(&ErrorContext{
				StatusCode: res.status,
				Body:       string(res.body),
				Header:     res.header,
			})
		}

		return &StatusError{
			StatusCode: res.status,
			Body:       string(res.body),
			Err:        ErrUnexpectedStatus,
		}
	default:
		return fmt.Errorf("%w: result kind %d", ErrUnexpectedTransport, res.kind)
	}
}

// contentLength re-reads the Content-Length header on every progress
// tick. Unparseable or negative values report an unknown total of zero.
func contentLength(h http.Header) func() uint64 {
	return func() uint64 {
		n, err := strconv.ParseInt(h.Get("Content-Length"), 10, 64)
		if err != nil || n < 0 {
			return 0
		}

		return uint64(n)
	}
}
