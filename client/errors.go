package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMethod signals a send with a method outside the declared
	// set. This is a programming error, never a network failure, and is
	// returned before any transport activity.
	ErrInvalidMethod = errors.New("invalid request method")

	// ErrDuplicateHeader is recorded when the same header key is set twice
	// through [Request.WithHeader]. It surfaces on the next send.
	ErrDuplicateHeader = errors.New("duplicate header key")

	// ErrCancelled is returned when the caller's context was cancelled
	// while the dispatch was in flight. Cancellation takes priority over
	// any other terminal classification.
	ErrCancelled = errors.New("request cancelled")

	// ErrTransport is the sentinel matched by [TransportError].
	ErrTransport = errors.New("transport failure")

	// ErrUnexpectedStatus is the sentinel wrapped by [StatusError].
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrUnexpectedTransport covers any transport outcome outside the
	// known classification. It should not occur under normal behavior.
	ErrUnexpectedTransport = errors.New("unexpected transport state")
)

// StatusError is the default failure for a dispatch that completed
// with an HTTP error status and no custom handler installed.
type StatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// TransportError wraps a connection, timeout, or body-read failure.
// It matches [ErrTransport] via errors.Is and unwraps to the
// underlying cause.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v during %s: %v", ErrTransport, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
