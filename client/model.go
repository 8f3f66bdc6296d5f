package client

import (
	"fmt"
	"net/http"
	"time"
)

// defaultTimeout applies when neither the request nor the engine
// sets one.
const defaultTimeout = 30 * time.Second

// defaultPollInterval is how often an in-flight download is sampled
// for progress when no interval is configured.
const defaultPollInterval = 100 * time.Millisecond

// Method identifies the HTTP verb of a dispatch. It is a closed set:
// anything outside the declared constants fails a send with
// [ErrInvalidMethod] before any network activity.
type Method int

const (
	MethodGet Method = iota
	MethodPost
)

// String returns the wire-format verb for known methods.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// TransformFunc serializes a request body into its payload string.
// An empty result means no payload is sent. The engine never inspects
// the body itself; serialization is entirely the transformer's concern.
type TransformFunc func(body any) (string, error)

// ErrorContext carries the transport outcome handed to a custom
// [ErrorHandler] when a dispatch fails with an HTTP error status.
type ErrorContext struct {
	StatusCode int
	Body       string
	Header     http.Header
}

// ErrorHandler converts a failed transport outcome into the error
// returned to the caller, overriding the default [StatusError]
// construction.
type ErrorHandler interface {
	HandleError(ectx *ErrorContext) error
}

// ErrorHandlerFunc adapts a plain func to the ErrorHandler interface.
type ErrorHandlerFunc func(ectx *ErrorContext) error

func (f ErrorHandlerFunc) HandleError(ectx *ErrorContext) error {
	return f(ectx)
}
