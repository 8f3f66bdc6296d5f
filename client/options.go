package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetchkit/client/throttle"
)

// Option is a functional option for configuring an [Engine] via [Build].
type Option func(*options) error

type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	clk               clock.Clock
	tracerProvider    trace.TracerProvider
	defaultHeaders    map[string]string
	pollInterval      *time.Duration
	requestID         bool
}

// WithHTTPClient replaces the default [http.Client] used by the [Engine].
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout sets the engine-wide default dispatch timeout, used when
// a request does not set its own. Zero falls back to the 30s default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		o.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		o.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithNoFollowRedirects prevents the [Engine] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(o *options) error {
		o.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Engine].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithClock replaces the tick source driving progress polling.
// Intended for tests using a mock clock.
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk == nil {
			return errors.New("clock must not be nil")
		}
		o.clk = clk
		return nil
	}
}

// WithTracerProvider enables span emission around each dispatch.
// A no-op tracer is used unless set.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithDefaultHeaders seeds the engine's default header set. Equivalent
// to calling [Engine.AddHeader] for each pair after Build.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(o *options) error {
		o.defaultHeaders = headers
		return nil
	}
}

// WithProgressInterval sets how often an in-flight download is sampled
// for progress snapshots.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.New("progress interval must be positive")
		}
		o.pollInterval = &d
		return nil
	}
}

// WithRequestID stamps every dispatch with a generated X-Request-Id header.
func WithRequestID() Option {
	return func(o *options) error {
		o.requestID = true
		return nil
	}
}
