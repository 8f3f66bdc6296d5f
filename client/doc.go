// Package client provides a fluent builder for issuing single HTTP
// requests, with optional progress reporting and cancellation.
//
// # Building an Engine
//
// Use [Build] to create an [Engine] with functional options:
//
//	e, err := client.Build(
//		client.WithTimeout(10*time.Second),
//		client.WithUserAgent("myapp/1.0"),
//		client.WithDefaultHeaders(map[string]string{"Authorization": "Bearer x"}),
//	)
//
// An Engine can also be configured from a YAML file via [BuildFromFile].
//
// # Making Requests
//
// [Engine.Make] creates a [Request] builder. Chain setters, then send:
//
//	resp, err := e.Make("https://api.example.com/v1/resource").
//		WithHeader("Accept", "application/json").
//		Send(ctx)
//
// Send buffers the body as text. For raw bytes use [Request.ByteOutput],
// and for byte downloads with progress reporting use
// [Request.ProgressByteOutput]:
//
//	resp, err := e.Make(url).
//		WithProgress(func(s progress.Snapshot) {
//			fmt.Printf("%.0f%%\n", s.Fraction()*100)
//		}).
//		ProgressByteOutput().
//		Send(ctx)
//
// # POST Payloads
//
// A POST sends the body through a caller-supplied [TransformFunc];
// [JSONTransform] and [FormTransform] cover the common cases:
//
//	resp, err := e.Make(url).
//		WithMethod(client.MethodPost).
//		WithBody(payload{ID: 1}).
//		WithTransform(client.JSONTransform).
//		Send(ctx)
//
// # Failures
//
// Cancelling the send's context yields [ErrCancelled]; connection
// errors, timeouts, and body-read failures yield a [TransportError];
// HTTP error statuses yield a [StatusError] unless a custom
// [ErrorHandler] is installed with [Request.WithErrorHandler].
package client
