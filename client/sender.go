package client

import (
	"context"
	"fmt"
	"time"

	"github.com/adamwoolhether/fetchkit/client/progress"
)

// senderState is the immutable snapshot a sender closes over.
type senderState struct {
	engine    *Engine
	url       string
	method    Method
	body      any
	transform TransformFunc
	handler   ErrorHandler
	timeout   time.Duration
	sink      progress.Func
	headers   map[string]string
	err       error
}

// payload resolves the outbound body for the snapshot's method.
// GET sends none. POST sends the transformed body when both a body
// and a transformer are present; either being absent yields no
// payload, which is accepted rather than rejected.
func (s senderState) payload() (string, error) {
	switch s.method {
	case MethodGet:
		return "", nil
	case MethodPost:
		if s.transform == nil || s.body == nil {
			return "", nil
		}

		out, err := s.transform(s.body)
		if err != nil {
			return "", fmt.Errorf("transforming body: %w", err)
		}

		return out, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMethod, s.method)
	}
}

func (s senderState) dispatch(ctx context.Context, trackProgress bool) (*buffered, error) {
	if s.err != nil {
		return nil, s.err
	}

	payload, err := s.payload()
	if err != nil {
		return nil, err
	}

	params := dispatchParams{
		method:  s.method,
		url:     s.url,
		headers: s.headers,
		payload: payload,
		timeout: s.timeout,
		handler: s.handler,
	}
	if trackProgress {
		params.track = true
		params.sink = s.sink
	}

	return s.engine.dispatch(ctx, params)
}

// StringSender dispatches a bound request snapshot and buffers the
// response body as text.
type StringSender struct {
	state senderState
}

func (s *StringSender) Send(ctx context.Context) (*StringResponse, error) {
	buf, err := s.state.dispatch(ctx, false)
	if err != nil {
		return nil, err
	}

	return &StringResponse{
		StatusCode: buf.status,
		Header:     buf.header,
		Text:       string(buf.body),
	}, nil
}

// ByteSender dispatches a bound request snapshot and buffers the raw
// response bytes.
type ByteSender struct {
	state senderState
}

func (s *ByteSender) Send(ctx context.Context) (*ByteResponse, error) {
	buf, err := s.state.dispatch(ctx, false)
	if err != nil {
		return nil, err
	}

	return &ByteResponse{
		StatusCode: buf.status,
		Header:     buf.header,
		Body:       buf.body,
	}, nil
}

// ProgressByteSender dispatches a bound request snapshot with
// progress tracking. The builder's progress sink, when set, receives
// snapshots while the download is in flight.
type ProgressByteSender struct {
	state senderState
}

func (s *ProgressByteSender) Send(ctx context.Context) (*ProgressByteResponse, error) {
	buf, err := s.state.dispatch(ctx, true)
	if err != nil {
		return nil, err
	}

	return &ProgressByteResponse{
		ByteResponse: ByteResponse{
			StatusCode: buf.status,
			Header:     buf.header,
			Body:       buf.body,
		},
		TotalBytes: buf.last.Total,
	}, nil
}
