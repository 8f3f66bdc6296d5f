package client

import "net/http"

// StringResponse is the buffered outcome of a string-output send.
// Text round-trips the response body's UTF-8 unchanged.
type StringResponse struct {
	StatusCode int
	Header     http.Header
	Text       string
}

// ByteResponse is the buffered outcome of a byte-output send.
type ByteResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ProgressByteResponse is the outcome of a progress-tracked byte send.
// TotalBytes is the total reported by the final progress snapshot and
// may be zero when the server never exposed a content length.
type ProgressByteResponse struct {
	ByteResponse

	TotalBytes uint64
}

// Downloaded reports the number of bytes actually buffered. It is
// ground truth from the payload itself, independent of any
// transport-reported counter.
func (r *ProgressByteResponse) Downloaded() uint64 {
	return uint64(len(r.Body))
}
