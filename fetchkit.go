// Package fetchkit exposes the request engine builder.
package fetchkit

import (
	"github.com/adamwoolhether/fetchkit/client"
)

// NewEngine instantiates a new *Engine with the provided options.
// If not specified, the default http.Client and http.Transport are used.
func NewEngine(opts ...client.Option) (*client.Engine, error) {
	return client.Build(opts...)
}
