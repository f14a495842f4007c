// Package httpapi exposes the resource client constructor.
package httpapi

import (
	"github.com/adamwoolhether/httpapi/client"
)

// New instantiates a *client.Client bound to the resource called name.
// cfg is merged over [client.DefaultConfig]; see [client.New].
func New(name string, cfg client.Config, opts ...client.Option) (*client.Client, error) {
	return client.New(name, cfg, opts...)
}
