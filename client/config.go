package client

import (
	"encoding/json"
	"maps"
	"net/http"
)

// Config binds a [Client] to one remote resource. The request path is
// URLPrefix + name + PathExtension, fixed when the client is built.
type Config struct {
	URLPrefix     string            `json:"urlPrefix"`
	PathExtension string            `json:"pathExtension"`
	Hostname      string            `json:"hostname" validate:"required,hostname_rfc1123|ip"`
	Port          int               `json:"port" validate:"min=1,max=65535"`
	Headers       map[string]string `json:"headers"`
	Data          map[string]any    `json:"data"`
}

// DefaultConfig returns the library defaults. Each call returns fresh maps.
func DefaultConfig() Config {
	return Config{
		URLPrefix: "/",
		Port:      443,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Data: map[string]any{},
	}
}

// Overrides carries per-call headers and data. They are layered on top of
// the client's config and never written back to it.
type Overrides struct {
	Headers map[string]string
	Data    map[string]any
}

// Effective is the fully merged request shape for one call.
type Effective struct {
	Hostname string
	Port     int
	Headers  map[string]string
	Data     map[string]any
	Body     []byte
}

// Resolve merges defaults, instance config and call overrides, highest
// precedence last, and serializes the merged data. Scalars from a higher
// layer win when non-zero; Headers and Data are merged key by key. Header
// names are canonicalized first, so "content-type" replaces a lower
// layer's "Content-Type". The inputs are not modified.
func Resolve(defaults, instance Config, overrides Overrides) (Effective, error) {
	return resolve(mergeConfig(defaults, instance), overrides)
}

// resolve applies call overrides to an already merged base.
func resolve(base Config, overrides Overrides) (Effective, error) {
	eff := Effective{
		Hostname: base.Hostname,
		Port:     base.Port,
		Headers:  mergeHeaders(base.Headers, overrides.Headers),
		Data:     mergeMaps(base.Data, overrides.Data),
	}

	body, err := json.Marshal(eff.Data)
	if err != nil {
		return Effective{}, &SerializationError{Err: err}
	}
	eff.Body = body

	return eff, nil
}

// mergeConfig layers over on top of base.
func mergeConfig(base, over Config) Config {
	out := Config{
		URLPrefix:     base.URLPrefix,
		PathExtension: base.PathExtension,
		Hostname:      base.Hostname,
		Port:          base.Port,
		Headers:       mergeHeaders(base.Headers, over.Headers),
		Data:          mergeMaps(base.Data, over.Data),
	}

	if over.URLPrefix != "" {
		out.URLPrefix = over.URLPrefix
	}
	if over.PathExtension != "" {
		out.PathExtension = over.PathExtension
	}
	if over.Hostname != "" {
		out.Hostname = over.Hostname
	}
	if over.Port != 0 {
		out.Port = over.Port
	}

	return out
}

// mergeMaps returns a new map holding lower's entries overwritten by upper's.
func mergeMaps[V any](lower, upper map[string]V) map[string]V {
	out := make(map[string]V, len(lower)+len(upper))
	maps.Copy(out, lower)
	maps.Copy(out, upper)
	return out
}

// mergeHeaders is mergeMaps for header names, which match regardless of case.
func mergeHeaders(lower, upper map[string]string) map[string]string {
	out := make(map[string]string, len(lower)+len(upper))
	for _, layer := range []map[string]string{lower, upper} {
		for k, v := range layer {
			out[http.CanonicalHeaderKey(k)] = v
		}
	}
	return out
}
