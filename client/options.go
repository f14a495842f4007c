package client

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"

	"github.com/adamwoolhether/httpapi/client/throttle"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Client] via [New].
type Option func(*options) error
type options struct {
	client     *http.Client
	rt         http.RoundTripper
	userAgent  string
	throttle   *throttle.Config
	logger     *slog.Logger
	tracer     trace.Tracer
	registerer prometheus.Registerer
	defaults   *Config
	useJSONNum bool
	bufSize    int
}

// WithHTTPClient replaces the [http.Client] used for calls. The client is
// copied; the caller's value is never modified.
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

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		o.userAgent = header
		return nil
	}
}

// WithThrottle paces calls with a token bucket of the given requests per
// second and burst capacity. Calls wait for a token; none are rejected.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		o.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer starts one span per call on tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithMetrics registers call metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		o.registerer = reg
		return nil
	}
}

// WithDefaults replaces the library defaults returned by [DefaultConfig]
// for this client.
func WithDefaults(cfg Config) Option {
	return func(o *options) error {
		o.defaults = &cfg
		return nil
	}
}

// WithJSONNumber makes JSON bodies decode numbers as [json.Number]
// instead of float64.
func WithJSONNumber() Option {
	return func(o *options) error {
		o.useJSONNum = true
		return nil
	}
}

// WithReadBufferSize sets the size of the buffer response bodies are
// read into, which bounds the size of each data event chunk.
func WithReadBufferSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("read buffer size[%d] must be greater than zero", n)
		}
		o.bufSize = n
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// CallOption is a functional option for a single call.
type CallOption func(*Overrides) error

// WithData sets per-call data, merged over the client's data by key.
func WithData(data map[string]any) CallOption {
	return func(o *Overrides) error {
		if o.Data == nil {
			o.Data = make(map[string]any, len(data))
		}
		maps.Copy(o.Data, data)
		return nil
	}
}

// WithHeaders sets per-call headers, merged over the client's headers by key.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *Overrides) error {
		if o.Headers == nil {
			o.Headers = make(map[string]string, len(headers))
		}
		maps.Copy(o.Headers, headers)
		return nil
	}
}
