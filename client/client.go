package client

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/adamwoolhether/httpapi/client/throttle"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Client is bound to one remote resource. Its path, headers and data are
// fixed at construction; every call layers its own overrides on a fresh
// copy. A Client is safe for concurrent use.
type Client struct {
	name string
	path string
	base Config

	hc      *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics
	events  *channel

	useJSONNum bool
	bufSize    int

	inflight tracker
}

// New builds a Client for the resource called name. cfg is merged over
// the library defaults (see [DefaultConfig] and [WithDefaults]) and the
// result is validated.
func New(name string, cfg Config, optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	defaults := DefaultConfig()
	if opts.defaults != nil {
		defaults = *opts.defaults
	}

	base := mergeConfig(defaults, cfg)
	if err := validateConfig(base); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	c := &Client{
		name:       name,
		path:       base.URLPrefix + name + base.PathExtension,
		base:       base,
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer(""),
		events:     newChannel(),
		useJSONNum: opts.useJSONNum,
		bufSize:    defaultReadBufferSize,
	}

	if opts.logger != nil {
		c.logger = opts.logger
	}
	if opts.tracer != nil {
		c.tracer = opts.tracer
	}
	if opts.registerer != nil {
		c.metrics = newMetrics(opts.registerer)
	}
	if opts.bufSize > 0 {
		c.bufSize = opts.bufSize
	}

	hc, err := c.httpClient(opts)
	if err != nil {
		return nil, err
	}
	c.hc = hc

	return c, nil
}

// httpClient assembles the transport chain. A caller supplied client is
// copied so the original is left untouched.
func (c *Client) httpClient(opts options) (*http.Client, error) {
	var hc http.Client
	if opts.client != nil {
		hc = *opts.client
	}

	// One call is one exchange.
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = defaultTransport()
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return c.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	hc.Transport = transport

	return &hc, nil
}

// defaultTransport leaves response bodies compressed so Content-Encoding
// reaches the decoder as the server sent it.
func defaultTransport() http.RoundTripper {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultTransport
	}
	tr := base.Clone()
	tr.DisableCompression = true
	return tr
}

// Name returns the resource name the client was built for.
func (c *Client) Name() string { return c.name }

// Path returns the request path shared by every call.
func (c *Client) Path() string { return c.path }

// On subscribes handler to ev. The handler must have the signature of the
// matching handler type: [RequestHandler], [DataHandler], [EndHandler] or
// [ErrorHandler]. Handlers run in subscription order. Subscribe before
// making calls; subscribing from inside a handler deadlocks.
func (c *Client) On(ev Event, handler any) error {
	return c.events.subscribe(ev, handler)
}

// OnRequest subscribes fn to [EventRequest].
func (c *Client) OnRequest(fn RequestHandler) error { return c.On(EventRequest, fn) }

// OnData subscribes fn to [EventData]. The chunk belongs to fn.
func (c *Client) OnData(fn DataHandler) error { return c.On(EventData, fn) }

// OnEnd subscribes fn to [EventEnd].
func (c *Client) OnEnd(fn EndHandler) error { return c.On(EventEnd, fn) }

// OnError subscribes fn to [EventError].
func (c *Client) OnError(fn ErrorHandler) error { return c.On(EventError, fn) }

// Get starts a GET call. See [Client.Request].
func (c *Client) Get(ctx context.Context, opts ...CallOption) (*Call, error) {
	return c.Request(ctx, MethodGet, opts...)
}

// Post starts a POST call. See [Client.Request].
func (c *Client) Post(ctx context.Context, opts ...CallOption) (*Call, error) {
	return c.Request(ctx, MethodPost, opts...)
}

// Request starts a call with the given method and returns without
// waiting for the response. The merged data is sent as a JSON body for
// every method. Errors returned here mean nothing was sent and no event
// fires; everything after that is reported through events.
func (c *Client) Request(ctx context.Context, method Method, opts ...CallOption) (*Call, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	var overrides Overrides
	for _, opt := range opts {
		if err := opt(&overrides); err != nil {
			return nil, fmt.Errorf("applying call option: %w", err)
		}
	}

	eff, err := resolve(c.base, overrides)
	if err != nil {
		return nil, err
	}

	desc := Descriptor{
		Method:   method,
		Hostname: eff.Hostname,
		Port:     eff.Port,
		Path:     c.path,
		Headers:  eff.Headers,
		Body:     string(eff.Body),
	}

	req, err := newHTTPRequest(ctx, desc, eff.Body)
	if err != nil {
		return nil, err
	}

	call := newCall(uuid.NewString(), method)

	c.inflight.add()
	go func() {
		defer c.inflight.done()
		c.exec(call, req, desc)
	}()

	return call, nil
}

// Wait blocks until every call started so far has delivered its terminal
// event. Calls may be started while Wait is blocked; if they overlap the
// ones in flight, Wait returns only once those have finished too.
func (c *Client) Wait() {
	c.inflight.wait()
}

// newHTTPRequest builds the transport request. The path is written to the
// request line verbatim, so a prefix holding an absolute URL is sent in
// absolute form.
func newHTTPRequest(ctx context.Context, desc Descriptor, body []byte) (*http.Request, error) {
	host := net.JoinHostPort(desc.Hostname, strconv.Itoa(desc.Port))

	req, err := http.NewRequestWithContext(ctx, desc.Method.String(), "https://"+host+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	req.URL = &url.URL{
		Scheme: "https",
		Host:   host,
		Opaque: desc.Path,
	}

	for k, v := range desc.Headers {
		if strings.EqualFold(k, "Host") {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}

	return req, nil
}
