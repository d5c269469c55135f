package http

import (
	"net"
	"net/http"
	"time"
)

// TransportFunc wraps a round tripper. Wrappers apply in registration order,
// so the last one registered sees the request first.
type TransportFunc func(http.RoundTripper) http.RoundTripper

// HttpOpts tunes the client built by NewConnector.
type HttpOpts func(*clientConfig)

type clientConfig struct {
	dialTimeout           time.Duration
	keepAlive             time.Duration
	requestTimeout        time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	wrappers              []TransportFunc
}

// Model calls and dataset uploads can take minutes, so the defaults are
// generous and every connector overrides them from configuration.
func defaultClientConfig() clientConfig {
	return clientConfig{
		dialTimeout:           30 * time.Second,
		keepAlive:             90 * time.Second,
		requestTimeout:        5 * time.Minute,
		responseHeaderTimeout: 5 * time.Minute,
		idleConnTimeout:       90 * time.Second,
	}
}

func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) { c.dialTimeout = timeout }
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *clientConfig) { c.keepAlive = keepAlive }
}

// WithRequestTimeout bounds a whole exchange, including reading the body.
// Zero disables the bound.
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) { c.requestTimeout = timeout }
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) { c.responseHeaderTimeout = timeout }
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) { c.idleConnTimeout = timeout }
}

func WithTransport(wrap TransportFunc) HttpOpts {
	return func(c *clientConfig) { c.wrappers = append(c.wrappers, wrap) }
}

func newClient(opts ...HttpOpts) *http.Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.dialTimeout,
		KeepAlive: cfg.keepAlive,
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
	}
	for _, wrap := range cfg.wrappers {
		rt = wrap(rt)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: rt,
	}
}
