// Package client wires an http.Client to a running mock server: every
// outgoing request is redirected to the mock server's address, and the
// transport trusts any certificate so the server's self-signed HTTPS
// setup needs no trust-store installation in the test process.
package client

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Option is a functional option for configuring the client.
type Option func(*rewriteTransport)

// WithOnlyHosts restricts redirection to requests whose host matches one
// of the given glob patterns (path.Match syntax, port excluded). Requests
// to other hosts pass through to the real network.
func WithOnlyHosts(patterns ...string) Option {
	return func(rt *rewriteTransport) {
		rt.hostPatterns = patterns
	}
}

// WithBaseTransport sets the underlying transport. Its TLS configuration
// is still overridden to trust any certificate.
func WithBaseTransport(base *http.Transport) Option {
	return func(rt *rewriteTransport) {
		rt.base = base
	}
}

// New returns an http.Client whose requests are intercepted and redirected
// to the mock server at target (e.g. "https://localhost:34567").
func New(target string, opts ...Option) (*http.Client, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid mock server URL %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("mock server URL %q must use http or https", target)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("mock server URL %q has no host", target)
	}

	rt := &rewriteTransport{scheme: u.Scheme, host: u.Host}
	for _, opt := range opts {
		opt(rt)
	}

	if rt.base == nil {
		rt.base = &http.Transport{}
	}
	rt.base.TLSClientConfig = &tls.Config{
		//nolint:gosec // the mock server presents a throwaway self-signed cert
		InsecureSkipVerify: true,
	}

	return &http.Client{
		Transport: rt,
		Timeout:   30 * time.Second,
	}, nil
}

// rewriteTransport redirects matched requests to the mock server's
// scheme and host, leaving path, query, headers, and body untouched.
type rewriteTransport struct {
	scheme       string
	host         string
	hostPatterns []string
	base         *http.Transport
}

// RoundTrip implements http.RoundTripper.
func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !rt.intercepts(req.URL.Hostname()) {
		return rt.base.RoundTrip(req)
	}

	// Clone so the caller's request is not modified.
	out := req.Clone(req.Context())
	out.URL.Scheme = rt.scheme
	out.URL.Host = rt.host
	out.Host = rt.host
	return rt.base.RoundTrip(out)
}

// intercepts reports whether requests to the given hostname are redirected.
func (rt *rewriteTransport) intercepts(hostname string) bool {
	if len(rt.hostPatterns) == 0 {
		return true
	}
	for _, pattern := range rt.hostPatterns {
		if ok, _ := path.Match(pattern, hostname); ok {
			return true
		}
	}
	return false
}
