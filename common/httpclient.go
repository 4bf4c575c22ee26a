package common

import (
	"net/http"
	"time"
)

// HttpClient is the transport-level interface the Salesforce client sends
// requests through. Keeping it an interface allows mocking or custom
// transports in testing.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

// userAgentRoundTripper is a custom RoundTripper that adds a User-Agent header.
type userAgentRoundTripper struct {
	Wrapped   http.RoundTripper
	UserAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone request to avoid mutating the original
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", rt.UserAgent)
	return rt.Wrapped.RoundTrip(clone)
}

// httpClient wraps a standard *http.Client.
type httpClient struct {
	client *http.Client
}

// NewHttpClient returns an HttpClient with the given timeout and a custom
// User-Agent. Pass a prepared *http.Client to reuse its transport settings.
func NewHttpClient(userAgent string, timeout time.Duration, base *http.Client) HttpClient {
	if base == nil {
		base = &http.Client{}
	}
	if base.Transport == nil {
		base.Transport = http.DefaultTransport
	}
	base.Transport = &userAgentRoundTripper{
		Wrapped:   base.Transport,
		UserAgent: userAgent,
	}
	base.Timeout = timeout

	return &httpClient{client: base}
}

func (h *httpClient) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

func (h *httpClient) CloseIdleConnections() {
	h.client.CloseIdleConnections()
}
