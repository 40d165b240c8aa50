package webclient

import (
	"net/http"
	"time"
)

// NewDefault returns an HTTP client with sane timeouts.
func NewDefault(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewWithUserAgent returns a client that stamps every request with userAgent.
func NewWithUserAgent(timeout time.Duration, userAgent string) *http.Client {
	c := NewDefault(timeout)
	c.Transport = &uaTransport{base: http.DefaultTransport, userAgent: userAgent}
	return c
}

type uaTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
