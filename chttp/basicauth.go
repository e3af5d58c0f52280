package chttp

import (
	"net/http"
)

// BasicAuth authenticates requests with HTTP Basic Auth.
type BasicAuth struct {
	Username string
	Password string

	// transport is the original transport overridden by this mechanism.
	transport http.RoundTripper
}

var _ Authenticator = &BasicAuth{}

// Authenticate installs Basic Auth on the client's transport.
func (a *BasicAuth) Authenticate(c *Client) error {
	a.transport = c.Transport
	if a.transport == nil {
		a.transport = http.DefaultTransport
	}
	c.Transport = a
	return nil
}

// RoundTrip satisfies http.RoundTripper, setting Basic Auth credentials on
// outbound requests.
func (a *BasicAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(a.Username, a.Password)
	return a.transport.RoundTrip(req)
}
