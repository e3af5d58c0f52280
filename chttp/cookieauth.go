package chttp

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

// SessionCookieName is the name of the CouchDB session cookie.
const SessionCookieName = "AuthSession"

// CookieAuth authenticates with a CouchDB session cookie, as described at
// http://docs.couchdb.org/en/stable/api/server/authn.html#cookie-authentication
//
// A session is established lazily, before the first request that carries no
// valid cookie. CookieAuth stores session state, so instances must not be
// shared between clients.
type CookieAuth struct {
	Username string `json:"name"`
	Password string `json:"password"`

	client *Client
	// transport is the original transport overridden by this mechanism.
	transport http.RoundTripper
}

var _ Authenticator = &CookieAuth{}

// Authenticate installs cookie-session handling on the client's transport.
func (a *CookieAuth) Authenticate(c *Client) error {
	a.client = c
	if c.Jar == nil {
		// cookiejar.New never returns an error
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		c.Jar = jar
	}
	a.transport = c.Transport
	if a.transport == nil {
		a.transport = http.DefaultTransport
	}
	c.Transport = a
	return nil
}

// Cookie returns the current session cookie, or nil if there is none.
func (a *CookieAuth) Cookie() *http.Cookie {
	if a.client == nil {
		return nil
	}
	for _, cookie := range a.client.Jar.Cookies(a.client.dsn) {
		if cookie.Name == SessionCookieName {
			return cookie
		}
	}
	return nil
}

type authInProgress struct{}

// RoundTrip satisfies http.RoundTripper. It establishes a session when no
// valid cookie is held, and drops the cookie on a 401 response so the next
// request authenticates afresh.
func (a *CookieAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := a.session(req); err != nil {
		return nil, err
	}
	res, err := a.transport.RoundTrip(req)
	if err != nil {
		return res, err
	}
	if res.StatusCode == http.StatusUnauthorized {
		if cookie := a.Cookie(); cookie != nil {
			// Expire the cookie so that it is discarded from the jar.
			cookie.Expires = time.Now().AddDate(0, 0, -1)
			a.client.Jar.SetCookies(a.client.dsn, []*http.Cookie{cookie})
		}
	}
	return res, nil
}

func (a *CookieAuth) session(req *http.Request) error {
	ctx := req.Context()
	if inProgress, _ := ctx.Value(authInProgress{}).(bool); inProgress {
		return nil
	}
	if _, err := req.Cookie(SessionCookieName); err == nil {
		return nil
	}
	a.client.authMU.Lock()
	defer a.client.authMU.Unlock()
	if c := a.Cookie(); c != nil {
		req.AddCookie(c)
		return nil
	}
	ctx = context.WithValue(ctx, authInProgress{}, true)
	opts := &Options{GetBody: BodyEncoder(a)}
	if _, err := a.client.DoError(ctx, http.MethodPost, "/_session", opts); err != nil {
		return err
	}
	if c := a.Cookie(); c != nil {
		req.AddCookie(c)
	}
	return nil
}
