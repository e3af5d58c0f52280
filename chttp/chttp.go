// Package chttp is the HTTP transport beneath the cushion client. It builds
// requests against a CouchDB server, issues them, and classifies responses
// by status code.
package chttp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"github.com/cushion-db/cushion/errs"
)

const typeJSON = "application/json"

// UserAgent and Version identify this transport in the User-Agent header.
const (
	UserAgent = "cushion-chttp"
	Version   = "0.4.0"
)

// Client is a connection handle to a CouchDB server. It embeds an
// *http.Client, which may be configured further after creation. A Client is
// safe for concurrent use.
type Client struct {
	*http.Client

	// UserAgents is appended to the default User-Agent header. It should
	// contain pairs of product name and version.
	UserAgents []string

	// Retries is the number of times a replayable request is retried after
	// a network failure. Zero, the default, disables retries.
	Retries int

	rawDSN   string
	dsn      *url.URL
	basePath string
	auth     Authenticator
	authMU   sync.Mutex
}

// New returns a connection handle to the CouchDB server at dsn, issuing
// requests through client. If the DSN contains credentials, the connection
// authenticates with a session cookie; to use a different mechanism, omit
// the credentials and call Auth before the first request.
func New(client *http.Client, dsn string) (*Client, error) {
	dsnURL, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	user := dsnURL.User
	dsnURL.User = nil
	c := &Client{
		Client:   client,
		rawDSN:   dsn,
		dsn:      dsnURL,
		basePath: strings.TrimSuffix(dsnURL.Path, "/"),
	}
	if user != nil {
		password, _ := user.Password()
		err := c.Auth(&CookieAuth{
			Username: user.Username(),
			Password: password,
		})
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func parseDSN(dsn string) (*url.URL, error) {
	if dsn == "" {
		return nil, errs.Status(http.StatusBadRequest, "chttp: no URL specified")
	}
	if !strings.HasPrefix(dsn, "http://") && !strings.HasPrefix(dsn, "https://") {
		dsn = "http://" + dsn
	}
	dsnURL, err := url.Parse(dsn)
	if err != nil {
		return nil, errs.WrapStatus(http.StatusBadRequest, err)
	}
	if dsnURL.Path == "" {
		dsnURL.Path = "/"
	}
	return dsnURL, nil
}

// DSN returns the unparsed DSN used to connect.
func (c *Client) DSN() string {
	return c.rawDSN
}

// Auth sets the authentication mechanism. It is an error to set more than
// one.
func (c *Client) Auth(a Authenticator) error {
	if c.auth != nil {
		return errs.Status(http.StatusBadRequest, "chttp: auth already set")
	}
	if err := a.Authenticate(c); err != nil {
		return err
	}
	c.auth = a
	return nil
}

func (c *Client) path(path string) string {
	if c.basePath != "" {
		return c.basePath + "/" + strings.TrimPrefix(path, "/")
	}
	return path
}

// NewRequest returns a new *http.Request to the CouchDB server at the
// specified path, which may include query parameters. Any host or schema in
// path is ignored.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullPath := c.path(path)
	reqPath, err := url.Parse(fullPath)
	if err != nil {
		return nil, errs.WrapStatus(http.StatusBadRequest, err)
	}
	u := *c.dsn // shallow copy
	u.Path = reqPath.Path
	u.RawQuery = reqPath.RawQuery
	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, errs.WrapStatus(http.StatusBadRequest, err)
	}
	// Keep percent-escaped document IDs intact in the request path.
	req.URL.RawPath = "/" + strings.TrimPrefix(strings.SplitN(fullPath, "?", 2)[0], "/")
	req.Header.Set("User-Agent", c.userAgent())
	return req.WithContext(ctx), nil
}

// DoReq issues an HTTP request. An error is returned only if the request
// could not be carried out; an error status code, such as 400 or 500, does
// not cause an error. Use ResponseError, or one of the wrappers DoError and
// DoJSON, to classify the response status.
func (c *Client) DoReq(ctx context.Context, method, path string, opts *Options) (*http.Response, error) {
	if method == "" {
		return nil, errs.Status(http.StatusBadRequest, "chttp: method required")
	}
	var body io.Reader
	if opts != nil {
		if opts.JSON != nil && opts.GetBody == nil {
			opts.GetBody = BodyEncoder(opts.JSON)
		}
		if opts.GetBody != nil {
			var err error
			opts.Body, err = opts.GetBody()
			if err != nil {
				return nil, err
			}
		}
		if opts.Body != nil {
			body = opts.Body
			defer opts.Body.Close() // nolint: errcheck
		}
	}
	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	setHeaders(req, opts)
	setQuery(req, opts)
	if opts != nil {
		req.GetBody = opts.GetBody
	}
	response, err := c.do(req)
	return response, netError(err)
}

// netError wraps transport-level failures with a Bad Gateway status, so
// that they remain distinguishable from protocol errors reported by the
// server itself.
func netError(err error) error {
	if err == nil {
		return nil
	}
	if urlErr, ok := err.(*url.Error); ok {
		// An error generated while encoding the request body may carry its
		// own status, which takes precedence.
		if status := errs.StatusCode(urlErr.Err); status != http.StatusInternalServerError {
			return errs.WrapStatus(status, err)
		}
	}
	if status := errs.StatusCode(err); status != http.StatusInternalServerError {
		return err
	}
	return errs.WrapStatus(http.StatusBadGateway, err)
}

// DoError is the same as DoReq, followed by checking the response status.
// It is meant for cases where the only information needed from the response
// is the status code and headers. It unconditionally consumes the response
// body.
func (c *Client) DoError(ctx context.Context, method, path string, opts *Options) (*http.Response, error) {
	res, err := c.DoReq(ctx, method, path, opts)
	if err != nil {
		return res, err
	}
	if res.Body != nil {
		defer CloseBody(res.Body)
	}
	err = ResponseError(res)
	return res, err
}

// DoJSON combines DoReq, ResponseError, and DecodeJSON, closing the
// response body.
func (c *Client) DoJSON(ctx context.Context, method, path string, opts *Options, i interface{}) error {
	res, err := c.DoReq(ctx, method, path, opts)
	if err != nil {
		return err
	}
	if res.Body != nil {
		defer CloseBody(res.Body)
	}
	if err = ResponseError(res); err != nil {
		return err
	}
	return DecodeJSON(res, i)
}

// DecodeJSON unmarshals the response body into i, consuming and closing the
// body. A malformed body is reported with a Bad Gateway status.
func DecodeJSON(r *http.Response, i interface{}) error {
	defer CloseBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(i); err != nil {
		return errs.WrapStatus(http.StatusBadGateway, err)
	}
	return nil
}

// CloseBody drains and closes a response body, so that the underlying
// connection can be reused.
func CloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096)) // nolint:gomnd
	_ = body.Close()
}

func setHeaders(req *http.Request, opts *Options) {
	accept := typeJSON
	contentType := typeJSON
	if opts != nil {
		if opts.Accept != "" {
			accept = opts.Accept
		}
		if opts.ContentType != "" {
			contentType = opts.ContentType
		}
		if opts.IfNoneMatch != "" {
			inm := `"` + strings.Trim(opts.IfNoneMatch, `"`) + `"`
			req.Header.Set("If-None-Match", inm)
		}
		if opts.Destination != "" {
			req.Header.Set("Destination", opts.Destination)
		}
		for k, v := range opts.Header {
			if _, ok := req.Header[k]; !ok {
				req.Header[k] = v
			}
		}
	}
	req.Header.Add("Accept", accept)
	req.Header.Add("Content-Type", contentType)
}

func setQuery(req *http.Request, opts *Options) {
	if opts == nil || len(opts.Query) == 0 {
		return
	}
	if req.URL.RawQuery == "" {
		req.URL.RawQuery = opts.Query.Encode()
		return
	}
	req.URL.RawQuery = req.URL.RawQuery + "&" + opts.Query.Encode()
}

// ETag returns the unquoted ETag header value, and a bool indicating
// whether it was present.
func ETag(resp *http.Response) (string, bool) {
	if resp == nil {
		return "", false
	}
	etag, ok := resp.Header["Etag"]
	if !ok {
		etag, ok = resp.Header["ETag"] // nolint: staticcheck
	}
	if !ok || len(etag) == 0 {
		return "", false
	}
	return strings.Trim(etag[0], `"`), true
}

func (c *Client) userAgent() string {
	ua := fmt.Sprintf("%s/%s (Language=%s; Platform=%s/%s)",
		UserAgent, Version, runtime.Version(), runtime.GOARCH, runtime.GOOS)
	return strings.Join(append([]string{ua}, c.UserAgents...), " ")
}
