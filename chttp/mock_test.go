package chttp

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

type dummyTransport struct {
	response *http.Response
	err      error
}

var _ http.RoundTripper = &dummyTransport{}

func (t *dummyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.response != nil {
		t.response.Request = req
	}
	return t.response, t.err
}

type customTransport func(*http.Request) (*http.Response, error)

var _ http.RoundTripper = customTransport(nil)

func (t customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t(req)
}

func newTestClient(t *testing.T, response *http.Response, err error) *Client {
	t.Helper()
	tr := &dummyTransport{response: response, err: err}
	return newCustomClient(t, tr.RoundTrip)
}

func newCustomClient(t *testing.T, fn customTransport) *Client {
	t.Helper()
	client, err := New(&http.Client{Transport: fn}, "http://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	return client
}

// Body turns a string into an unbuffered response body.
func Body(str string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(str))
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		ContentLength: int64(len(body)),
		Body:          Body(body),
	}
}
