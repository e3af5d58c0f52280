package cushion

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
	if req.Body != nil {
		defer req.Body.Close() // nolint: errcheck
		if _, err := io.ReadAll(req.Body); err != nil {
			return nil, err
		}
	}
	if t.err != nil {
		return nil, t.err
	}
	response := t.response
	response.Request = req
	return response, nil
}

type customTransport func(*http.Request) (*http.Response, error)

var _ http.RoundTripper = customTransport(nil)

func (c customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return c(req)
}

func newCustomClient(t *testing.T, fn func(*http.Request) (*http.Response, error)) *Client {
	t.Helper()
	client, err := New("http://example.com/", WithHTTPClient(&http.Client{
		Transport: customTransport(fn),
	}))
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func newTestClient(t *testing.T, response *http.Response, err error) *Client {
	t.Helper()
	client, e := New("http://example.com/", WithHTTPClient(&http.Client{
		Transport: &dummyTransport{response: response, err: err},
	}))
	if e != nil {
		t.Fatal(e)
	}
	return client
}

func newTestDB(t *testing.T, response *http.Response, err error) *DB {
	t.Helper()
	return newTestClient(t, response, err).DB("testdb")
}

func Body(str string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(str))
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        http.Header{"Content-Type": {"application/json"}},
		ContentLength: int64(len(body)),
		Body:          Body(body),
	}
}
