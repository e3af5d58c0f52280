package chttp

import (
	"io"
	"net/http"
	"net/url"
)

// Options are optional parameters which may be sent with a request.
type Options struct {
	// Accept sets the request's Accept header. Defaults to
	// "application/json". To accept anything, use "*/*".
	Accept string

	// ContentType sets the request's Content-Type header. Defaults to
	// "application/json".
	ContentType string

	// Body sets the body of the request.
	Body io.ReadCloser

	// GetBody is a function to produce the body, and is consulted again on
	// retries. If set, Body is ignored.
	GetBody func() (io.ReadCloser, error)

	// JSON is an arbitrary value to be marshaled to the request body. It is
	// ignored if Body or GetBody is set.
	JSON interface{}

	// IfNoneMatch adds the If-None-Match header. The value is quoted if it
	// is not already.
	IfNoneMatch string

	// Destination adds the Destination header, used by the COPY method.
	Destination string

	// Query is appended to the existing URL query, if present. No merging
	// takes place.
	Query url.Values

	// Header holds additional headers to be set on the request. Headers the
	// request already carries win.
	Header http.Header
}
