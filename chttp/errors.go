package chttp

import (
	"encoding/json"
	"mime"
	"net/http"
)

// HTTPError is an error response from the CouchDB server. Name and Reason
// hold the error and reason fields of the JSON error body, when the server
// supplied one.
type HTTPError struct {
	// Code is the HTTP status code of the response.
	Code int `json:"-"`

	// Name is the short-form error name reported by the server, such as
	// "conflict" or "not_found".
	Name string `json:"error"`

	// Reason is the server-supplied explanation of the error.
	Reason string `json:"reason"`
}

func (e *HTTPError) Error() string {
	if e.Reason == "" {
		return http.StatusText(e.Code)
	}
	if statusText := http.StatusText(e.Code); statusText != "" {
		return statusText + ": " + e.Reason
	}
	return e.Reason
}

// StatusCode returns the embedded HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// ResponseError converts an error response (status 400 or above) into an
// *HTTPError, consuming the response body. It returns nil for any lower
// status.
func ResponseError(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	if resp.Body != nil {
		defer CloseBody(resp.Body)
	}
	httpErr := &HTTPError{}
	if resp.Request == nil || resp.Request.Method != http.MethodHead {
		if resp.ContentLength != 0 {
			if ct, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); ct == typeJSON {
				_ = json.NewDecoder(resp.Body).Decode(httpErr)
			}
		}
	}
	httpErr.Code = resp.StatusCode
	return httpErr
}
