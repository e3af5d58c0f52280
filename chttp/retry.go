package chttp

import (
	"net/http"

	"github.com/cenkalti/backoff/v4"
)

// do dispatches the request, retrying replayable requests after network
// failures when the client is configured with Retries. Error status codes
// from the server are never retried; classifying those is the caller's
// concern.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.Retries <= 0 || !replayable(req) {
		return c.Do(req)
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.Retries)),
		req.Context(),
	)
	var res *http.Response
	err := backoff.Retry(func() error {
		if req.Body != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			req.Body = body
		}
		var err error
		res, err = c.Do(req)
		return err
	}, bo)
	return res, err
}

// replayable reports whether the request body can be regenerated for
// another attempt.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.GetBody != nil
}
