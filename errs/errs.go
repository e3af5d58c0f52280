// Package errs attaches HTTP status codes to errors, so that callers can
// classify CouchDB outcomes without matching on message text.
package errs

import (
	"net/http"

	"github.com/pkg/errors"
)

// StatusCoder is implemented by errors that carry an embedded HTTP status
// code.
type StatusCoder interface {
	StatusCode() int
}

type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }

// StatusCode returns the error's embedded HTTP status code.
func (e *statusError) StatusCode() int { return e.status }

// Cause satisfies the pkg/errors causer interface.
func (e *statusError) Cause() error { return e.err }

// Status returns a new error with an embedded HTTP status code.
func Status(status int, msg string) error {
	return &statusError{status: status, err: errors.New(msg)}
}

// Statusf returns a new formatted error with an embedded HTTP status code.
func Statusf(status int, format string, args ...interface{}) error {
	return &statusError{status: status, err: errors.Errorf(format, args...)}
}

// WrapStatus bundles an existing error with an HTTP status code. A nil err
// returns nil.
func WrapStatus(status int, err error) error {
	if err == nil {
		return nil
	}
	return &statusError{status: status, err: err}
}

// StatusCode extracts the embedded HTTP status code from an error, walking
// the cause chain if necessary. It returns 0 for nil, and 500 for errors
// that carry no status of their own.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	for err != nil {
		if coder, ok := err.(StatusCoder); ok {
			return coder.StatusCode()
		}
		causer, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = causer.Cause()
	}
	return http.StatusInternalServerError
}

// Cause is a wrapper around pkg/errors.Cause.
func Cause(err error) error {
	return errors.Cause(err)
}

// Wrap is a wrapper around pkg/errors.Wrap. The wrapped error keeps the
// status code of err.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return WrapStatus(StatusCode(err), errors.Wrap(err, msg))
}

// Wrapf is a wrapper around pkg/errors.Wrapf. The wrapped error keeps the
// status code of err.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return WrapStatus(StatusCode(err), errors.Wrapf(err, format, args...))
}
