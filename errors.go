package cushion

import (
	"net/http"

	"github.com/cushion-db/cushion/chttp"
	"github.com/cushion-db/cushion/errs"
)

func missingArg(arg string) error {
	return errs.Statusf(http.StatusBadRequest, "cushion: %s required", arg)
}

// IsNotFound reports whether err is the result of a 404 Not Found response,
// such as fetching a document that does not exist.
func IsNotFound(err error) bool {
	return errs.StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether err is the result of a 409 Conflict response:
// a named document already exists, or a mutation carried a stale revision.
// Conflicts are recoverable; fetch the current revision and retry.
func IsConflict(err error) bool {
	return errs.StatusCode(err) == http.StatusConflict
}

// Reason returns the reason string the server attached to the error
// response behind err, or "" if err did not originate from a CouchDB error
// body.
func Reason(err error) string {
	if httpErr, ok := errs.Cause(err).(*chttp.HTTPError); ok {
		return httpErr.Reason
	}
	return ""
}
