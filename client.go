package cushion

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cushion-db/cushion/errs"
)

// CreateDB creates the named database. The server responds 201 Created on
// success; any other status is returned as an error carrying the server's
// reason, including 412 Precondition Failed when the database already
// exists.
func (c *Client) CreateDB(ctx context.Context, dbName string) error {
	if dbName == "" {
		return missingArg("dbName")
	}
	_, err := c.DoError(ctx, http.MethodPut, url.PathEscape(dbName), nil)
	return err
}

// DestroyDB deletes the named database and everything in it. It reports
// true if the database existed and was deleted, and false with a nil error
// if it did not exist.
func (c *Client) DestroyDB(ctx context.Context, dbName string) (bool, error) {
	if dbName == "" {
		return false, missingArg("dbName")
	}
	_, err := c.DoError(ctx, http.MethodDelete, url.PathEscape(dbName), nil)
	if errs.StatusCode(err) == http.StatusNotFound {
		return false, nil
	}
	return err == nil, err
}

// DBExists reports whether the named database exists.
func (c *Client) DBExists(ctx context.Context, dbName string) (bool, error) {
	if dbName == "" {
		return false, missingArg("dbName")
	}
	_, err := c.DoError(ctx, http.MethodHead, url.PathEscape(dbName), nil)
	if errs.StatusCode(err) == http.StatusNotFound {
		return false, nil
	}
	return err == nil, err
}

// AllDBs returns the names of all databases on the server.
func (c *Client) AllDBs(ctx context.Context) ([]string, error) {
	var allDBs []string
	err := c.DoJSON(ctx, http.MethodGet, "/_all_dbs", nil, &allDBs)
	return allDBs, err
}

// Ping reports whether the server is up and ready to handle requests.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	_, err := c.DoError(ctx, http.MethodHead, "/_up", nil)
	switch errs.StatusCode(err) {
	case http.StatusNotFound, http.StatusServiceUnavailable:
		return false, nil
	}
	return err == nil, err
}

// ServerVersion holds the server's welcome metadata.
type ServerVersion struct {
	Version string `json:"version"`
	Vendor  struct {
		Name string `json:"name"`
	} `json:"vendor"`
}

// Version returns the version and vendor reported by the server.
func (c *Client) Version(ctx context.Context) (*ServerVersion, error) {
	version := new(ServerVersion)
	if err := c.DoJSON(ctx, http.MethodGet, "/", nil, version); err != nil {
		return nil, err
	}
	return version, nil
}
