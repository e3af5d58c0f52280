package cushion

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cushion-db/cushion/chttp"
	"github.com/cushion-db/cushion/errs"
)

// View holds the source of a map function and an optional reduce function.
type View struct {
	Map    string `json:"map"`
	Reduce string `json:"reduce,omitempty"`
}

// viewLanguage tags the scripting language of the map and reduce sources.
const viewLanguage = "javascript"

// designDoc is the wire format of a design document.
type designDoc struct {
	Language string          `json:"language"`
	Views    map[string]View `json:"views"`
}

// DefineViews creates the design document _design/{ddoc}, defining the
// given views. Defining views is one-time setup, not idempotent: if the
// design document already exists the server responds 409, returned as a
// conflict error. It returns the design document's revision.
func (d *DB) DefineViews(ctx context.Context, ddoc string, views map[string]View) (string, error) {
	if ddoc == "" {
		return "", missingArg("ddoc")
	}
	if len(views) == 0 {
		return "", missingArg("views")
	}
	return d.Put(ctx, "_design/"+ddoc, designDoc{
		Language: viewLanguage,
		Views:    views,
	})
}

// Query runs the named view and returns its rows.
func (d *DB) Query(ctx context.Context, ddoc, view string, params Params) (*Rows, error) {
	if ddoc == "" {
		return nil, missingArg("ddoc")
	}
	if view == "" {
		return nil, missingArg("view")
	}
	path := "_design/" + chttp.EncodeDocID(strings.TrimPrefix(ddoc, "_design/")) +
		"/_view/" + url.QueryEscape(view)
	return d.rowsQuery(ctx, path, params)
}

// QueryKeys runs the named view and returns only the document ID of each
// row, in view order.
func (d *DB) QueryKeys(ctx context.Context, ddoc, view string, params Params) ([]string, error) {
	rows, err := d.Query(ctx, ddoc, view, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint: errcheck
	var ids []string
	for {
		var row Row
		if err := rows.Next(&row); err != nil {
			if err == io.EOF {
				return ids, nil
			}
			return nil, err
		}
		if row.ID == "" {
			return nil, errs.Status(http.StatusBadGateway, "cushion: view row missing document id")
		}
		ids = append(ids, row.ID)
	}
}

func (d *DB) rowsQuery(ctx context.Context, path string, params Params) (*Rows, error) {
	query, err := params.encode()
	if err != nil {
		return nil, err
	}
	resp, err := d.client.DoReq(ctx, http.MethodGet, d.path(path, query), nil)
	if err != nil {
		return nil, err
	}
	if err := chttp.ResponseError(resp); err != nil {
		return nil, err
	}
	return newRows(resp.Body), nil
}
