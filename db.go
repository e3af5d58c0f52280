package cushion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cushion-db/cushion/chttp"
	"github.com/cushion-db/cushion/errs"
)

// DB is a handle to a database. It holds no state beyond the name.
type DB struct {
	client *Client
	name   string
}

// Name returns the database name.
func (d *DB) Name() string {
	return d.name
}

func (d *DB) path(path string, query url.Values) string {
	p := url.PathEscape(d.name)
	if path != "" {
		p += "/" + strings.TrimPrefix(path, "/")
	}
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return p
}

type writeResult struct {
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// Put creates the document with the given ID, or updates it if the body
// carries the current revision (via an embedded Document or a _rev key).
// It returns the document's new revision. If the document already exists
// under a different revision, the server responds 409, returned as an error
// satisfying IsConflict; the server's explanation is available through
// Reason.
func (d *DB) Put(ctx context.Context, docID string, doc interface{}) (string, error) {
	if docID == "" {
		return "", missingArg("docID")
	}
	opts := &chttp.Options{GetBody: chttp.BodyEncoder(doc)}
	var result writeResult
	err := d.client.DoJSON(ctx, http.MethodPut, d.path(chttp.EncodeDocID(docID), nil), opts, &result)
	if err != nil {
		return "", err
	}
	return result.Rev, nil
}

// CreateDoc adds doc to the database, letting the server assign the ID. It
// returns the new document's ID and revision.
func (d *DB) CreateDoc(ctx context.Context, doc interface{}) (id, rev string, err error) {
	opts := &chttp.Options{GetBody: chttp.BodyEncoder(doc)}
	var result writeResult
	if err := d.client.DoJSON(ctx, http.MethodPost, d.path("", nil), opts, &result); err != nil {
		return "", "", err
	}
	return result.ID, result.Rev, nil
}

// Update replaces the document body under the optimistic-concurrency
// protocol: doc is marshaled with _id and _rev merged in alongside its
// fields, and rev must be the document's current revision. A stale revision
// yields a conflict error (IsConflict) and no change is applied; fetch the
// current revision and retry. On success the new revision is returned.
func (d *DB) Update(ctx context.Context, docID, rev string, doc interface{}) (string, error) {
	if docID == "" {
		return "", missingArg("docID")
	}
	if rev == "" {
		return "", missingArg("rev")
	}
	body, err := mergeIDRev(doc, docID, rev)
	if err != nil {
		return "", err
	}
	return d.Put(ctx, docID, body)
}

// mergeIDRev marshals doc and injects _id and _rev alongside its fields.
func mergeIDRev(doc interface{}, docID, rev string) (json.RawMessage, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errs.WrapStatus(http.StatusBadRequest, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errs.Statusf(http.StatusBadRequest, "cushion: document of type %T is not a JSON object", doc)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 2)
	}
	fields["_id"], _ = json.Marshal(docID)
	fields["_rev"], _ = json.Marshal(rev)
	merged, _ := json.Marshal(fields)
	return merged, nil
}

// Delete marks the document as deleted. As with Update, rev must be the
// document's current revision, and a stale revision yields a conflict
// error. It returns the revision of the tombstone.
func (d *DB) Delete(ctx context.Context, docID, rev string) (string, error) {
	if docID == "" {
		return "", missingArg("docID")
	}
	if rev == "" {
		return "", missingArg("rev")
	}
	query := url.Values{"rev": []string{rev}}
	var result writeResult
	err := d.client.DoJSON(ctx, http.MethodDelete, d.path(chttp.EncodeDocID(docID), query), nil, &result)
	if err != nil {
		return "", err
	}
	return result.Rev, nil
}

// Get fetches the document into dest, returning its current revision. To
// receive the _id and _rev fields, embed a Document in dest's type. A
// missing document is reported with an error satisfying IsNotFound; a body
// that cannot be decoded into dest is reported with a Bad Gateway status.
func (d *DB) Get(ctx context.Context, docID string, dest interface{}) (string, error) {
	if docID == "" {
		return "", missingArg("docID")
	}
	resp, err := d.client.DoReq(ctx, http.MethodGet, d.path(chttp.EncodeDocID(docID), nil), nil)
	if err != nil {
		return "", err
	}
	if err := chttp.ResponseError(resp); err != nil {
		return "", err
	}
	defer chttp.CloseBody(resp.Body)
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.WrapStatus(http.StatusBadGateway, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return "", errs.WrapStatus(http.StatusBadGateway, err)
	}
	if rev, ok := chttp.ETag(resp); ok {
		return rev, nil
	}
	// Some proxied responses omit the ETag header; fall back to the body.
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", errs.WrapStatus(http.StatusBadGateway, err)
	}
	return doc.Rev, nil
}

// Rev returns the document's current revision without fetching its body.
func (d *DB) Rev(ctx context.Context, docID string) (string, error) {
	if docID == "" {
		return "", missingArg("docID")
	}
	resp, err := d.client.DoError(ctx, http.MethodHead, d.path(chttp.EncodeDocID(docID), nil), nil)
	if err != nil {
		return "", err
	}
	rev, ok := chttp.ETag(resp)
	if !ok {
		return "", errs.Status(http.StatusBadGateway, "cushion: server did not report a document revision")
	}
	return rev, nil
}

// Exists reports whether the document exists, without fetching it.
func (d *DB) Exists(ctx context.Context, docID string) (bool, error) {
	if docID == "" {
		return false, missingArg("docID")
	}
	_, err := d.client.DoError(ctx, http.MethodHead, d.path(chttp.EncodeDocID(docID), nil), nil)
	if IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// Copy duplicates sourceID to targetID server-side, returning the target's
// new revision.
func (d *DB) Copy(ctx context.Context, targetID, sourceID string) (string, error) {
	if targetID == "" {
		return "", missingArg("targetID")
	}
	if sourceID == "" {
		return "", missingArg("sourceID")
	}
	opts := &chttp.Options{Destination: targetID}
	var result writeResult
	err := d.client.DoJSON(ctx, "COPY", d.path(chttp.EncodeDocID(sourceID), nil), opts, &result)
	if err != nil {
		return "", err
	}
	return result.Rev, nil
}

// Compact triggers compaction of the database. Compaction runs in the
// background; the call returns as soon as the server has accepted it.
func (d *DB) Compact(ctx context.Context) error {
	_, err := d.client.DoError(ctx, http.MethodPost, d.path("_compact", nil), nil)
	return err
}
