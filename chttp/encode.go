package chttp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cushion-db/cushion/errs"
)

const (
	prefixDesign = "_design/"
	prefixLocal  = "_local/"
)

// EncodeDocID encodes a document ID according to CouchDB's path encoding
// rules: the '_design/' and '_local/' prefixes pass through unaltered, and
// the rest of the ID is query-URL encoded, despite being part of the path.
func EncodeDocID(docID string) string {
	for _, prefix := range []string{prefixDesign, prefixLocal} {
		if strings.HasPrefix(docID, prefix) {
			return prefix + url.QueryEscape(strings.TrimPrefix(docID, prefix))
		}
	}
	return url.QueryEscape(docID)
}

// BodyEncoder returns a replayable body source for i, suitable as a request
// GetBody value. Strings, []byte, and json.RawMessage pass through
// unaltered; any other type is JSON-marshaled. A marshaling error is
// reported by the returned function with a Bad Request status.
func BodyEncoder(i interface{}) func() (io.ReadCloser, error) {
	var data []byte
	var err error
	switch t := i.(type) {
	case []byte:
		data = t
	case json.RawMessage:
		data = t
	case string:
		data = []byte(t)
	default:
		data, err = json.Marshal(i)
		err = errs.WrapStatus(http.StatusBadRequest, err)
	}
	return func() (io.ReadCloser, error) {
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}
