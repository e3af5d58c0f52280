package cushion

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cushion-db/cushion/errs"
)

// Row is a single row of a view or _all_docs result. Key, Value, and Doc
// are left raw; use the Scan methods to decode them.
type Row struct {
	ID    string          `json:"id"`
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
	Doc   json.RawMessage `json:"doc"`
}

// ScanKey decodes the row's key into dest.
func (r *Row) ScanKey(dest interface{}) error {
	return scanRaw(r.Key, dest)
}

// ScanValue decodes the row's value into dest.
func (r *Row) ScanValue(dest interface{}) error {
	return scanRaw(r.Value, dest)
}

// ScanDoc decodes the row's document into dest. The document is present
// only when the query was sent with include_docs=true.
func (r *Row) ScanDoc(dest interface{}) error {
	return scanRaw(r.Doc, dest)
}

func scanRaw(raw json.RawMessage, dest interface{}) error {
	if raw == nil {
		return errs.Status(http.StatusBadGateway, "cushion: field not present in row")
	}
	return errs.WrapStatus(http.StatusBadGateway, json.Unmarshal(raw, dest))
}

// Rows streams the rows of a view result as they arrive from the server.
// Call Next until it returns io.EOF, then Close. Any other error from Next
// means the result could not be parsed, and terminates iteration.
type Rows struct {
	offset    int64
	totalRows int64
	updateSeq string
	warning   string

	body   io.ReadCloser
	dec    *json.Decoder
	closed bool
}

func newRows(body io.ReadCloser) *Rows {
	return &Rows{body: body}
}

// Next decodes the next row of the result into row. It returns io.EOF after
// the final row has been consumed.
func (r *Rows) Next(row *Row) error {
	if r.closed {
		return io.EOF
	}
	if r.dec == nil {
		r.dec = json.NewDecoder(r.body)
		if err := consumeDelim(r.dec, json.Delim('{')); err != nil {
			return err
		}
		if err := r.begin(); err != nil {
			return err
		}
	}
	if r.dec.More() {
		return errs.WrapStatus(http.StatusBadGateway, r.dec.Decode(row))
	}
	if err := consumeDelim(r.dec, json.Delim(']')); err != nil {
		return err
	}
	r.closed = true
	if err := r.finish(); err != nil {
		return err
	}
	return io.EOF
}

// begin consumes the top level of the result object up to the opening of
// the rows array, collecting any metadata seen on the way.
func (r *Rows) begin() error {
	for {
		t, err := r.dec.Token()
		if err != nil {
			return errs.WrapStatus(http.StatusBadGateway, err)
		}
		key, ok := t.(string)
		if !ok {
			return errs.Statusf(http.StatusBadGateway, "cushion: unexpected token %v in result", t)
		}
		if key == "rows" {
			return consumeDelim(r.dec, json.Delim('['))
		}
		if err := r.parseMeta(key); err != nil {
			return err
		}
	}
}

// finish consumes metadata keys that trail the rows array.
func (r *Rows) finish() error {
	for {
		t, err := r.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errs.WrapStatus(http.StatusBadGateway, err)
		}
		switch v := t.(type) {
		case json.Delim:
			// the closing brace of the result object
		case string:
			if err := r.parseMeta(v); err != nil {
				return err
			}
		}
	}
}

func (r *Rows) parseMeta(key string) error {
	var err error
	switch key {
	case "offset":
		err = r.dec.Decode(&r.offset)
	case "total_rows":
		err = r.dec.Decode(&r.totalRows)
	case "warning":
		err = r.dec.Decode(&r.warning)
	case "update_seq":
		// update_seq may be a number or an opaque string, depending on the
		// server version.
		var raw json.RawMessage
		if err = r.dec.Decode(&raw); err == nil {
			r.updateSeq = string(bytes.Trim(raw, `"`))
		}
	default:
		var skip json.RawMessage
		err = r.dec.Decode(&skip)
	}
	return errs.WrapStatus(http.StatusBadGateway, err)
}

func consumeDelim(dec *json.Decoder, expected json.Delim) error {
	t, err := dec.Token()
	if err != nil {
		return errs.WrapStatus(http.StatusBadGateway, err)
	}
	if d, ok := t.(json.Delim); !ok || d != expected {
		return errs.Statusf(http.StatusBadGateway, "cushion: expected %q in result, found %v", expected, t)
	}
	return nil
}

// Offset returns the offset of the first row in the result.
func (r *Rows) Offset() int64 {
	return r.offset
}

// TotalRows returns the total number of rows in the view.
func (r *Rows) TotalRows() int64 {
	return r.totalRows
}

// Warning returns the warning attached to the result, if any.
func (r *Rows) Warning() string {
	return r.warning
}

// UpdateSeq returns the result's update sequence, if requested.
func (r *Rows) UpdateSeq() string {
	return r.updateSeq
}

// Close discards any remaining rows and releases the connection.
func (r *Rows) Close() error {
	r.closed = true
	return r.body.Close()
}
