package cushion

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cushion-db/cushion/errs"
)

// Params are query parameters for view and _all_docs requests, as described
// at http://docs.couchdb.org/en/stable/api/ddoc/views.html. Values of
// key-class parameters (key, keys, startkey, endkey, and variants) are
// JSON-encoded on the URL, as CouchDB requires; other values are rendered
// as plain strings, numbers, or booleans.
type Params map[string]interface{}

// jsonParams take JSON-encoded values.
var jsonParams = map[string]struct{}{
	"key":       {},
	"keys":      {},
	"startkey":  {},
	"start_key": {},
	"endkey":    {},
	"end_key":   {},
	"doc_ids":   {},
}

func (p Params) encode() (url.Values, error) {
	if len(p) == 0 {
		return nil, nil
	}
	values := make(url.Values, len(p))
	for param, v := range p {
		if _, ok := jsonParams[param]; ok {
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, errs.WrapStatus(http.StatusBadRequest, err)
			}
			values.Set(param, string(raw))
			continue
		}
		switch t := v.(type) {
		case string:
			values.Set(param, t)
		case bool:
			values.Set(param, strconv.FormatBool(t))
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			values.Set(param, fmt.Sprintf("%d", t))
		case float32, float64:
			values.Set(param, fmt.Sprintf("%v", t))
		default:
			return nil, errs.Statusf(http.StatusBadRequest, "cushion: invalid type %T for parameter %q", v, param)
		}
	}
	return values, nil
}
