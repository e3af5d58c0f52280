package cushion

import (
	"context"
	"io"
	"strings"
)

// AllDocs returns a row for every document in the database, in key order.
func (d *DB) AllDocs(ctx context.Context, params Params) (*Rows, error) {
	return d.rowsQuery(ctx, "_all_docs", params)
}

// AllDocIDs returns the IDs of all regular documents in the database, in
// key order. Design documents and other reserved IDs, which start with an
// underscore, are skipped.
func (d *DB) AllDocIDs(ctx context.Context) ([]string, error) {
	rows, err := d.AllDocs(ctx, nil)
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
		var key string
		if err := row.ScanKey(&key); err != nil {
			return nil, err
		}
		if strings.HasPrefix(key, "_") {
			continue
		}
		ids = append(ids, key)
	}
}
