package cushion

import (
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gitlab.com/flimzy/testy"
)

func TestRowsMetadata(t *testing.T) {
	rows := newRows(Body(`{
		"total_rows": 42,
		"offset": 7,
		"update_seq": 99,
		"rows": [
			{"id":"a","key":"a","value":null}
		],
		"warning": "no matching index found"
	}`))
	var count int
	for {
		var row Row
		if err := rows.Next(&row); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatal(err)
		}
		count++
	}
	if count != 1 {
		t.Errorf("Unexpected row count: %d", count)
	}
	if rows.TotalRows() != 42 {
		t.Errorf("Unexpected total rows: %d", rows.TotalRows())
	}
	if rows.Offset() != 7 {
		t.Errorf("Unexpected offset: %d", rows.Offset())
	}
	if rows.UpdateSeq() != "99" {
		t.Errorf("Unexpected update seq: %s", rows.UpdateSeq())
	}
	if rows.Warning() != "no matching index found" {
		t.Errorf("Unexpected warning: %s", rows.Warning())
	}
}

func TestRowsStringUpdateSeq(t *testing.T) {
	rows := newRows(Body(`{"update_seq":"5-g1AAAA","rows":[]}`))
	var row Row
	if err := rows.Next(&row); err != io.EOF {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rows.UpdateSeq() != "5-g1AAAA" {
		t.Errorf("Unexpected update seq: %s", rows.UpdateSeq())
	}
}

func TestRowsUnknownMetaSkipped(t *testing.T) {
	rows := newRows(Body(`{"bookmark":"g1AAAA","rows":[{"id":"a","key":"a","value":1}]}`))
	var row Row
	if err := rows.Next(&row); err != nil {
		t.Fatal(err)
	}
	if row.ID != "a" {
		t.Errorf("Unexpected row id: %s", row.ID)
	}
}

func TestRowsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		err    string
	}{
		{
			name:   "not an object",
			body:   `[]`,
			status: http.StatusBadGateway,
			err:    `cushion: expected '{' in result, found \[`,
		},
		{
			name:   "truncated",
			body:   `{"rows":[{"id":"a"`,
			status: http.StatusBadGateway,
			err:    "unexpected EOF",
		},
		{
			name:   "rows not an array",
			body:   `{"rows":{}}`,
			status: http.StatusBadGateway,
			err:    `cushion: expected '\[' in result, found {`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rows := newRows(Body(test.body))
			var row Row
			var err error
			for err == nil {
				err = rows.Next(&row)
			}
			if err == io.EOF {
				err = nil
			}
			testy.StatusErrorRE(t, test.err, test.status, err)
		})
	}
}

func TestRowsAfterClose(t *testing.T) {
	rows := newRows(Body(`{"rows":[{"id":"a","key":"a","value":1}]}`))
	if err := rows.Close(); err != nil {
		t.Fatal(err)
	}
	var row Row
	if err := rows.Next(&row); err != io.EOF {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRowScanMissingField(t *testing.T) {
	row := &Row{}
	var dest interface{}
	err := row.ScanValue(&dest)
	testy.StatusError(t, "cushion: field not present in row", http.StatusBadGateway, err)
}

func TestRowScanDoc(t *testing.T) {
	rows := newRows(Body(`{"rows":[{"id":"a","key":"a","value":null,"doc":{"_id":"a","_rev":"1-x","artist":"Pixies"}}]}`))
	var row Row
	if err := rows.Next(&row); err != nil {
		t.Fatal(err)
	}
	var doc testAlbum
	if err := row.ScanDoc(&doc); err != nil {
		t.Fatal(err)
	}
	expected := testAlbum{
		Document: Document{ID: "a", Rev: "1-x"},
		Artist:   "Pixies",
	}
	if d := cmp.Diff(expected, doc); d != "" {
		t.Error(d)
	}
}
