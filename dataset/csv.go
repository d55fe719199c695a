package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/hupe1980/gridkit/row"
)

func decodeCSV(r io.Reader) ([]row.Row, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []row.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: csv header: %w", err)
	}
	header = append([]string(nil), header...)
	cr.FieldsPerRecord = len(header)

	rows := []row.Row{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: csv: %w", err)
		}
		rw := make(row.Row, len(header))
		for i, name := range header {
			rw[name] = parseCell(rec[i])
		}
		rows = append(rows, rw)
	}
	return rows, nil
}

// parseCell types a CSV cell: empty is null, true/false are booleans and
// anything that parses as a float is a number.
func parseCell(s string) row.Value {
	switch s {
	case "":
		return row.Null()
	case "true":
		return row.Bool(true)
	case "false":
		return row.Bool(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return row.Number(f)
	}
	return row.String(s)
}

func encodeCSV(w io.Writer, rows []row.Row, o options) error {
	header := o.columns
	if len(header) == 0 {
		header = fieldNames(rows)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for _, r := range rows {
		for i, name := range header {
			rec[i] = r.Get(name).Text()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// fieldNames returns the sorted union of all field names.
func fieldNames(rows []row.Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
