package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/gridkit/codec"
	"github.com/hupe1980/gridkit/row"
)

const maxLineSize = 16 << 20

func decodeJSON(r io.Reader, o options) ([]row.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []row.Row{}, nil
	}
	var rows []row.Row
	if err := o.codec.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("dataset: json: %w", err)
	}
	return rows, nil
}

func decodeNDJSON(r io.Reader, o options) ([]row.Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	rows := []row.Row{}
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var rw row.Row
		if err := o.codec.Unmarshal(b, &rw); err != nil {
			return nil, fmt.Errorf("dataset: ndjson line %d: %w", line, err)
		}
		rows = append(rows, rw)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func encodeJSON(w io.Writer, rows []row.Row, o options) error {
	data, err := o.codec.Marshal(project(rows, o.columns))
	if err != nil {
		return fmt.Errorf("dataset: json: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func encodeNDJSON(w io.Writer, rows []row.Row, o options) error {
	bw := bufio.NewWriter(w)
	enc := codec.NewEncoder(o.codec, bw)
	for _, r := range project(rows, o.columns) {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("dataset: ndjson: %w", err)
		}
	}
	return bw.Flush()
}

// project keeps only columns, or returns rows unchanged when columns is empty.
func project(rows []row.Row, columns []string) []row.Row {
	if len(columns) == 0 {
		return rows
	}
	out := make([]row.Row, len(rows))
	for i, r := range rows {
		p := make(row.Row, len(columns))
		for _, c := range columns {
			if v, ok := r[c]; ok {
				p[c] = v
			}
		}
		out[i] = p
	}
	return out
}
