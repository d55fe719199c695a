package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	pqcompress "github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/gridkit/row"
)

func decodeArrow(r io.Reader) ([]row.Row, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("dataset: arrow: %w", err)
	}
	defer rdr.Release()

	rows := []row.Row{}
	for rdr.Next() {
		rows = appendRecord(rows, rdr.Record())
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("dataset: arrow: %w", err)
	}
	return rows, nil
}

func decodeParquet(ctx context.Context, data []byte) ([]row.Row, error) {
	pf, err := file.NewParquetReader(bytes.NewReader(data), file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("dataset: parquet: %w", err)
	}
	defer func() { _ = pf.Close() }()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("dataset: parquet: %w", err)
	}

	table, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataset: parquet: %w", err)
	}
	defer table.Release()

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	rows := make([]row.Row, 0, table.NumRows())
	for tr.Next() {
		rows = appendRecord(rows, tr.Record())
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("dataset: parquet: %w", err)
	}
	return rows, nil
}

func appendRecord(rows []row.Row, rec arrow.Record) []row.Row {
	schema := rec.Schema()
	n := int(rec.NumRows())
	for i := 0; i < n; i++ {
		r := make(row.Row, rec.NumCols())
		for c, col := range rec.Columns() {
			r[schema.Field(c).Name] = arrowValue(col, i)
		}
		rows = append(rows, r)
	}
	return rows
}

// arrowValue converts one cell. Dates and timestamps become ISO-8601
// strings; nested types round-trip through their JSON form.
func arrowValue(col arrow.Array, i int) row.Value {
	if col.IsNull(i) {
		return row.Null()
	}

	switch a := col.(type) {
	case *array.String:
		return row.String(a.Value(i))
	case *array.LargeString:
		return row.String(a.Value(i))
	case *array.Binary:
		return row.String(string(a.Value(i)))
	case *array.Boolean:
		return row.Bool(a.Value(i))
	case *array.Int8:
		return row.Number(float64(a.Value(i)))
	case *array.Int16:
		return row.Number(float64(a.Value(i)))
	case *array.Int32:
		return row.Number(float64(a.Value(i)))
	case *array.Int64:
		return row.Number(float64(a.Value(i)))
	case *array.Uint8:
		return row.Number(float64(a.Value(i)))
	case *array.Uint16:
		return row.Number(float64(a.Value(i)))
	case *array.Uint32:
		return row.Number(float64(a.Value(i)))
	case *array.Uint64:
		return row.Number(float64(a.Value(i)))
	case *array.Float32:
		return row.Number(float64(a.Value(i)))
	case *array.Float64:
		return row.Number(a.Value(i))
	case *array.Date32:
		return row.String(a.Value(i).ToTime().Format("2006-01-02"))
	case *array.Date64:
		return row.String(a.Value(i).ToTime().Format("2006-01-02"))
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return row.String(a.Value(i).ToTime(unit).UTC().Format(time.RFC3339Nano))
	}

	b, err := gojson.Marshal(col.GetOneForMarshal(i))
	if err == nil {
		var v row.Value
		if err := gojson.Unmarshal(b, &v); err == nil {
			return v
		}
	}
	return row.String(col.ValueStr(i))
}

// inferSchema picks one Arrow type per field: float64 when every defined
// value is a number, bool when every defined value is a boolean and utf8
// otherwise.
func inferSchema(rows []row.Row, columns []string) *arrow.Schema {
	if len(columns) == 0 {
		columns = fieldNames(rows)
	}

	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		numbers, bools, defined := true, true, false
		for _, r := range rows {
			v := r.Get(name)
			if !v.IsDefined() || v.IsNull() {
				continue
			}
			defined = true
			numbers = numbers && v.Kind == row.KindNumber
			bools = bools && v.Kind == row.KindBool
		}

		var dt arrow.DataType = arrow.BinaryTypes.String
		switch {
		case defined && numbers:
			dt = arrow.PrimitiveTypes.Float64
		case defined && bools:
			dt = arrow.FixedWidthTypes.Boolean
		}
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func buildRecord(mem memory.Allocator, schema *arrow.Schema, rows []row.Row) arrow.Record {
	bldr := array.NewRecordBuilder(mem, schema)
	defer bldr.Release()

	for j, field := range schema.Fields() {
		switch b := bldr.Field(j).(type) {
		case *array.Float64Builder:
			for _, r := range rows {
				if f, ok := r.Get(field.Name).AsNumber(); ok {
					b.Append(f)
				} else {
					b.AppendNull()
				}
			}
		case *array.BooleanBuilder:
			for _, r := range rows {
				if v, ok := r.Get(field.Name).AsBool(); ok {
					b.Append(v)
				} else {
					b.AppendNull()
				}
			}
		case *array.StringBuilder:
			for _, r := range rows {
				v := r.Get(field.Name)
				if !v.IsDefined() || v.IsNull() {
					b.AppendNull()
				} else {
					b.Append(v.Text())
				}
			}
		}
	}
	return bldr.NewRecord()
}

func encodeArrow(w io.Writer, rows []row.Row, o options) error {
	mem := memory.NewGoAllocator()
	schema := inferSchema(rows, o.columns)

	rec := buildRecord(mem, schema, rows)
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return fmt.Errorf("dataset: arrow: %w", err)
	}
	return iw.Close()
}

// writerOnly hides Close so the parquet writer cannot close the
// compression stream underneath us.
type writerOnly struct{ io.Writer }

func encodeParquet(w io.Writer, rows []row.Row, o options) error {
	mem := memory.NewGoAllocator()
	schema := inferSchema(rows, o.columns)

	rec := buildRecord(mem, schema, rows)
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(pqcompress.Codecs.Zstd), parquet.WithAllocator(mem))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	fw, err := pqarrow.NewFileWriter(schema, writerOnly{w}, props, arrowProps)
	if err != nil {
		return fmt.Errorf("dataset: parquet: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("dataset: parquet: %w", err)
	}
	return fw.Close()
}
