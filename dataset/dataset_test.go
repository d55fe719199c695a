package dataset

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridkit/blobstore"
	"github.com/hupe1980/gridkit/row"
)

func sampleRows() []row.Row {
	return []row.Row{
		{"id": row.Int(1), "name": row.String("Alice"), "amount": row.Number(3.5), "active": row.Bool(true)},
		{"id": row.Int(2), "name": row.String("Bob"), "active": row.Bool(false)},
	}
}

func missing(v row.Value) bool {
	return !v.IsDefined() || v.IsNull()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		f    Format
		c    Compression
	}{
		{"orders.json", FormatJSON, CompressionNone},
		{"data/orders.NDJSON", FormatNDJSON, CompressionNone},
		{"orders.jsonl.zst", FormatNDJSON, CompressionZstd},
		{"orders.csv.lz4", FormatCSV, CompressionLZ4},
		{"orders.arrow", FormatArrow, CompressionNone},
		{"orders.parquet", FormatParquet, CompressionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, c, err := Detect(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.f, f)
			assert.Equal(t, tt.c, c)
		})
	}

	_, _, err := Detect("orders.xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormatAndCompression(t *testing.T) {
	f, err := ParseFormat("Parquet")
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	c, err := ParseCompression("zst")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)

	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	names := []string{
		"rows.json",
		"rows.ndjson.zst",
		"rows.csv.lz4",
		"rows.arrow",
		"rows.parquet",
		"rows.parquet.zst",
	}

	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Write(ctx, store, name, sampleRows()))

			rows, info, err := Read(ctx, store, name)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, 2, info.Rows)
			assert.Positive(t, info.Bytes)

			assert.Equal(t, "Alice", rows[0]["name"].Str)
			assert.Equal(t, 3.5, rows[0]["amount"].Num)
			assert.True(t, rows[0]["active"].B)
			assert.Equal(t, 2.0, rows[1]["id"].Num)
			assert.False(t, rows[1]["active"].B)
			assert.True(t, missing(rows[1].Get("amount")))
		})
	}
}

func TestEncodeDecode_ExplicitFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRows(), WithFormat(FormatNDJSON), WithCompression(CompressionZstd)))

	rows, err := Decode(&buf, WithFormat(FormatNDJSON), WithCompression(CompressionZstd))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = Decode(&buf)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, Encode(&buf, nil), ErrUnknownFormat)
}

func TestEncode_WithColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRows(), WithFormat(FormatCSV), WithColumns("name", "amount")))
	assert.Equal(t, "name,amount\nAlice,3.5\nBob,\n", buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, sampleRows(), WithFormat(FormatNDJSON), WithColumns("id")))
	assert.Equal(t, "{\"id\":1}\n{\"id\":2}\n", buf.String())
}

func TestDecodeCSV_Typing(t *testing.T) {
	input := "id,name,active,note\n1,Alice,true,\n2.5,007x,false,hi\n"
	rows, err := Decode(bytes.NewBufferString(input), WithFormat(FormatCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, row.Number(1), rows[0]["id"])
	assert.Equal(t, row.Bool(true), rows[0]["active"])
	assert.True(t, rows[0]["note"].IsNull())
	assert.Equal(t, row.String("007x"), rows[1]["name"])
	assert.Equal(t, row.Number(2.5), rows[1]["id"])
}

func TestDecode_Empty(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatNDJSON, FormatCSV} {
		rows, err := Decode(bytes.NewReader(nil), WithFormat(f))
		require.NoError(t, err, f.String())
		assert.Empty(t, rows)
	}
}

func TestDecodeNDJSON_BadLine(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("{\"id\":1}\n\n{oops\n"), WithFormat(FormatNDJSON))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestReadAll_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	names := []string{"part-0.ndjson", "part-1.csv", "part-2.json"}
	for i, name := range names {
		rows := []row.Row{{"part": row.Int(i)}, {"part": row.Int(i)}}
		require.NoError(t, Write(ctx, store, name, rows))
	}

	rows, err := ReadAll(ctx, store, names, WithConcurrency(2))
	require.NoError(t, err)
	require.Len(t, rows, 6)
	for i, r := range rows {
		assert.Equal(t, float64(i/2), r["part"].Num)
	}

	_, err = ReadAll(ctx, store, []string{"part-0.ndjson", "missing.json"})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestRead_RateLimited(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, Write(ctx, store, "rows.json", sampleRows()))

	rows, _, err := Read(ctx, store, "rows.json", WithRateLimit(1<<20))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRead_UnknownFormat(t *testing.T) {
	_, _, err := Read(context.Background(), blobstore.NewMemoryStore(), "rows.bin")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
