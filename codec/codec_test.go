package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridkit/row"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)

	assert.Equal(t, Default, OrDefault(nil))
	assert.Equal(t, JSON{}, OrDefault(JSON{}))
}

func TestCodecs_RowsAgree(t *testing.T) {
	rows := []row.Row{
		{"id": row.Int(1), "name": row.String("Alice"), "tags": row.Strings([]string{"a", "b"})},
		{"id": row.Int(2), "manager": row.Null(), "active": row.Bool(true)},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(rows)
			require.NoError(t, err)

			var decoded []row.Row
			require.NoError(t, c.Unmarshal(data, &decoded))
			require.Len(t, decoded, 2)
			assert.True(t, row.Equal(row.Object(rows[0]), row.Object(decoded[0])))
			assert.True(t, decoded[1]["manager"].IsNull())
		})
	}
}

func TestNewEncoder(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}, nil} {
		var buf bytes.Buffer
		enc := NewEncoder(c, &buf)
		require.NoError(t, enc.Encode(row.Row{"id": row.Int(1)}))
		require.NoError(t, enc.Encode(row.Row{"id": row.Int(2)}))
		assert.Equal(t, "{\"id\":1}\n{\"id\":2}\n", buf.String())
	}
}

func BenchmarkCodec_UnmarshalRows(b *testing.B) {
	rows := make([]row.Row, 1000)
	for i := range rows {
		rows[i] = row.Row{"id": row.Int(i), "name": row.String("row"), "amount": row.Number(float64(i) / 3)}
	}
	data, err := GoJSON{}.Marshal(rows)
	require.NoError(b, err)

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				var out []row.Row
				if err := c.Unmarshal(data, &out); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
