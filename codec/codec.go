// Package codec selects how rows, datasets and saved views are encoded.
//
// Saved views record the codec name next to their payload, so a store can
// decode views written with a codec other than the current default.
package codec

import "io"

// Codec encodes and decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// OrDefault returns c, or Default when c is nil.
func OrDefault(c Codec) Codec {
	if c == nil {
		return Default
	}
	return c
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// Encoder writes a stream of values, one per Encode call.
type Encoder interface {
	Encode(v any) error
}

// Streamer is implemented by codecs with a native stream encoder.
type Streamer interface {
	NewEncoder(w io.Writer) Encoder
}

// NewEncoder returns a stream encoder of c writing newline terminated
// values to w. Codecs without a native encoder marshal each value.
func NewEncoder(c Codec, w io.Writer) Encoder {
	c = OrDefault(c)
	if s, ok := c.(Streamer); ok {
		return s.NewEncoder(w)
	}
	return &lineEncoder{c: c, w: w}
}

type lineEncoder struct {
	c Codec
	w io.Writer
}

func (e *lineEncoder) Encode(v any) error {
	data, err := e.c.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}
