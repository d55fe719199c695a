package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/gridkit/row"
)

// Decode reads rows from r. The format must be set with WithFormat.
func Decode(r io.Reader, optFns ...Option) ([]row.Row, error) {
	o := newOptions(optFns)
	if o.format == FormatAuto {
		return nil, fmt.Errorf("%w: no format configured", ErrUnknownFormat)
	}
	return decode(context.Background(), r, o)
}

func decode(ctx context.Context, r io.Reader, o options) ([]row.Row, error) {
	dr, release, err := decompress(r, o.compression)
	if err != nil {
		return nil, err
	}
	defer release()

	switch o.format {
	case FormatJSON:
		return decodeJSON(dr, o)
	case FormatNDJSON:
		return decodeNDJSON(dr, o)
	case FormatCSV:
		return decodeCSV(dr)
	case FormatArrow:
		return decodeArrow(dr)
	case FormatParquet:
		data, err := io.ReadAll(dr)
		if err != nil {
			return nil, err
		}
		return decodeParquet(ctx, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, o.format)
	}
}

// Encode writes rows to w. The format must be set with WithFormat.
func Encode(w io.Writer, rows []row.Row, optFns ...Option) error {
	o := newOptions(optFns)
	if o.format == FormatAuto {
		return fmt.Errorf("%w: no format configured", ErrUnknownFormat)
	}
	return encode(w, rows, o)
}

func encode(w io.Writer, rows []row.Row, o options) error {
	cw, err := compress(w, o.compression)
	if err != nil {
		return err
	}

	switch o.format {
	case FormatJSON:
		err = encodeJSON(cw, rows, o)
	case FormatNDJSON:
		err = encodeNDJSON(cw, rows, o)
	case FormatCSV:
		err = encodeCSV(cw, rows, o)
	case FormatArrow:
		err = encodeArrow(cw, rows, o)
	case FormatParquet:
		err = encodeParquet(cw, rows, o)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, o.format)
	}
	if err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}
