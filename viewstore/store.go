package viewstore

import (
	"context"

	"github.com/hupe1980/gridkit/codec"
)

// Store persists views per grid.
type Store interface {
	// Save stores v. v.Version must equal the stored version (0 for a new
	// view); on success v.Version and v.UpdatedAt are updated.
	Save(ctx context.Context, gridID string, v *View) error
	// Load returns the named view or ErrViewNotFound.
	Load(ctx context.Context, gridID, name string) (*View, error)
	// List returns the sorted view names of a grid.
	List(ctx context.Context, gridID string) ([]string, error)
	// Delete removes a view or returns ErrViewNotFound.
	Delete(ctx context.Context, gridID, name string) error
}

type options struct {
	codec  codec.Codec
	prefix string
}

// Option configures a Store.
type Option func(*options)

// WithCodec sets the codec used for new views. Stored views record the codec
// they were written with, so changing it does not break old views.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = codec.OrDefault(c)
	}
}

// WithPrefix sets the blob name prefix of a BlobStore.
// Default: "views"
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

func applyOptions(optFns []Option) options {
	o := options{codec: codec.Default, prefix: "views"}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func decodeView(codecName string, data []byte) (*View, error) {
	c, ok := codec.ByName(codecName)
	if !ok {
		c = codec.Default
	}
	var v View
	if err := c.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
