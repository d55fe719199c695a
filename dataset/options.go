package dataset

import (
	"github.com/hupe1980/gridkit/codec"
)

type options struct {
	format      Format
	compression Compression
	compSet     bool
	columns     []string
	codec       codec.Codec
	rateLimit   int
	concurrency int
}

// Option configures reading and writing.
type Option func(*options)

func newOptions(optFns []Option) options {
	o := options{
		codec:       codec.Default,
		concurrency: 4,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// resolve fills in format and compression from name where unset.
func (o options) resolve(name string) (options, error) {
	if o.format != FormatAuto && o.compSet {
		return o, nil
	}
	f, c, err := Detect(name)
	if o.format == FormatAuto {
		if err != nil {
			return o, err
		}
		o.format = f
	}
	if !o.compSet {
		o.compression = c
	}
	return o, nil
}

// WithFormat sets the format instead of detecting it from the name.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithCompression sets the compression instead of detecting it from the name.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
		o.compSet = true
	}
}

// WithColumns restricts written fields to columns, in that order. CSV,
// Arrow and Parquet use it as their header; JSON formats drop other fields.
func WithColumns(columns ...string) Option {
	return func(o *options) {
		o.columns = columns
	}
}

// WithCodec sets the codec used for the JSON and NDJSON formats.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = codec.OrDefault(c)
	}
}

// WithRateLimit caps blob reads at bytesPerSec. Zero disables the limit.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		o.rateLimit = bytesPerSec
	}
}

// WithConcurrency sets how many blobs ReadAll loads in parallel.
// Default: 4
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}
