package dataset

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/gridkit/blobstore"
	"github.com/hupe1980/gridkit/row"
)

// Info describes a dataset blob that was read.
type Info struct {
	Name        string
	Format      Format
	Compression Compression
	Bytes       int64
	Rows        int
}

// Read loads the dataset stored under name.
func Read(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) ([]row.Row, Info, error) {
	o, err := newOptions(optFns).resolve(name)
	if err != nil {
		return nil, Info{Name: name}, err
	}
	info := Info{Name: name, Format: o.format, Compression: o.compression}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, info, err
	}
	defer func() { _ = blob.Close() }()
	info.Bytes = blob.Size()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, info, err
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if o.rateLimit > 0 {
		r = newRateLimitedReader(ctx, rc, o.rateLimit)
	}

	rows, err := decode(ctx, r, o)
	if err != nil {
		return nil, info, fmt.Errorf("%s: %w", name, err)
	}
	info.Rows = len(rows)
	return rows, info, nil
}

// ReadAll loads several datasets concurrently and concatenates their rows in
// the order of names.
func ReadAll(ctx context.Context, store blobstore.BlobStore, names []string, optFns ...Option) ([]row.Row, error) {
	o := newOptions(optFns)
	parts := make([][]row.Row, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, name := range names {
		g.Go(func() error {
			rows, _, err := Read(gctx, store, name, optFns...)
			if err != nil {
				return err
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]row.Row, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// Write stores rows under name, streaming through the store's writer.
func Write(ctx context.Context, store blobstore.BlobStore, name string, rows []row.Row, optFns ...Option) error {
	o, err := newOptions(optFns).resolve(name)
	if err != nil {
		return err
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if err := encode(w, rows, o); err != nil {
		_ = w.Close()
		_ = store.Delete(ctx, name)
		return fmt.Errorf("%s: %w", name, err)
	}
	return w.Close()
}

// rateLimitedReader throttles reads to a byte rate.
type rateLimitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func newRateLimitedReader(ctx context.Context, r io.Reader, bytesPerSec int) *rateLimitedReader {
	return &rateLimitedReader{
		ctx:     ctx,
		r:       r,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

func (l *rateLimitedReader) Read(p []byte) (int, error) {
	if burst := l.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		if werr := l.limiter.WaitN(l.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
