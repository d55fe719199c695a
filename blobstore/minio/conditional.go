package minio

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/gridkit/blobstore"
)

var _ blobstore.ConditionalStore = (*Store)(nil)

// GetRevision reads the whole object and returns its ETag as revision. Data
// and ETag come from the same GET response.
func (s *Store) GetRevision(ctx context.Context, name string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, "", translate(err)
	}
	defer func() { _ = obj.Close() }()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", translate(err)
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", translate(err)
	}
	return data, info.ETag, nil
}

// PutIf uploads data only if the object still carries ETag rev. An empty rev
// requires that the object does not exist yet.
func (s *Store) PutIf(ctx context.Context, name string, data []byte, rev string) error {
	return s.put(ctx, name, data, putIfOptions(rev))
}

func putIfOptions(rev string) minio.PutObjectOptions {
	opts := minio.PutObjectOptions{}
	if rev == "" {
		opts.SetMatchETagExcept("*")
	} else {
		opts.SetMatchETag(rev)
	}
	return opts
}
