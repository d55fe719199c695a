package s3

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/hupe1980/gridkit/blobstore"
)

var _ blobstore.ConditionalStore = (*Store)(nil)

// GetRevision reads the whole object and returns its ETag as revision.
func (s *Store) GetRevision(ctx context.Context, name string) ([]byte, string, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", blobstore.ErrNotFound
		}
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, aws.ToString(resp.ETag), nil
}

// PutIf uploads data with an If-Match precondition on rev, or If-None-Match
// when rev is empty.
func (s *Store) PutIf(ctx context.Context, name string, data []byte, rev string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if rev == "" {
		input.IfNoneMatch = aws.String("*")
	} else {
		input.IfMatch = aws.String(rev)
	}

	_, err := s.client.PutObject(ctx, input)
	if isPreconditionFailed(err) {
		return blobstore.ErrPreconditionFailed
	}
	return err
}

// isPreconditionFailed reports a lost conditional write. S3 answers 412 when
// the ETag no longer matches and 409 when a concurrent conditional write won.
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
