package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridkit/blobstore"
)

func TestStore_GetRevision(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "grids")

	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Key == "grids/views/orders/default.json" && input.Range == nil
	})).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(`{"name":"default"}`)),
		ETag: aws.String(`"abc"`),
	}, nil).Once()

	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Key == "grids/missing"
	})).Return(nil, &types.NoSuchKey{}).Once()

	data, rev, err := store.GetRevision(context.Background(), "views/orders/default.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"default"}`, string(data))
	assert.Equal(t, `"abc"`, rev)

	_, _, err = store.GetRevision(context.Background(), "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	mockClient.AssertExpectations(t)
}

func TestStore_PutIf(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "")

	t.Run("Create", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
			return *input.Key == "new" && aws.ToString(input.IfNoneMatch) == "*" && input.IfMatch == nil
		})).Return(&s3.PutObjectOutput{}, nil).Once()

		require.NoError(t, store.PutIf(context.Background(), "new", []byte("x"), ""))
	})

	t.Run("Replace", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
			return *input.Key == "old" && aws.ToString(input.IfMatch) == `"abc"` && input.IfNoneMatch == nil
		})).Return(&s3.PutObjectOutput{}, nil).Once()

		require.NoError(t, store.PutIf(context.Background(), "old", []byte("y"), `"abc"`))
	})

	t.Run("Conflict", func(t *testing.T) {
		for _, code := range []string{"PreconditionFailed", "ConditionalRequestConflict"} {
			mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
				return *input.Key == "raced"
			})).Return(nil, &smithy.GenericAPIError{Code: code, Message: "lost"}).Once()

			err := store.PutIf(context.Background(), "raced", []byte("z"), `"stale"`)
			assert.ErrorIs(t, err, blobstore.ErrPreconditionFailed, code)
		}
	})

	mockClient.AssertExpectations(t)
}
