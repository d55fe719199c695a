package blobstore

import (
	"context"
	"errors"
)

// ErrPreconditionFailed is returned by PutIf when the blob was changed or
// created since its revision was read.
var ErrPreconditionFailed = errors.New("blobstore: precondition failed")

// ConditionalStore is a BlobStore that can replace a blob only if it is
// unchanged. Saved views use it for optimistic concurrency across processes.
type ConditionalStore interface {
	BlobStore
	// GetRevision reads a whole blob together with its opaque revision.
	GetRevision(ctx context.Context, name string) ([]byte, string, error)
	// PutIf writes data if the current revision of name equals rev. An empty
	// rev requires that the blob does not exist yet.
	PutIf(ctx context.Context, name string, data []byte, rev string) error
}
