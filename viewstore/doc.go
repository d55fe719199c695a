// Package viewstore persists named grid views: the quick filter, the column
// selections, the sort and the page size a user saved for a grid.
//
// Two backends are provided. BlobStore keeps one JSON document per view in
// any blobstore.BlobStore under views/<grid>/<name>.json. DynamoStore keeps
// one item per view in a DynamoDB table and uses conditional writes so that
// concurrent editors cannot overwrite each other.
//
// Both backends use optimistic concurrency: View.Version is the version the
// caller last loaded (0 for a new view). Save fails with
// ErrConcurrentModification when the stored version differs and bumps
// Version on success.
package viewstore
