// Package dataset reads and writes grid rows in common interchange formats.
//
// Supported formats are a JSON array, newline-delimited JSON, CSV with a
// header row, Arrow IPC streams and Parquet files. Any of them may be
// wrapped in zstd or LZ4 compression. When no format is configured it is
// detected from the blob name, e.g. "orders.ndjson.zst".
//
// Read and Write move datasets through a blobstore.BlobStore; ReadAll loads
// several blobs concurrently and concatenates them in the order given.
package dataset
