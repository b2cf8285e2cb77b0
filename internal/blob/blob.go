// Package blob implements the object-storage adapter: payload transfer and
// time-limited read URLs against an S3-compatible backend.
package blob

import (
	"context"
	"io"
	"time"
)

// Store is the narrow blob-transfer surface the workflow depends on.
type Store interface {
	// Upload stores the payload at path. Paths are generated to be unique, so
	// uploads never overwrite; failures surface as *common.BlobError.
	Upload(ctx context.Context, path string, payload io.Reader, size int64, contentType string) error

	// Download returns the raw payload, or a *common.BlobError with kind
	// "absent" when no blob exists at path.
	Download(ctx context.Context, path string) ([]byte, error)

	// Remove deletes zero or more blobs. Absent paths are not an error;
	// calling Remove twice for the same path succeeds both times.
	Remove(ctx context.Context, paths []string) error

	// CreateSignedURL returns a time-limited, publicly fetchable read URL.
	// Callers treat a failure here as non-fatal (the preview simply does not
	// render).
	CreateSignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
