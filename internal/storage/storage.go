// Package storage abstracts the object store that holds uploaded files.
// The MinIO implementation works with any S3-compatible provider; the
// in-memory implementation backs tests.
package storage

import (
	"context"
	"io"
)

// Storage is the interface for uploading and removing bucket objects.
type Storage interface {
	// Upload streams data to the store under the given key, publicly readable.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
