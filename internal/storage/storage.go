// Package storage defines the interface for image byte storage.
// Swap implementations by changing the concrete type injected at startup —
// MinioBackend works with any S3-compatible provider (MinIO, Yandex Object
// Storage, ArvanCloud, AWS S3), LocalBackend writes to a plain directory.
package storage

import (
	"context"
	"io"
)

// Backend is the interface for storing and removing image bytes.
type Backend interface {
	// Upload streams r to the store under key and returns the public URL of
	// the stored object. Uploading to an existing key overwrites it.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object at key. It reports whether the object
	// existed; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) (bool, error)
	// PublicURL constructs the browser-accessible URL for a key. It performs
	// no I/O and is deterministic for a given backend configuration.
	PublicURL(key string) string
}
