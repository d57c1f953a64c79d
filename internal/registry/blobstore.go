// Package registry implements the Registry component: a
// content-addressed store of artifact records, build-output archives,
// and alias -> digest mappings, shared across an abstract BlobStore so
// the same service logic works against the filesystem or an opaque
// object store. The path-layout conventions (GetCacheArchivePath,
// GetStoreDirName) are generalized from "the local worker's cache" into
// "the shared registry's store".
package registry

import (
	"context"
	"io"
)

// BlobStore abstracts the registry's durable storage. Writes must be
// atomic: a reader must never observe a partially-written key. S3 (or
// any other object-storage backend) is out of scope per spec
// Non-goals — this interface exists so one could be added later
// without touching service logic.
type BlobStore interface {
	// Exists reports whether key is present and fully written.
	Exists(ctx context.Context, key string) (bool, error)

	// Open returns a reader for key's current contents. Returns
	// vorpalerr.NotFound if key does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Create returns a writer that stages key's contents and
	// publishes them atomically on Close. A writer that is never
	// closed, or that errors, must never leave key observable.
	Create(ctx context.Context, key string) (io.WriteCloser, error)
}
