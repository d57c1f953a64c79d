package registry

import "time"

// Registry holds the shared BlobStore and archive-check cache that the
// ArtifactService and ArchiveService grpc servers are implemented
// against.
type Registry struct {
	store BlobStore
	cache *ArchiveCheckCache
}

// New builds a Registry over store with the given archive-check cache
// TTL (0 disables caching).
func New(store BlobStore, cacheTTL time.Duration) *Registry {
	return &Registry{
		store: store,
		cache: NewArchiveCheckCache(cacheTTL),
	}
}

func artifactRecordKey(namespace, digest string) string {
	return "artifact/config/" + namespace + "/" + digest + ".json"
}

func archiveKey(namespace, digest string) string {
	return "artifact/archive/" + namespace + "/" + digest + ".tar.zst"
}
