package registry

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vorpal-sh/vorpal/pkg/store"
	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
)

// FSBlobStore is a BlobStore rooted at a directory on the local
// filesystem. Publishing a key is: write to a sibling temp file, fsync
// it, then rename into place — rename within the same filesystem is
// atomic, so a reader either sees nothing or the complete contents.
type FSBlobStore struct {
	root string
}

func NewFSBlobStore(root string) *FSBlobStore {
	return &FSBlobStore{root: root}
}

func (s *FSBlobStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *FSBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *FSBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vorpalerr.NewNotFound(fmt.Sprintf("key not found: %s", key))
		}
		return nil, err
	}
	return f, nil
}

func (s *FSBlobStore) Create(ctx context.Context, key string) (io.WriteCloser, error) {
	dest := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	tmp := dest + ".tmp." + id.String()

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}

	return &atomicWriter{file: f, tmpPath: tmp, destPath: dest}, nil
}

type atomicWriter struct {
	file     *os.File
	tmpPath  string
	destPath string
}

func (w *atomicWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *atomicWriter) Close() error {
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		os.Remove(w.tmpPath)
		return err
	}
	if err := w.file.Close(); err != nil {
		os.Remove(w.tmpPath)
		return err
	}
	if err := os.Rename(w.tmpPath, w.destPath); err != nil {
		os.Remove(w.tmpPath)
		return err
	}
	return store.SetTimestamps(w.destPath)
}
