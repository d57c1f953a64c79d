package registry

import (
	"context"
	"errors"
	"io"

	wirearchive "github.com/vorpal-sh/vorpal/rpcapi/archive"
	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
)

// ArchiveServer implements rpcapi/archive.ArchiveServiceServer. Push
// streams straight into BlobStore.Create, which stages-then-renames,
// so a reader of Pull never observes a partial archive.
type ArchiveServer struct {
	wirearchive.UnimplementedArchiveServiceServer
	registry *Registry
}

func NewArchiveServer(r *Registry) *ArchiveServer {
	return &ArchiveServer{registry: r}
}

func (s *ArchiveServer) Check(ctx context.Context, req *wirearchive.CheckRequest) (*wirearchive.CheckResponse, error) {
	if cached, ok := s.registry.cache.Get(req.Namespace, req.Digest); ok {
		return &wirearchive.CheckResponse{Exists: cached}, nil
	}

	exists, err := s.registry.store.Exists(ctx, archiveKey(req.Namespace, req.Digest))
	if err != nil {
		return nil, vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "check archive", err))
	}

	s.registry.cache.Set(req.Namespace, req.Digest, exists)

	return &wirearchive.CheckResponse{Exists: exists}, nil
}

func (s *ArchiveServer) Pull(req *wirearchive.PullRequest, stream wirearchive.ArchiveService_PullServer) error {
	rc, err := s.registry.store.Open(stream.Context(), archiveKey(req.Namespace, req.Digest))
	if err != nil {
		return vorpalerr.ToStatus(err)
	}
	defer rc.Close()

	buf := make([]byte, wirearchive.PullChunkSize)
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if sendErr := stream.Send(&wirearchive.Chunk{Data: chunk}); sendErr != nil {
				return sendErr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "read archive", err))
		}
	}
}

// Push stores the streamed archive under the namespace the first chunk
// names. It performs no namespace-level authorization check: any
// caller can push into any namespace.
func (s *ArchiveServer) Push(stream wirearchive.ArchiveService_PushServer) error {
	first, err := stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return vorpalerr.ToStatus(vorpalerr.NewValidationError("push stream closed before any chunk"))
		}
		return err
	}

	digest, namespace := first.Digest, first.Namespace
	key := archiveKey(namespace, digest)

	if exists, _ := s.registry.store.Exists(stream.Context(), key); exists {
		drainPush(stream)
		return stream.SendAndClose(&wirearchive.PushResponse{Digest: digest})
	}

	w, err := s.registry.store.Create(stream.Context(), key)
	if err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "create archive", err))
	}

	if _, err := w.Write(first.Data); err != nil {
		w.Close()
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "write archive chunk", err))
	}

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.Close()
			return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "receive archive chunk", err))
		}
		if _, err := w.Write(chunk.Data); err != nil {
			w.Close()
			return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "write archive chunk", err))
		}
	}

	if err := w.Close(); err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "publish archive", err))
	}

	s.registry.cache.Invalidate(namespace, digest)

	return stream.SendAndClose(&wirearchive.PushResponse{Digest: digest})
}

// drainPush consumes the remainder of an already-satisfied push so the
// client's CloseAndRecv doesn't block on an abandoned stream.
func drainPush(stream wirearchive.ArchiveService_PushServer) {
	for {
		if _, err := stream.Recv(); err != nil {
			return
		}
	}
}
