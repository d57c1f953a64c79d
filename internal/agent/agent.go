package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"google.golang.org/grpc"

	"github.com/mholt/archives"

	"github.com/vorpal-sh/vorpal/pkg/lockfile"
	"github.com/vorpal-sh/vorpal/pkg/store"
	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
	wireagent "github.com/vorpal-sh/vorpal/rpcapi/agent"
	wirearchive "github.com/vorpal-sh/vorpal/rpcapi/archive"
	wireartifact "github.com/vorpal-sh/vorpal/rpcapi/artifact"
)

// Server implements rpcapi/agent.AgentServiceServer. PrepareArtifact
// resolves every ArtifactSource of the submitted artifact (downloading,
// cloning, or hashing in place as the source's path dictates), checks
// each against the caller's lockfile, pushes a fresh archive of the
// resolved source to the Registry when one isn't already there, and
// finally streams back the artifact with sources stamped with their
// resolved digests plus its own canonical digest.
type Server struct {
	wireagent.UnimplementedAgentServiceServer
	dialRegistry func(ctx context.Context, address string) (*grpc.ClientConn, error)
}

func NewServer(dial func(ctx context.Context, address string) (*grpc.ClientConn, error)) *Server {
	return &Server{dialRegistry: dial}
}

func (s *Server) PrepareArtifact(req *wireagent.PrepareArtifactRequest, stream wireagent.AgentService_PrepareArtifactServer) error {
	ctx := stream.Context()

	domainArtifact := req.Artifact.ToDomain()
	if err := domainArtifact.Validate(); err != nil {
		return vorpalerr.ToStatus(vorpalerr.NewValidationError(err.Error()))
	}

	conn, err := s.dialRegistry(ctx, req.RegistryAddress)
	if err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "dial registry", err))
	}
	defer conn.Close()

	archiveClient := wirearchive.NewArchiveServiceClient(conn)
	artifactClient := wireartifact.NewArtifactServiceClient(conn)

	lockPath := filepath.Join(req.ContextPath, "vorpal.lock.json")
	lock, err := lockfile.Load(lockPath)
	if err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindInternalError, "load lockfile", err))
	}

	for i, src := range domainArtifact.Sources {
		if err := stream.Send(&wireagent.PrepareArtifactResponse{
			Log: fmt.Sprintf("resolving source %q (%s)", src.Name, src.Path),
		}); err != nil {
			return err
		}

		resolvedDir, digest, err := resolveSource(ctx, src)
		if err != nil {
			return vorpalerr.ToStatus(err)
		}

		if err := lock.Check(src.Name, src.Path, domainArtifact.Target.String(), src.Includes, src.Excludes, digest, req.Unlock); err != nil {
			return vorpalerr.ToStatus(err)
		}

		if err := pushSourceArchive(ctx, archiveClient, req.Namespace, src.Name, digest, resolvedDir); err != nil {
			return vorpalerr.ToStatus(err)
		}

		domainArtifact.Sources[i].Digest = &digest

		if err := stream.Send(&wireagent.PrepareArtifactResponse{
			Log: fmt.Sprintf("source %q resolved to %s", src.Name, digest),
		}); err != nil {
			return err
		}
	}

	if err := lock.Save(); err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindInternalError, "save lockfile", err))
	}

	digest, err := domainArtifact.Digest()
	if err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindInternalError, "compute artifact digest", err))
	}

	wireArtifact := wireartifact.FromDomain(domainArtifact)

	if _, err := artifactClient.StoreArtifact(ctx, &wireartifact.StoreArtifactRequest{
		Artifact:  wireArtifact,
		Digest:    digest,
		Namespace: req.Namespace,
	}); err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "store artifact record", err))
	}

	return stream.Send(&wireagent.PrepareArtifactResponse{
		Artifact: wireArtifact,
		Digest:   digest,
	})
}

// pushSourceArchive tars+zstds sourceDir and streams it to the Registry
// under name/digest, skipping the push entirely if the archive already
// exists there (Check is always consulted first, per spec §4.4's
// idempotent-push contract).
func pushSourceArchive(ctx context.Context, client wirearchive.ArchiveServiceClient, namespace, name, digest, sourceDir string) error {
	checkResp, err := client.Check(ctx, &wirearchive.CheckRequest{Namespace: namespace, Digest: digest})
	if err != nil {
		return vorpalerr.Wrap(vorpalerr.KindTransientIO, "check archive existence", err)
	}
	if checkResp.Exists {
		return nil
	}

	archivePath, err := createSourceArchive(ctx, sourceDir, name, digest)
	if err != nil {
		return err
	}
	defer os.Remove(archivePath)

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	pushStream, err := client.Push(ctx)
	if err != nil {
		return vorpalerr.Wrap(vorpalerr.KindTransientIO, "open push stream", err)
	}

	buf := make([]byte, wirearchive.PushChunkSize)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if sendErr := pushStream.Send(&wirearchive.PushChunk{
				Digest:    digest,
				Namespace: namespace,
				Data:      chunk,
			}); sendErr != nil {
				return vorpalerr.Wrap(vorpalerr.KindTransientIO, "push archive chunk", sendErr)
			}
		}
		if readErr != nil {
			break
		}
	}

	_, err = pushStream.CloseAndRecv()
	if err != nil {
		return vorpalerr.Wrap(vorpalerr.KindTransientIO, "close push stream", err)
	}

	return nil
}

func createSourceArchive(ctx context.Context, sourceDir, name, digest string) (string, error) {
	if err := store.NormalizeTimestamps(sourceDir); err != nil {
		return "", err
	}

	paths, err := store.GetFilePaths(sourceDir, nil, nil)
	if err != nil {
		return "", err
	}

	files, err := archives.FilesFromDisk(ctx, nil, archiveFileMap(sourceDir, paths))
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(os.TempDir(), store.GetStoreDirName(digest, name)+".tar.zst")

	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	format := archives.CompressedArchive{
		Compression: archives.Zstd{},
		Archival:    archives.Tar{},
	}

	if err := format.Archive(ctx, out, files); err != nil {
		os.Remove(outPath)
		return "", err
	}

	return outPath, nil
}

func archiveFileMap(root string, paths []string) map[string]string {
	m := make(map[string]string, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			continue
		}
		m[p] = rel
	}
	return m
}
