// Package worker implements WorkerService.BuildArtifact: pulling an
// artifact's dependencies, provisioning a sandbox, executing its steps
// (bubblewrap-isolated on Linux), and archiving/publishing the result
// back to the Registry.
package worker

import (
	"bufio"
	"context"
	"crypto/ecdh"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/mholt/archives"
	"google.golang.org/grpc"

	domainartifact "github.com/vorpal-sh/vorpal/pkg/artifact"
	"github.com/vorpal-sh/vorpal/pkg/secret"
	"github.com/vorpal-sh/vorpal/pkg/store"
	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
	wirearchive "github.com/vorpal-sh/vorpal/rpcapi/archive"
	wireartifact "github.com/vorpal-sh/vorpal/rpcapi/artifact"
	wireworker "github.com/vorpal-sh/vorpal/rpcapi/worker"
)

// Server implements rpcapi/worker.WorkerServiceServer.
type Server struct {
	wireworker.UnimplementedWorkerServiceServer
	dialRegistry func(ctx context.Context, address string) (*grpc.ClientConn, error)
	secretKey    *ecdh.PrivateKey
}

// NewServer builds a Worker. secretKey may be nil; a build whose steps
// carry secrets then fails fast instead of leaking ciphertext into the
// step's environment verbatim.
func NewServer(dial func(ctx context.Context, address string) (*grpc.ClientConn, error), secretKey *ecdh.PrivateKey) *Server {
	return &Server{dialRegistry: dial, secretKey: secretKey}
}

func (s *Server) BuildArtifact(req *wireworker.BuildArtifactRequest, stream wireworker.WorkerService_BuildArtifactServer) error {
	b := &build{
		ctx:       stream.Context(),
		stream:    stream,
		digest:    req.Digest,
		namespace: req.Namespace,
		secretKey: s.secretKey,
	}

	conn, err := s.dialRegistry(b.ctx, req.RegistryAddress)
	if err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "dial registry", err))
	}
	defer conn.Close()

	b.artifactClient = wireartifact.NewArtifactServiceClient(conn)
	b.archiveClient = wirearchive.NewArchiveServiceClient(conn)

	return b.run()
}

type build struct {
	ctx            context.Context
	stream         wireworker.WorkerService_BuildArtifactServer
	digest         string
	namespace      string
	artifactClient wireartifact.ArtifactServiceClient
	archiveClient  wirearchive.ArchiveServiceClient
	lock           *buildLock
	secretKey      *ecdh.PrivateKey
}

func (b *build) emit(ev *wireworker.BuildArtifactResponse) error {
	return b.stream.Send(ev)
}

func (b *build) phase(name string) error {
	return b.emit(&wireworker.BuildArtifactResponse{Phase: name})
}

// outputPath returns store/artifact/output/<namespace>/<digest>/, the
// layout used for a build's published unpacked output.
func outputPath(namespace, digest string) string {
	return filepath.Join(store.GetRootDirPath(), "artifact", "output", namespace, digest)
}

func (b *build) run() error {
	dest := outputPath(b.namespace, b.digest)
	if _, err := os.Stat(dest); err == nil {
		return b.emit(&wireworker.BuildArtifactResponse{Cached: true, Digest: b.digest})
	}

	if err := b.phase("Locked"); err != nil {
		return err
	}
	lockPath := store.GetBuildLockPath(b.digest)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindInternalError, "create lock dir", err))
	}
	lock, err := acquireBuildLock(lockPath)
	if err != nil {
		return vorpalerr.ToStatus(vorpalerr.NewConflict(err.Error()))
	}
	b.lock = lock
	defer b.lock.Release()

	wireArtifact, err := b.artifactClient.GetArtifact(b.ctx, &wireartifact.GetArtifactRequest{
		Digest: b.digest, Namespace: b.namespace,
	})
	if err != nil {
		return vorpalerr.ToStatus(err)
	}
	artifact := wireArtifact.ToDomain()

	if err := b.phase("Fetching"); err != nil {
		return err
	}
	deps, err := b.materializeDependencies(artifact)
	if err != nil {
		return vorpalerr.ToStatus(err)
	}

	if err := b.phase("Sandboxed"); err != nil {
		return err
	}
	sandboxDir, err := store.NewSandboxDir()
	if err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindInternalError, "allocate sandbox", err))
	}
	defer store.RemoveSandboxDir(sandboxDir)

	workspace := filepath.Join(sandboxDir, "workspace")
	output := filepath.Join(sandboxDir, "output")
	for _, dir := range []string{workspace, output} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindInternalError, "provision sandbox", err))
		}
	}

	if err := b.phase("Executing"); err != nil {
		return err
	}
	artifactName := artifact.Name
	for i, step := range artifact.Steps {
		if err := b.runStep(i, step, artifactName, workspace, output, deps); err != nil {
			return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindStepFailure, fmt.Sprintf("step %d", i), err))
		}
	}

	if err := b.phase("Archiving"); err != nil {
		return err
	}
	archivePath, err := b.archiveOutput(output)
	if err != nil {
		return vorpalerr.ToStatus(err)
	}
	defer os.Remove(archivePath)

	if err := b.pushArchiveIfAbsent(archivePath); err != nil {
		return vorpalerr.ToStatus(err)
	}

	if err := b.phase("Publishing"); err != nil {
		return err
	}
	finalOutput := outputPath(b.namespace, b.digest)
	if err := os.MkdirAll(filepath.Dir(finalOutput), 0o755); err != nil {
		return vorpalerr.ToStatus(err)
	}
	if err := os.Rename(output, finalOutput); err != nil {
		return vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "publish output", err))
	}

	return b.emit(&wireworker.BuildArtifactResponse{Phase: "Done", Digest: b.digest})
}

// materializeDependencies ensures every digest reachable through the
// artifact's step.Artifacts edges — transitively, not just the direct
// references — has an unpacked local output, pulling and expanding it
// from the Registry when absent. A dependency's own Artifacts are
// discovered by fetching its artifact record from the Registry, since a
// dependency built by a different worker leaves no local trace besides
// its published record and archive. Traversal is breadth-first in
// declaration order so PATH and bind-mount argument order is
// reproducible across workers.
func (b *build) materializeDependencies(artifact *domainartifact.Artifact) ([]dependency, error) {
	seen := map[string]bool{}
	var deps []dependency

	var queue []string
	for _, step := range artifact.Steps {
		queue = append(queue, step.Artifacts...)
	}

	for len(queue) > 0 {
		digest := queue[0]
		queue = queue[1:]
		if seen[digest] {
			continue
		}
		seen[digest] = true

		depPath := outputPath(b.namespace, digest)
		if _, err := os.Stat(depPath); err != nil {
			if err := b.pullAndExpand(digest, depPath); err != nil {
				return nil, err
			}
		}
		deps = append(deps, dependency{Digest: digest, Path: depPath})

		wireDep, err := b.artifactClient.GetArtifact(b.ctx, &wireartifact.GetArtifactRequest{
			Digest: digest, Namespace: b.namespace,
		})
		if err != nil {
			return nil, vorpalerr.Wrap(vorpalerr.KindTransientIO, "fetch dependency record", err)
		}
		for _, step := range wireDep.ToDomain().Steps {
			for _, d := range step.Artifacts {
				if !seen[d] {
					queue = append(queue, d)
				}
			}
		}
	}

	return deps, nil
}

func (b *build) pullAndExpand(digest, destPath string) error {
	stream, err := b.archiveClient.Pull(b.ctx, &wirearchive.PullRequest{Digest: digest, Namespace: b.namespace})
	if err != nil {
		return vorpalerr.Wrap(vorpalerr.KindTransientIO, "pull dependency archive", err)
	}

	pr, pw := io.Pipe()
	go func() {
		for {
			chunk, err := stream.Recv()
			if err == io.EOF {
				pw.Close()
				return
			}
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if _, err := pw.Write(chunk.Data); err != nil {
				return
			}
		}
	}()

	decoder, err := (archives.Zstd{}).OpenReader(pr)
	if err != nil {
		return err
	}
	defer decoder.Close()

	if err := os.MkdirAll(destPath, 0o755); err != nil {
		return err
	}

	return (archives.Tar{}).Extract(b.ctx, decoder, extractHandler(destPath))
}

func extractHandler(destDir string) archives.FileHandler {
	return func(ctx context.Context, info archives.FileInfo) error {
		outPath := filepath.Join(destDir, filepath.Clean(info.NameInArchive))
		if info.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		out, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer out.Close()
		r, err := info.Open()
		if err != nil {
			return err
		}
		defer r.Close()
		_, err = io.Copy(out, r)
		return err
	}
}

func (b *build) runStep(index int, step domainartifact.ArtifactStep, artifactName, workspace, output string, deps []dependency) error {
	var rootfsPath string
	for _, d := range deps {
		if d.Digest == "linux-vorpal" {
			rootfsPath = d.Path
		}
	}

	if step.Script != nil {
		scriptPath := filepath.Join(workspace, fmt.Sprintf("step-%d.sh", index))
		if err := os.WriteFile(scriptPath, []byte(*step.Script), 0o755); err != nil {
			return err
		}
	}

	env, err := b.stepEnvironment(step, workspace, output, deps)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	entrypoint := ""
	if step.Entrypoint != nil {
		entrypoint = *step.Entrypoint
	}

	if entrypoint == "bwrap" && runtime.GOOS == "linux" {
		args := bwrapArgs(workspace, output, rootfsPath, deps, step.Arguments)
		cmd = exec.CommandContext(b.ctx, "bwrap", args...)
	} else {
		cmd = exec.CommandContext(b.ctx, entrypoint, step.Arguments...)
	}
	cmd.Env = env
	cmd.Dir = workspace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	prefix := fmt.Sprintf("%s |> ", artifactName)
	done := make(chan struct{}, 2)
	go streamLines(stdout, prefix, b, done)
	go streamLines(stderr, prefix, b, done)
	<-done
	<-done

	return cmd.Wait()
}

func streamLines(r io.Reader, prefix string, b *build, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		b.emit(&wireworker.BuildArtifactResponse{Log: prefix + scanner.Text()})
	}
}

// stepEnvironment builds a step's execution environment: VORPAL_
// workspace/output vars, a VORPAL_ARTIFACT_<digest> var and PATH entry
// per dependency (the same pair bwrapArgs injects via --setenv, so the
// direct-exec path exposes an identical interface to a sandboxed one),
// the step's own plain environment variables, and its decrypted
// secrets. ArtifactStepSecret.Value carries base64-encoded ciphertext
// in the shape pkg/secret.Encrypt produces.
func (b *build) stepEnvironment(step domainartifact.ArtifactStep, workspace, output string, deps []dependency) ([]string, error) {
	env := []string{
		"VORPAL_WORKSPACE=" + workspace,
		"VORPAL_OUTPUT=" + output,
		"PATH=" + bwrapPath(deps),
	}
	for _, dep := range deps {
		env = append(env, "VORPAL_ARTIFACT_"+dep.Digest+"="+dep.Path)
	}
	env = append(env, step.Environments...)

	for _, s := range step.Secrets {
		if b.secretKey == nil {
			return nil, fmt.Errorf("step requires secret %q but worker has no recipient key configured", s.Name)
		}
		ciphertext, err := base64.StdEncoding.DecodeString(s.Value)
		if err != nil {
			return nil, fmt.Errorf("decode secret %q: %w", s.Name, err)
		}
		plaintext, err := secret.Decrypt(b.secretKey, ciphertext)
		if err != nil {
			return nil, fmt.Errorf("decrypt secret %q: %w", s.Name, err)
		}
		env = append(env, s.Name+"="+string(plaintext))
	}

	return env, nil
}

func (b *build) archiveOutput(output string) (string, error) {
	if err := store.NormalizeTimestamps(output); err != nil {
		return "", err
	}

	paths, err := store.GetFilePaths(output, nil, nil)
	if err != nil {
		return "", err
	}

	fileMap := make(map[string]string, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(output, p)
		if err != nil {
			continue
		}
		fileMap[p] = rel
	}

	files, err := archives.FilesFromDisk(b.ctx, nil, fileMap)
	if err != nil {
		return "", err
	}

	archivePath := filepath.Join(os.TempDir(), b.digest+".tar.zst")
	out, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	format := archives.CompressedArchive{
		Compression: archives.Zstd{},
		Archival:    archives.Tar{},
	}

	if err := format.Archive(b.ctx, out, files); err != nil {
		os.Remove(archivePath)
		return "", err
	}

	return archivePath, nil
}

func (b *build) pushArchiveIfAbsent(archivePath string) error {
	checkResp, err := b.archiveClient.Check(b.ctx, &wirearchive.CheckRequest{Namespace: b.namespace, Digest: b.digest})
	if err != nil {
		return vorpalerr.Wrap(vorpalerr.KindTransientIO, "check archive existence", err)
	}
	if checkResp.Exists {
		return nil
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	pushStream, err := b.archiveClient.Push(b.ctx)
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
				Digest: b.digest, Namespace: b.namespace, Data: chunk,
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
