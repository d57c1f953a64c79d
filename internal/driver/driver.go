// Package driver implements the Config Driver: it spawns the
// user-compiled config program as a child process, talks to its
// ephemeral ContextService to enumerate the fully-resolved artifacts it
// produced (source preparation against the Agent already happened
// inside the child via its own direct Agent dial — see DESIGN.md),
// topologically sorts them by their step dependency edges, drives each
// one through the Worker in leaves-first order, and unpacks each
// finished build locally.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/mholt/archives"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	domainartifact "github.com/vorpal-sh/vorpal/pkg/artifact"
	"github.com/vorpal-sh/vorpal/pkg/store"
	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
	wirearchive "github.com/vorpal-sh/vorpal/rpcapi/archive"
	wirecontext "github.com/vorpal-sh/vorpal/rpcapi/context"
	wireworker "github.com/vorpal-sh/vorpal/rpcapi/worker"

	"github.com/vorpal-sh/vorpal/internal/configproc"
)

// DialFunc opens a gRPC client connection, shared with internal/agent's
// dial-the-Registry shape so callers can inject the same TLS/UDS
// resolution logic everywhere.
type DialFunc func(ctx context.Context, address string) (*grpc.ClientConn, error)

// Options configures a Run.
type Options struct {
	ConfigBinary      string
	Artifact          string
	ArtifactContext   string
	ArtifactNamespace string
	ArtifactSystem    string
	ArtifactUnlock    bool
	ArtifactVariable  map[string]string

	AgentAddress    string
	WorkerAddress   string
	RegistryAddress string

	// OutputDir is where each successfully built artifact's archive is
	// unpacked locally, under <OutputDir>/<name>-<digest>.
	OutputDir string

	Dial DialFunc

	// BootstrapRetries/BootstrapDelay bound the ContextService
	// readiness probe: spec fixes these at 3 retries / 500ms.
	BootstrapRetries int
	BootstrapDelay   time.Duration

	// ChildShutdownGrace bounds how long the driver waits for the
	// config child to exit after SIGTERM before killing it.
	ChildShutdownGrace time.Duration

	Logger *zap.Logger
}

func (o *Options) setDefaults() {
	if o.BootstrapRetries == 0 {
		o.BootstrapRetries = 3
	}
	if o.BootstrapDelay == 0 {
		o.BootstrapDelay = 500 * time.Millisecond
	}
	if o.ChildShutdownGrace == 0 {
		o.ChildShutdownGrace = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// BuildResult is the outcome of driving one artifact through the
// Worker.
type BuildResult struct {
	Digest     string
	Name       string
	Cached     bool
	Skipped    bool
	Err        error
	OutputPath string
}

// Result is the outcome of a full Run.
type Result struct {
	Builds []BuildResult
}

type resolvedArtifact struct {
	digest   string
	artifact *domainartifact.Artifact
}

// Run spawns the config child, enumerates and topo-sorts its
// artifacts, builds each through the Worker in dependency order, and
// unpacks finished outputs locally. A build failure does not stop
// artifacts that do not depend on it; every digest that transitively
// depends on a failed one is recorded as skipped rather than attempted.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.setDefaults()

	port, err := pickPort()
	if err != nil {
		return nil, vorpalerr.Wrap(vorpalerr.KindTransientIO, "reserve context service port", err)
	}

	startArgs := configproc.StartArgs{
		Agent:             opts.AgentAddress,
		Artifact:          opts.Artifact,
		ArtifactContext:   opts.ArtifactContext,
		ArtifactNamespace: opts.ArtifactNamespace,
		ArtifactSystem:    opts.ArtifactSystem,
		ArtifactUnlock:    opts.ArtifactUnlock,
		ArtifactVariable:  opts.ArtifactVariable,
		Port:              port,
		Registry:          opts.RegistryAddress,
	}

	childCtx, cancelChild := context.WithCancel(ctx)
	defer cancelChild()

	cmd := exec.CommandContext(childCtx, opts.ConfigBinary, startArgs.Argv()...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, vorpalerr.Wrap(vorpalerr.KindInternalError, "start config child", err)
	}

	address := fmt.Sprintf("127.0.0.1:%d", port)

	client, conn, bootstrapErr := dialContextServiceWithRetry(ctx, opts.Dial, address, opts.BootstrapRetries, opts.BootstrapDelay)
	if bootstrapErr != nil {
		stopChild(cmd, opts.ChildShutdownGrace)
		return nil, vorpalerr.Wrap(vorpalerr.KindTransientIO, "bootstrap config child", bootstrapErr)
	}

	artifacts, fetchErr := fetchArtifacts(ctx, client)
	conn.Close()

	exitErr := stopChild(cmd, opts.ChildShutdownGrace)
	if exitErr != nil {
		return nil, vorpalerr.Wrap(vorpalerr.KindInternalError, fmt.Sprintf("config child exited with error, stderr: %s", stderr.String()), exitErr)
	}

	if fetchErr != nil {
		return nil, fetchErr
	}

	opts.Logger.Info("config child resolved artifacts", zap.Int("count", len(artifacts)))

	edges := buildEdges(artifacts)
	order, err := topologicalSort(edges)
	if err != nil {
		return nil, vorpalerr.Wrap(vorpalerr.KindValidationError, "build dependency graph", err)
	}

	registryConn, err := opts.Dial(ctx, opts.RegistryAddress)
	if err != nil {
		return nil, vorpalerr.Wrap(vorpalerr.KindTransientIO, "dial registry", err)
	}
	defer registryConn.Close()

	workerConn, err := opts.Dial(ctx, opts.WorkerAddress)
	if err != nil {
		return nil, vorpalerr.Wrap(vorpalerr.KindTransientIO, "dial worker", err)
	}
	defer workerConn.Close()

	workerClient := wireworker.NewWorkerServiceClient(workerConn)
	archiveClient := wirearchive.NewArchiveServiceClient(registryConn)

	result := &Result{}
	failed := make(map[string]bool)

	for _, digest := range order {
		ra := artifacts[digest]

		if dependencyFailed(edges[digest], failed) {
			failed[digest] = true
			result.Builds = append(result.Builds, BuildResult{Digest: digest, Name: ra.artifact.Name, Skipped: true})
			opts.Logger.Warn("skipping artifact, dependency failed", zap.String("digest", digest), zap.String("name", ra.artifact.Name))
			continue
		}

		br := buildOne(ctx, workerClient, archiveClient, digest, ra.artifact.Name, opts.ArtifactNamespace, opts.RegistryAddress, opts.OutputDir, opts.Logger)
		result.Builds = append(result.Builds, br)
		if br.Err != nil {
			failed[digest] = true
		}
	}

	return result, nil
}

func dependencyFailed(deps []string, failed map[string]bool) bool {
	for _, d := range deps {
		if failed[d] {
			return true
		}
	}
	return false
}

func buildOne(ctx context.Context, workerClient wireworker.WorkerServiceClient, archiveClient wirearchive.ArchiveServiceClient, digest, name, namespace, registryAddress, outputDir string, logger *zap.Logger) BuildResult {
	stream, err := workerClient.BuildArtifact(ctx, &wireworker.BuildArtifactRequest{Digest: digest, Namespace: namespace, RegistryAddress: registryAddress})
	if err != nil {
		return BuildResult{Digest: digest, Name: name, Err: vorpalerr.Wrap(vorpalerr.KindTransientIO, "dial worker build stream", err)}
	}

	var cached bool
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return BuildResult{Digest: digest, Name: name, Err: err}
		}
		if event.Log != "" {
			logger.Info(event.Log, zap.String("digest", digest), zap.String("name", name))
		}
		if event.Phase != "" {
			logger.Debug("build phase", zap.String("digest", digest), zap.String("phase", event.Phase))
		}
		if event.Cached {
			cached = true
		}
	}

	destPath := filepath.Join(outputDir, store.GetStoreDirName(digest, name))
	if err := pullAndUnpack(ctx, archiveClient, namespace, digest, destPath); err != nil {
		return BuildResult{Digest: digest, Name: name, Err: err}
	}

	return BuildResult{Digest: digest, Name: name, Cached: cached, OutputPath: destPath}
}

// pullAndUnpack streams the finished artifact's archive from the
// Registry and expands it to destPath, mirroring internal/worker's
// dependency-materialization pattern but for the Driver's own local
// workspace rather than a sandbox.
func pullAndUnpack(ctx context.Context, client wirearchive.ArchiveServiceClient, namespace, digest, destPath string) error {
	stream, err := client.Pull(ctx, &wirearchive.PullRequest{Digest: digest, Namespace: namespace})
	if err != nil {
		return vorpalerr.Wrap(vorpalerr.KindTransientIO, "pull artifact archive", err)
	}

	pr, pw := io.Pipe()
	go func() {
		for {
			chunk, recvErr := stream.Recv()
			if recvErr == io.EOF {
				pw.Close()
				return
			}
			if recvErr != nil {
				pw.CloseWithError(recvErr)
				return
			}
			if _, writeErr := pw.Write(chunk.Data); writeErr != nil {
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

	return (archives.Tar{}).Extract(ctx, decoder, extractHandler(destPath))
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

func fetchArtifacts(ctx context.Context, client wirecontext.ContextServiceClient) (map[string]*resolvedArtifact, error) {
	listResp, err := client.GetArtifacts(ctx, &wirecontext.GetArtifactsRequest{})
	if err != nil {
		return nil, vorpalerr.Wrap(vorpalerr.KindTransientIO, "list config artifacts", err)
	}

	digests := make([]string, 0, len(listResp.Digests))
	seen := make(map[string]bool, len(listResp.Digests))
	for _, d := range listResp.Digests {
		if !seen[d] {
			seen[d] = true
			digests = append(digests, d)
		}
	}
	sort.Strings(digests)

	artifacts := make(map[string]*resolvedArtifact, len(digests))
	for _, digest := range digests {
		resp, err := client.GetArtifact(ctx, &wirecontext.GetArtifactRequest{Digest: digest})
		if err != nil {
			return nil, vorpalerr.Wrap(vorpalerr.KindTransientIO, fmt.Sprintf("fetch artifact %s", digest), err)
		}
		artifacts[digest] = &resolvedArtifact{digest: digest, artifact: resp.Artifact.ToDomain()}
	}

	return artifacts, nil
}

func dialContextServiceWithRetry(ctx context.Context, dial DialFunc, address string, retries int, delay time.Duration) (wirecontext.ContextServiceClient, *grpc.ClientConn, error) {
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		conn, err := dial(ctx, address)
		if err != nil {
			lastErr = err
			continue
		}

		client := wirecontext.NewContextServiceClient(conn)
		probeCtx, cancel := context.WithTimeout(ctx, delay)
		_, err = client.GetArtifacts(probeCtx, &wirecontext.GetArtifactsRequest{})
		cancel()
		if err == nil {
			return client, conn, nil
		}

		lastErr = err
		conn.Close()
	}

	return nil, nil, fmt.Errorf("config child did not become ready after %d retries: %w", retries, lastErr)
}

// stopChild sends SIGTERM, waits up to grace for a clean exit, and
// escalates to Kill if the child ignores it. Returns the child's exit
// error, if any.
func stopChild(cmd *exec.Cmd, grace time.Duration) error {
	if cmd.Process == nil {
		return nil
	}

	cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(grace):
		cmd.Process.Kill()
		return <-done
	}
}

func pickPort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
