// Package agent implements the Agent component: turning an Artifact's
// sources into content-addressed archives pushed to the Registry, with
// lockfile-enforced drift detection. The source-kind inference, HTTP
// download plus magic-byte sniffing plus mholt/archives extraction, and
// local-directory hashing are generalized from a single in-process
// config callback into a standalone gRPC service streaming progress
// events to a remote Driver.
package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/mholt/archives"

	"github.com/vorpal-sh/vorpal/pkg/artifact"
	"github.com/vorpal-sh/vorpal/pkg/store"
	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
)

type sourceKind int

const (
	sourceKindUnknown sourceKind = iota
	sourceKindLocal
	sourceKindHTTP
	sourceKindGit
)

func inferSourceKind(path string) sourceKind {
	if strings.HasPrefix(path, "git://") || strings.HasSuffix(path, ".git") {
		return sourceKindGit
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return sourceKindHTTP
	}
	if _, err := os.Stat(path); err == nil {
		return sourceKindLocal
	}
	return sourceKindUnknown
}

// resolveSource materializes source into a local directory (downloading
// or cloning as needed), hashes its contents per §4.3, and returns that
// directory plus the computed source digest. excludes always implicitly
// includes ".git" (enforced in pkg/store).
func resolveSource(ctx context.Context, src artifact.ArtifactSource) (dir string, digest string, err error) {
	switch inferSourceKind(src.Path) {
	case sourceKindLocal:
		return hashLocalDirectory(src.Path, src.Excludes, src.Includes)

	case sourceKindHTTP:
		return resolveHTTPSource(ctx, src)

	case sourceKindGit:
		return resolveGitSource(ctx, src)

	default:
		return "", "", vorpalerr.NewValidationError(fmt.Sprintf("source %q: unknown or unsupported path scheme: %s", src.Name, src.Path))
	}
}

func hashLocalDirectory(path string, excludes, includes []string) (string, string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	paths, err := store.GetFilePaths(absPath, excludes, includes)
	if err != nil {
		return "", "", err
	}

	for _, p := range paths {
		if err := store.SetTimestamps(p); err != nil {
			return "", "", err
		}
	}

	digest, err := store.HashFiles(paths)
	if err != nil {
		return "", "", err
	}

	return absPath, digest, nil
}

func resolveHTTPSource(ctx context.Context, src artifact.ArtifactSource) (string, string, error) {
	remote, err := url.Parse(src.Path)
	if err != nil {
		return "", "", vorpalerr.NewValidationError(fmt.Sprintf("source %q: invalid URL: %v", src.Name, err))
	}
	if remote.Scheme != "http" && remote.Scheme != "https" {
		return "", "", vorpalerr.NewValidationError(fmt.Sprintf("source %q: path must be http or https", src.Name))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remote.String(), nil)
	if err != nil {
		return "", "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", vorpalerr.Wrap(vorpalerr.KindTransientIO, fmt.Sprintf("fetch source %q", src.Name), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", "", vorpalerr.NewTransientIO(fmt.Sprintf("source %q: HTTP request failed: %s", src.Name, resp.Status))
	}

	sandboxDir, err := store.NewSandboxDir()
	if err != nil {
		return "", "", err
	}

	kind, err := filetype.MatchReader(resp.Body)
	if err != nil {
		return "", "", err
	}

	if err := extractHTTPBody(ctx, resp.Body, kind.MIME.Value, sandboxDir); err != nil {
		return "", "", err
	}

	return hashLocalDirectory(sandboxDir, src.Excludes, src.Includes)
}

func extractHTTPBody(ctx context.Context, body io.Reader, mimeType, destDir string) error {
	extractTar := func(decoded io.ReadCloser) error {
		defer decoded.Close()
		return archives.Tar{}.Extract(ctx, decoded, handleArchiveFile(destDir))
	}

	switch mimeType {
	case "application/gzip":
		r, err := (archives.Gz{}).OpenReader(body)
		if err != nil {
			return err
		}
		return extractTar(r)

	case "application/x-bzip2":
		r, err := (archives.Bz2{}).OpenReader(body)
		if err != nil {
			return err
		}
		return extractTar(r)

	case "application/x-xz":
		r, err := (archives.Xz{}).OpenReader(body)
		if err != nil {
			return err
		}
		return extractTar(r)

	case "application/zip":
		tmp, err := os.CreateTemp("", "vorpal-source-*.zip")
		if err != nil {
			return err
		}
		defer os.Remove(tmp.Name())
		if _, err := io.Copy(tmp, body); err != nil {
			tmp.Close()
			return err
		}
		tmp.Close()

		zipFmt := archives.Zip{}
		f, err := os.Open(tmp.Name())
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		return zipFmt.Extract(ctx, io.NewSectionReader(f, 0, info.Size()), handleArchiveFile(destDir))

	default:
		return vorpalerr.NewValidationError(fmt.Sprintf("unsupported remote source content type: %s", mimeType))
	}
}

func handleArchiveFile(destDir string) archives.FileHandler {
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

// resolveGitSource clones path at its ref (a "#<ref>" fragment, default
// HEAD) into a sandbox directory. Git is treated as an external
// dependency artifact (shelled out to the git binary) rather than
// vendoring a pure-Go implementation, the same way other external
// tools (bwrap, tar) are driven by exec rather than reimplemented.
func resolveGitSource(ctx context.Context, src artifact.ArtifactSource) (string, string, error) {
	repoURL := src.Path
	ref := ""
	if idx := strings.LastIndex(repoURL, "#"); idx != -1 {
		ref = repoURL[idx+1:]
		repoURL = repoURL[:idx]
	}

	sandboxDir, err := store.NewSandboxDir()
	if err != nil {
		return "", "", err
	}

	cloneArgs := []string{"clone", "--quiet", repoURL, sandboxDir}
	if err := runGit(ctx, "", cloneArgs...); err != nil {
		return "", "", vorpalerr.Wrap(vorpalerr.KindTransientIO, fmt.Sprintf("clone source %q", src.Name), err)
	}

	if ref != "" {
		if err := runGit(ctx, sandboxDir, "checkout", "--quiet", ref); err != nil {
			return "", "", vorpalerr.Wrap(vorpalerr.KindValidationError, fmt.Sprintf("checkout ref %q for source %q", ref, src.Name), err)
		}
	}

	return hashLocalDirectory(sandboxDir, src.Excludes, src.Includes)
}

func runGit(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, out)
	}
	return nil
}
