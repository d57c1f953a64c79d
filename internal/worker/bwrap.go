package worker

import "fmt"

// dependency is one of the artifact's resolved, unpacked dependencies:
// its digest and the local path its output was expanded into.
type dependency struct {
	Digest string
	Path   string
}

// bwrapArgs assembles the bubblewrap argument list for sandboxing a
// Linux build step: --unshare-all --share-net, a --dev/--proc/--tmpfs
// skeleton, a rootfs ro-bind-from-a-dependency convention, and
// read-only bind-mounting of every other dependency's output. Unlike a
// config-time builder, this is generated at build time from the live
// dependency set. deps must already be in a stable order (declaration
// order) so two builds of the same digest produce byte-identical
// scripts.
func bwrapArgs(workspace, output string, rootfsPath string, deps []dependency, extraArgs []string) []string {
	args := []string{
		"--unshare-all",
		"--share-net",
		"--clearenv",
		"--chdir", workspace,
		"--gid", "1000",
		"--uid", "1000",
		"--dev", "/dev",
		"--proc", "/proc",
		"--tmpfs", "/tmp",
		"--bind", output, output,
		"--bind", workspace, workspace,
		"--setenv", "VORPAL_OUTPUT", output,
		"--setenv", "VORPAL_WORKSPACE", workspace,
	}

	if rootfsPath != "" {
		for _, dir := range []string{"bin", "etc", "lib", "sbin", "usr"} {
			args = append(args, "--ro-bind", fmt.Sprintf("%s/%s", rootfsPath, dir), "/"+dir)
		}
		args = append(args, "--ro-bind-try", fmt.Sprintf("%s/lib64", rootfsPath), "/lib64")
	}

	for _, dep := range deps {
		args = append(args, "--ro-bind", dep.Path, dep.Path)
		args = append(args, "--setenv", "VORPAL_ARTIFACT_"+dep.Digest, dep.Path)
	}

	args = append(args, "--setenv", "PATH", bwrapPath(deps))

	args = append(args, extraArgs...)

	return args
}

func bwrapPath(deps []dependency) string {
	path := "/usr/local/bin:/usr/bin:/usr/sbin:/bin:/sbin"
	for i := len(deps) - 1; i >= 0; i-- {
		path = fmt.Sprintf("%s/bin:%s", deps[i].Path, path)
	}
	return path
}
