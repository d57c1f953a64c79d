// Package store implements Vorpal's on-disk layout: the cache of
// unpacked artifact outputs, the sandbox scratch directories Workers
// execute steps in, and the path/glob/hash helpers both depend on.
package store

import (
	"fmt"
	"path/filepath"
)

// GetStoreDirName returns the "<name>-<digest>" directory name used for
// both cache entries and archive filenames.
func GetStoreDirName(digest string, name string) string {
	return fmt.Sprintf("%s-%s", name, digest)
}

// GetRootDirPath is the root of all Vorpal local state.
func GetRootDirPath() string {
	return "/var/lib/vorpal"
}

func GetCacheDirPath() string {
	return filepath.Join(GetRootDirPath(), "cache")
}

func GetSandboxDirPath() string {
	return filepath.Join(GetRootDirPath(), "sandbox")
}

func GetLockDirPath() string {
	return filepath.Join(GetRootDirPath(), "lock")
}

func GetCacheArchivePath(digest string, name string) string {
	return filepath.Join(GetCacheDirPath(), GetStoreDirName(digest, name)+".tar.zst")
}

func GetCacheOutputPath(digest string, name string) string {
	return filepath.Join(GetCacheDirPath(), GetStoreDirName(digest, name))
}

func GetBuildLockPath(digest string) string {
	return filepath.Join(GetLockDirPath(), digest+".lock.json")
}
