package store

import (
	"os"
	"syscall"
	"time"
)

var epoch = time.Unix(0, 0)

// SetSymlinkTimestamps sets a symlink's access/modification times to the
// Unix epoch without following the link.
func SetSymlinkTimestamps(path string) error {
	ts := []syscall.Timespec{
		{Sec: epoch.Unix(), Nsec: 0},
		{Sec: epoch.Unix(), Nsec: 0},
	}
	return syscall.UtimesNano(path, ts)
}

// SetTimestamps normalizes a file or symlink's timestamps to the Unix
// epoch. Builds must be bit-for-bit reproducible, so no artifact output
// may carry a build-wall-clock-derived mtime.
func SetTimestamps(path string) error {
	fileInfo, err := os.Lstat(path)
	if err != nil {
		return err
	}

	if fileInfo.Mode()&os.ModeSymlink != 0 {
		return SetSymlinkTimestamps(path)
	}

	return os.Chtimes(path, epoch, epoch)
}

// NormalizeTimestamps walks every entry under root and resets its
// timestamps to the epoch, for reproducible archive creation.
func NormalizeTimestamps(root string) error {
	paths, err := GetFilePaths(root, nil, nil)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := SetTimestamps(path); err != nil {
			return err
		}
	}
	return nil
}
