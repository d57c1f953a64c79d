package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFiles copies sourcePathFiles (as returned by GetFilePaths, rooted
// at sourcePath) into targetPath, preserving directory structure,
// symlinks, and regular-file permissions. It returns the resulting file
// list under targetPath.
func CopyFiles(sourcePath string, sourcePathFiles []string, targetPath string) ([]string, error) {
	if len(sourcePathFiles) == 0 {
		return nil, fmt.Errorf("no source files found")
	}

	for _, src := range sourcePathFiles {
		if strings.HasSuffix(src, ".tar.zst") {
			return nil, fmt.Errorf("source file is a tar.zst archive")
		}

		fileInfo, err := os.Lstat(src)
		if err != nil {
			return nil, fmt.Errorf("read metadata for %s: %w", src, err)
		}

		relPath, err := filepath.Rel(sourcePath, src)
		if err != nil {
			return nil, fmt.Errorf("relative path for %s: %w", src, err)
		}

		dest := filepath.Join(targetPath, relPath)

		switch {
		case fileInfo.IsDir():
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return nil, fmt.Errorf("create directory %s: %w", dest, err)
			}

		case fileInfo.Mode()&os.ModeSymlink != 0:
			linkTarget, err := os.Readlink(src)
			if err != nil {
				return nil, fmt.Errorf("read symlink %s: %w", src, err)
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return nil, fmt.Errorf("create parent of %s: %w", dest, err)
			}
			if _, err := os.Lstat(dest); err == nil {
				os.Remove(dest)
			}
			if err := os.Symlink(linkTarget, dest); err != nil {
				return nil, fmt.Errorf("symlink %s: %w", dest, err)
			}

		case fileInfo.Mode().IsRegular():
			if err := copyRegularFile(src, dest, fileInfo.Mode()); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("source is not a file, directory, or symlink: %s", src)
		}
	}

	return GetFilePaths(targetPath, nil, nil)
}

func copyRegularFile(src, dest string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", dest, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer srcFile.Close()

	destFile, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, srcFile); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dest, err)
	}

	if err := os.Chmod(dest, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", dest, err)
	}

	return nil
}
