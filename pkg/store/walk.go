package store

import (
	"os"
	"path/filepath"
	"sort"
)

// GetFilePaths walks inputPath, applying excludes (glob patterns,
// matched against the full path and basename) and includes (if any are
// given, only matching files are kept). ".git" is always excluded.
// Paths are sorted so the result is reproducible across runs, which
// source hashing depends on.
func GetFilePaths(inputPath string, excludes []string, includes []string) ([]string, error) {
	paths := []string{}

	err := filepath.WalkDir(inputPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if shouldExclude(path, excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !shouldInclude(path, includes) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)

	return paths, nil
}
