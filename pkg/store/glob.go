package store

import "path/filepath"

// matchGlob reports whether path matches any of patterns, using
// filepath.Match against both the full path and its base name (so a
// pattern like "*.o" matches nested build output, not only top-level
// files). Intermediate directory names are not matched on their own.
func matchGlob(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
			return true
		}
	}
	return false
}

func shouldExclude(path string, excludes []string) bool {
	if matchGlob(path, []string{".git"}) {
		return true
	}
	return matchGlob(path, excludes)
}

func shouldInclude(path string, includes []string) bool {
	if len(includes) == 0 {
		return true
	}
	return matchGlob(path, includes)
}
