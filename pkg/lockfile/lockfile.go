// Package lockfile implements the Agent's source-drift detection: a
// local lockfile records the digest an ArtifactSource resolved to the
// last time it was prepared, and a later prepare of the same source
// whose on-disk content no longer matches that digest is a hard
// failure unless the caller explicitly asks to rewrite the entry.
package lockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
)

// Entry is one source's recorded digest, carrying every field the
// lockfile format persists: name, path, platform, digest, and the
// include/exclude globs that shaped digest computation.
type Entry struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Platform string   `json:"platform"`
	Digest   string   `json:"digest"`
	Includes []string `json:"includes"`
	Excludes []string `json:"excludes"`
}

// key derives the lockfile lookup key from the tuple
// (name, path, platform, includes, excludes) — deliberately omitting
// digest, since digest is exactly the value being checked for drift.
func key(name, path, platform string, includes, excludes []string) string {
	return strings.Join([]string{
		name, path, platform,
		strings.Join(includes, ","),
		strings.Join(excludes, ","),
	}, "\x00")
}

// LockFile is a lookup-key -> Entry map, persisted as JSON alongside
// the config that produced it.
type LockFile struct {
	path    string
	Sources map[string]Entry `json:"sources"`
}

// Load reads the lockfile at path, returning an empty LockFile if it
// does not yet exist.
func Load(path string) (*LockFile, error) {
	lf := &LockFile{path: path, Sources: map[string]Entry{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("read lockfile: %w", err)
	}

	if err := json.Unmarshal(data, &lf.Sources); err != nil {
		return nil, fmt.Errorf("parse lockfile %s: %w", path, err)
	}

	return lf, nil
}

// Save persists the lockfile as indented JSON.
func (lf *LockFile) Save() error {
	data, err := json.MarshalIndent(lf.Sources, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(lf.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(lf.path, data, 0o644)
}

// Check enforces drift detection for a source keyed by
// (name, path, platform, includes, excludes): if a prior entry exists
// for that key and its digest differs from digest, it is a fatal
// IntegrityError unless unlock is true. On success (no prior entry, a
// matching digest, or an explicit unlock) the entry is written with the
// new digest.
func (lf *LockFile) Check(name, path, platform string, includes, excludes []string, digest string, unlock bool) error {
	k := key(name, path, platform, includes, excludes)
	prior, exists := lf.Sources[k]

	if exists && prior.Digest != digest && !unlock {
		return vorpalerr.NewIntegrityError(fmt.Sprintf(
			"source %q content changed (locked digest %s, computed %s); rerun with unlock=true to accept",
			name, prior.Digest, digest))
	}

	lf.Sources[k] = Entry{
		Name:     name,
		Path:     path,
		Platform: platform,
		Digest:   digest,
		Includes: includes,
		Excludes: excludes,
	}

	return nil
}
