package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// GetSandboxPath allocates a fresh, time-ordered sandbox path. uuid.NewV7
// keeps sandbox directory names sortable by creation order, which makes
// stale-sandbox sweeps (oldest first) a plain lexical directory scan.
func GetSandboxPath() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("allocate sandbox id: %w", err)
	}
	return filepath.Join(GetSandboxDirPath(), id.String()), nil
}

// NewSandboxDir creates and returns a fresh sandbox directory.
func NewSandboxDir() (string, error) {
	path, err := GetSandboxPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveSandboxDir tears down a sandbox directory after archiving.
func RemoveSandboxDir(path string) error {
	return os.RemoveAll(path)
}
