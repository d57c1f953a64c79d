package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// GetFileHash returns the SHA-256 hash of a regular file's contents.
func GetFileHash(path string) (string, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if fileInfo.IsDir() {
		return "", fmt.Errorf("path is not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// GetFileHashes hashes every regular file in files, skipping anything
// that is no longer a plain file.
func GetFileHashes(files []string) ([]string, error) {
	hashes := make([]string, 0, len(files))

	for _, file := range files {
		fileInfo, err := os.Stat(file)
		if err != nil || fileInfo.IsDir() {
			continue
		}

		hash, err := GetFileHash(file)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}

	return hashes, nil
}

// GetHashesDigest combines already-sorted per-file hashes into a single
// digest, over their concatenation.
func GetHashesDigest(hashes []string) string {
	combined := ""
	for _, hash := range hashes {
		combined += hash
	}
	return GetHashDigest(combined)
}

// HashFiles computes the combined source digest for paths (as returned
// by GetFilePaths, already sorted), used as an ArtifactSource's content
// hash.
func HashFiles(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("no source files found")
	}

	hashes, err := GetFileHashes(paths)
	if err != nil {
		return "", err
	}

	return GetHashesDigest(hashes), nil
}

// GetHashDigest returns the SHA-256 hash of s, hex-encoded.
func GetHashDigest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
