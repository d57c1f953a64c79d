package agent

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"archive/tar"

	"github.com/vorpal-sh/vorpal/pkg/artifact"
)

func TestInferSourceKind(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		path string
		want sourceKind
	}{
		{dir, sourceKindLocal},
		{"https://example.com/archive.tar.gz", sourceKindHTTP},
		{"http://example.com/archive.tar.gz", sourceKindHTTP},
		{"https://example.com/repo.git", sourceKindGit},
		{"git://example.com/repo", sourceKindGit},
		{"/no/such/path", sourceKindUnknown},
	}

	for _, tt := range tests {
		if got := inferSourceKind(tt.path); got != tt.want {
			t.Errorf("inferSourceKind(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveSource_LocalDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolvedDir, digest, err := resolveSource(context.Background(), artifact.ArtifactSource{
		Name: "app",
		Path: dir,
	})
	if err != nil {
		t.Fatalf("resolveSource: %v", err)
	}
	if digest == "" {
		t.Fatal("expected non-empty digest")
	}
	if resolvedDir == "" {
		t.Fatal("expected non-empty resolved directory")
	}
}

func TestResolveSource_LocalDirectoryDeterministic(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := artifact.ArtifactSource{Name: "x", Path: dir}

	_, d1, err := resolveSource(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	_, d2, err := resolveSource(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Fatalf("digest not deterministic: %s != %s", d1, d2)
	}
}

func TestResolveSource_HTTPGzipTar(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	content := []byte("fn main() {}\n")
	if err := tw.WriteHeader(&tar.Header{Name: "main.rs", Mode: 0o644, Size: int64(len(content))}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	gz.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	_, digest, err := resolveSource(context.Background(), artifact.ArtifactSource{
		Name: "remote",
		Path: server.URL + "/src.tar.gz",
	})
	if err != nil {
		t.Fatalf("resolveSource: %v", err)
	}
	if digest == "" {
		t.Fatal("expected non-empty digest")
	}
}

func TestResolveSource_UnknownPathRejected(t *testing.T) {
	_, _, err := resolveSource(context.Background(), artifact.ArtifactSource{
		Name: "bad",
		Path: "ftp://example.com/file",
	})
	if err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}
