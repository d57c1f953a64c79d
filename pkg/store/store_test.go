package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGetFilePaths_ExcludesGitAndGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main")
	writeFile(t, filepath.Join(root, "main.o"), "binary")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main")
	writeFile(t, filepath.Join(root, "pkg", "util.go"), "package pkg")

	paths, err := GetFilePaths(root, []string{"*.o"}, nil)
	if err != nil {
		t.Fatalf("GetFilePaths error: %v", err)
	}

	want := map[string]bool{
		filepath.Join(root, "main.go"):      true,
		filepath.Join(root, "pkg/util.go"):  true,
	}
	if len(paths) != len(want) {
		t.Fatalf("got %v, want keys of %v", paths, want)
	}
	for _, p := range paths {
		if !want[p] {
			t.Fatalf("unexpected path in result: %s", p)
		}
	}
}

func TestGetFilePaths_IncludesRestrictsResult(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "a")
	writeFile(t, filepath.Join(root, "b.txt"), "b")

	paths, err := GetFilePaths(root, nil, []string{"*.go"})
	if err != nil {
		t.Fatalf("GetFilePaths error: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(root, "a.go") {
		t.Fatalf("got %v, want only a.go", paths)
	}
}

func TestHashFiles_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello")
	writeFile(t, filepath.Join(root, "b.txt"), "world")

	paths, err := GetFilePaths(root, nil, nil)
	if err != nil {
		t.Fatalf("GetFilePaths error: %v", err)
	}

	d1, err := HashFiles(paths)
	if err != nil {
		t.Fatalf("HashFiles error: %v", err)
	}
	d2, err := HashFiles(paths)
	if err != nil {
		t.Fatalf("HashFiles error: %v", err)
	}
	if d1 != d2 {
		t.Fatalf("HashFiles not deterministic: %s != %s", d1, d2)
	}
}

func TestCopyFiles_PreservesStructureAndSymlinks(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "nested", "file.txt"), "contents")
	if err := os.Symlink("file.txt", filepath.Join(src, "nested", "link.txt")); err != nil {
		t.Fatal(err)
	}

	paths, err := GetFilePaths(src, nil, nil)
	if err != nil {
		t.Fatalf("GetFilePaths error: %v", err)
	}

	copied, err := CopyFiles(src, paths, dst)
	if err != nil {
		t.Fatalf("CopyFiles error: %v", err)
	}
	if len(copied) != 2 {
		t.Fatalf("copied %v, want 2 entries", copied)
	}

	data, err := os.ReadFile(filepath.Join(dst, "nested", "file.txt"))
	if err != nil {
		t.Fatalf("read copied file: %v", err)
	}
	if string(data) != "contents" {
		t.Fatalf("contents = %q, want %q", data, "contents")
	}

	linkTarget, err := os.Readlink(filepath.Join(dst, "nested", "link.txt"))
	if err != nil {
		t.Fatalf("read copied symlink: %v", err)
	}
	if linkTarget != "file.txt" {
		t.Fatalf("link target = %q, want %q", linkTarget, "file.txt")
	}
}

func TestGetStoreDirName(t *testing.T) {
	got := GetStoreDirName("abc123", "myapp")
	if got != "myapp-abc123" {
		t.Fatalf("GetStoreDirName = %q, want %q", got, "myapp-abc123")
	}
}
