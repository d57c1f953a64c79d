package registry

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/vorpal-sh/vorpal/pkg/artifact"
	wirearchive "github.com/vorpal-sh/vorpal/rpcapi/archive"
	wireartifact "github.com/vorpal-sh/vorpal/rpcapi/artifact"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	store := NewFSBlobStore(t.TempDir())
	return New(store, 300*time.Second)
}

func TestFSBlobStore_CreateThenOpen(t *testing.T) {
	store := NewFSBlobStore(t.TempDir())
	ctx := context.Background()

	w, err := store.Create(ctx, "x/y.txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w.Write([]byte("hello"))
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	exists, err := store.Exists(ctx, "x/y.txt")
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v", exists, err)
	}

	rc, err := store.Open(ctx, "x/y.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "hello" {
		t.Fatalf("data = %q, want %q", data, "hello")
	}
}

func TestFSBlobStore_OpenMissingIsNotFound(t *testing.T) {
	store := NewFSBlobStore(t.TempDir())
	if _, err := store.Open(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestArtifactServer_StoreThenGet(t *testing.T) {
	reg := newTestRegistry(t)
	server := NewArtifactServer(reg)
	ctx := context.Background()

	entrypoint := "bash"
	a := &artifact.Artifact{
		Name:    "app",
		Target:  artifact.X8664Linux,
		Systems: []artifact.System{artifact.X8664Linux},
		Steps:   []artifact.ArtifactStep{{Entrypoint: &entrypoint}},
	}
	digest, err := a.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	storeResp, err := server.StoreArtifact(ctx, &wireartifact.StoreArtifactRequest{
		Artifact:  wireartifact.FromDomain(a),
		Digest:    digest,
		Namespace: "default",
	})
	if err != nil {
		t.Fatalf("StoreArtifact: %v", err)
	}
	if storeResp.Digest != digest {
		t.Fatalf("stored digest = %s, want %s", storeResp.Digest, digest)
	}

	got, err := server.GetArtifact(ctx, &wireartifact.GetArtifactRequest{Digest: digest, Namespace: "default"})
	if err != nil {
		t.Fatalf("GetArtifact: %v", err)
	}
	if got.Name != "app" {
		t.Fatalf("got.Name = %s, want app", got.Name)
	}
}

func TestArtifactServer_StoreRejectsDigestMismatch(t *testing.T) {
	reg := newTestRegistry(t)
	server := NewArtifactServer(reg)

	entrypoint := "bash"
	a := &artifact.Artifact{
		Name:    "app",
		Target:  artifact.X8664Linux,
		Systems: []artifact.System{artifact.X8664Linux},
		Steps:   []artifact.ArtifactStep{{Entrypoint: &entrypoint}},
	}

	_, err := server.StoreArtifact(context.Background(), &wireartifact.StoreArtifactRequest{
		Artifact:  wireartifact.FromDomain(a),
		Digest:    "not-the-real-digest",
		Namespace: "default",
	})
	if err == nil {
		t.Fatal("expected digest mismatch error")
	}
}

func TestArchiveServer_CheckCachesResult(t *testing.T) {
	reg := newTestRegistry(t)
	server := NewArchiveServer(reg)
	ctx := context.Background()

	resp, err := server.Check(ctx, &wirearchive.CheckRequest{Namespace: "default", Digest: "abc"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.Exists {
		t.Fatal("expected Exists=false for unpushed digest")
	}

	cached, ok := reg.cache.Get("default", "abc")
	if !ok || cached {
		t.Fatalf("cache = %v, %v, want false, true", cached, ok)
	}
}
