package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
)

func TestLockFile_NewSourceAccepted(t *testing.T) {
	dir := t.TempDir()
	lf, err := Load(filepath.Join(dir, "vorpal.lock"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if err := lf.Check("app", "./app", "x86_64-linux", nil, nil, "digest1", false); err != nil {
		t.Fatalf("Check on new source: %v", err)
	}
	k := key("app", "./app", "x86_64-linux", nil, nil)
	if lf.Sources[k].Digest != "digest1" {
		t.Fatalf("entry not recorded")
	}
}

func TestLockFile_DriftRejectedWithoutUnlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vorpal.lock")

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := lf.Check("app", "./app", "x86_64-linux", nil, nil, "digest1", false); err != nil {
		t.Fatalf("first Check: %v", err)
	}
	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}

	err = reloaded.Check("app", "./app", "x86_64-linux", nil, nil, "digest2", false)
	if err == nil {
		t.Fatal("expected drift error, got nil")
	}
	if vorpalerr.KindOf(err) != vorpalerr.KindIntegrityError {
		t.Fatalf("KindOf(err) = %v, want KindIntegrityError", vorpalerr.KindOf(err))
	}
	k := key("app", "./app", "x86_64-linux", nil, nil)
	if reloaded.Sources[k].Digest != "digest1" {
		t.Fatal("entry was overwritten despite rejected drift")
	}
}

func TestLockFile_UnlockRewritesEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vorpal.lock")

	lf, _ := Load(path)
	lf.Check("app", "./app", "x86_64-linux", nil, nil, "digest1", false)
	lf.Save()

	reloaded, _ := Load(path)
	if err := reloaded.Check("app", "./app", "x86_64-linux", nil, nil, "digest2", true); err != nil {
		t.Fatalf("Check with unlock: %v", err)
	}
	k := key("app", "./app", "x86_64-linux", nil, nil)
	if reloaded.Sources[k].Digest != "digest2" {
		t.Fatalf("entry not rewritten, got %s", reloaded.Sources[k].Digest)
	}
}

func TestLockFile_SameNameDifferentPlatformDoesNotCollide(t *testing.T) {
	dir := t.TempDir()
	lf, _ := Load(filepath.Join(dir, "vorpal.lock"))

	if err := lf.Check("app", "./app", "x86_64-linux", nil, nil, "digest-linux", false); err != nil {
		t.Fatalf("Check linux: %v", err)
	}
	if err := lf.Check("app", "./app", "aarch64-darwin", nil, nil, "digest-darwin", false); err != nil {
		t.Fatalf("Check darwin: %v", err)
	}

	if len(lf.Sources) != 2 {
		t.Fatalf("expected 2 independent entries, got %d", len(lf.Sources))
	}
}

func TestLockFile_SameNameDifferentGlobsDoNotCollide(t *testing.T) {
	dir := t.TempDir()
	lf, _ := Load(filepath.Join(dir, "vorpal.lock"))

	if err := lf.Check("app", "./app", "x86_64-linux", []string{"*.go"}, nil, "digest-a", false); err != nil {
		t.Fatalf("Check includes=*.go: %v", err)
	}
	if err := lf.Check("app", "./app", "x86_64-linux", []string{"*.rs"}, nil, "digest-b", false); err != nil {
		t.Fatalf("Check includes=*.rs: %v", err)
	}

	if len(lf.Sources) != 2 {
		t.Fatalf("expected 2 independent entries, got %d", len(lf.Sources))
	}
}
