package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tanmika/tanmidock/internal/platform"
)

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestStorePathOf(t *testing.T) {
	s := New("/root/store")

	got := s.StorePathOf("libfoo", "abc123", platform.MacOS)
	want := filepath.Join("/root/store", "libfoo", "abc123", "macOS")
	if got != want {
		t.Fatalf("StorePathOf = %q, want %q", got, want)
	}

	got = s.StorePathOf("libfoo", "abc123", platform.General)
	want = filepath.Join("/root/store", "libfoo", "abc123", SharedDir)
	if got != want {
		t.Fatalf("StorePathOf(general) = %q, want %q", got, want)
	}
}

func TestExistsConcretePlatform(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	ok, err := s.Exists("libfoo", "c1", platform.Ubuntu)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("Exists = true before directory created")
	}

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", "ubuntu", "lib.a"), "x")
	ok, err = s.Exists("libfoo", "c1", platform.Ubuntu)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatal("Exists = false after directory created")
	}
}

func TestExistsGeneralRequiresNonEmptyShared(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	sharedDir := filepath.Join(root, "libfoo", "c1", SharedDir)
	if err := os.MkdirAll(sharedDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	ok, err := s.Exists("libfoo", "c1", platform.General)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("Exists(general) = true for empty _shared")
	}

	mustWriteFile(t, filepath.Join(sharedDir, "header.h"), "x")
	ok, err = s.Exists("libfoo", "c1", platform.General)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatal("Exists(general) = false for non-empty _shared")
	}
}

func TestCheckPlatformCompleteness(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", "macOS", "a"), "x")

	requested := platform.NewSet(platform.MacOS, platform.Ubuntu, platform.Windows)
	existing, missing, err := s.CheckPlatformCompleteness("libfoo", "c1", requested)
	if err != nil {
		t.Fatalf("CheckPlatformCompleteness: %v", err)
	}
	if len(existing) != 1 || existing[0] != platform.MacOS {
		t.Fatalf("existing = %v, want [macOS]", existing)
	}
	if len(missing) != 2 {
		t.Fatalf("missing = %v, want 2 entries", missing)
	}
}

func TestDetectVersionUnknownV06V05(t *testing.T) {
	root := t.TempDir()

	emptyCommit := filepath.Join(root, "libfoo", "empty")
	if err := os.MkdirAll(emptyCommit, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	v, err := DetectVersion(emptyCommit)
	if err != nil {
		t.Fatalf("DetectVersion: %v", err)
	}
	if v != Unknown {
		t.Fatalf("DetectVersion(empty) = %v, want Unknown", v)
	}

	v06Commit := filepath.Join(root, "libfoo", "v06")
	mustWriteFile(t, filepath.Join(v06Commit, SharedDir, "x"), "x")
	mustWriteFile(t, filepath.Join(v06Commit, "macOS", "lib.a"), "x")
	v, err = DetectVersion(v06Commit)
	if err != nil {
		t.Fatalf("DetectVersion: %v", err)
	}
	if v != V06 {
		t.Fatalf("DetectVersion(v06) = %v, want V06", v)
	}

	v05Commit := filepath.Join(root, "libfoo", "v05")
	mustWriteFile(t, filepath.Join(v05Commit, "macOS", "macOS", "lib.a"), "x")
	v, err = DetectVersion(v05Commit)
	if err != nil {
		t.Fatalf("DetectVersion: %v", err)
	}
	if v != V05 {
		t.Fatalf("DetectVersion(v05) = %v, want V05", v)
	}
}

func TestEnsureCompatibleFailsOnV05(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", "macOS", "macOS", "lib.a"), "x")

	if err := s.EnsureCompatible("libfoo", "c1"); err == nil {
		t.Fatal("EnsureCompatible = nil for v0.5 layout, want error")
	}
}

func TestEnsureCompatibleOKForV06AndUnknown(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", SharedDir, "x"), "x")
	if err := s.EnsureCompatible("libfoo", "c1"); err != nil {
		t.Fatalf("EnsureCompatible(v0.6): %v", err)
	}

	if err := s.EnsureCompatible("libfoo", "nonexistent"); err != nil {
		t.Fatalf("EnsureCompatible(unknown): %v", err)
	}
}

func TestRemoveConcretePlatformPrunesUpward(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", "macOS", "lib.a"), "x")
	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", SharedDir, "x"), "")
	os.RemoveAll(filepath.Join(root, "libfoo", "c1", SharedDir))
	if err := os.MkdirAll(filepath.Join(root, "libfoo", "c1", SharedDir), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	if err := s.Remove("libfoo", "c1", platform.MacOS); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "libfoo", "c1")); !os.IsNotExist(err) {
		t.Fatalf("commit directory still present after removing sole platform with empty _shared: err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "libfoo")); !os.IsNotExist(err) {
		t.Fatalf("library directory still present after last commit removed: err=%v", err)
	}
}

func TestRemoveConcretePlatformKeepsNonEmptyShared(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", "macOS", "lib.a"), "x")
	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", SharedDir, "header.h"), "x")

	if err := s.Remove("libfoo", "c1", platform.MacOS); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "libfoo", "c1", SharedDir)); err != nil {
		t.Fatalf("_shared removed even though non-empty: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "libfoo", "c1", "macOS")); !os.IsNotExist(err) {
		t.Fatalf("macOS directory still present: err=%v", err)
	}
}

func TestRemoveGeneralRemovesWholeCommit(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", SharedDir, "header.h"), "x")

	if err := s.Remove("libfoo", "c1", platform.General); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "libfoo", "c1")); !os.IsNotExist(err) {
		t.Fatalf("commit directory still present: err=%v", err)
	}
}

func TestGetSizeSumsFiles(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", "macOS", "a"), "12345")
	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", "macOS", "sub", "b"), "1234567")

	size, err := s.GetSize("libfoo", "c1", platform.MacOS)
	if err != nil {
		t.Fatalf("GetSize: %v", err)
	}
	if size != 12 {
		t.Fatalf("size = %d, want 12", size)
	}
}

func TestGetSizeMissingIsZero(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	size, err := s.GetSize("libfoo", "nope", platform.MacOS)
	if err != nil {
		t.Fatalf("GetSize: %v", err)
	}
	if size != 0 {
		t.Fatalf("size = %d, want 0", size)
	}
}

func TestListLibraries(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", "macOS", "a"), "x")
	mustWriteFile(t, filepath.Join(root, "libfoo", "c1", SharedDir, "h"), "x")
	mustWriteFile(t, filepath.Join(root, "libbar", "c2", SharedDir, "h"), "x")

	entries, err := s.ListLibraries()
	if err != nil {
		t.Fatalf("ListLibraries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3: %v", len(entries), entries)
	}
}

func TestListLibrariesEmptyRoot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))

	entries, err := s.ListLibraries()
	if err != nil {
		t.Fatalf("ListLibraries: %v", err)
	}
	if entries != nil {
		t.Fatalf("entries = %v, want nil", entries)
	}
}
