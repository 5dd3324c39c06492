package absorber

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/store"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestAbsorbLibSplitsPlatformsAndShared(t *testing.T) {
	root := t.TempDir()
	s := store.New(filepath.Join(root, "store"))

	src := filepath.Join(root, "src")
	mustWrite(t, filepath.Join(src, "macOS", "lib.a"), "binary")
	mustWrite(t, filepath.Join(src, "ubuntu", "lib.so"), "binary")
	mustWrite(t, filepath.Join(src, "manifest.json"), "{}")

	requested := platform.NewSet(platform.MacOS)
	result, err := AbsorbLib(src, requested, s, "libfoo", "c1")
	if err != nil {
		t.Fatalf("AbsorbLib: %v", err)
	}

	if _, ok := result.PlatformPaths[platform.MacOS]; !ok {
		t.Fatal("macOS not reported as absorbed")
	}
	if _, err := os.Stat(s.StorePathOf("libfoo", "c1", platform.MacOS)); err != nil {
		t.Fatalf("macOS not moved into store: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "ubuntu")); err != nil {
		t.Fatalf("ubuntu (not requested) should remain in srcDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(result.SharedPath, "manifest.json")); err != nil {
		t.Fatalf("manifest.json not moved into _shared: %v", err)
	}
}

func TestAbsorbLibSkipsConflict(t *testing.T) {
	root := t.TempDir()
	s := store.New(filepath.Join(root, "store"))

	mustWrite(t, s.StorePathOf("libfoo", "c1", platform.MacOS)+"/lib.a", "existing")

	src := filepath.Join(root, "src")
	mustWrite(t, filepath.Join(src, "macOS", "lib.a"), "new")

	requested := platform.NewSet(platform.MacOS)
	result, err := AbsorbLib(src, requested, s, "libfoo", "c1")
	if err != nil {
		t.Fatalf("AbsorbLib: %v", err)
	}
	if len(result.SkippedPlatforms) != 1 || result.SkippedPlatforms[0] != platform.MacOS {
		t.Fatalf("SkippedPlatforms = %v, want [macOS]", result.SkippedPlatforms)
	}

	data, err := os.ReadFile(s.StorePathOf("libfoo", "c1", platform.MacOS) + "/lib.a")
	if err != nil || string(data) != "existing" {
		t.Fatalf("existing store content overwritten: data=%q err=%v", data, err)
	}
	if _, err := os.Stat(filepath.Join(src, "macOS")); err != nil {
		t.Fatalf("source not preserved after skip: %v", err)
	}
}

func TestAbsorbGeneralMovesWholeDir(t *testing.T) {
	root := t.TempDir()
	s := store.New(filepath.Join(root, "store"))

	src := filepath.Join(root, "src")
	mustWrite(t, filepath.Join(src, "header.h"), "x")

	result, err := AbsorbGeneral(src, s, "libfoo", "c1")
	if err != nil {
		t.Fatalf("AbsorbGeneral: %v", err)
	}
	if _, err := os.Stat(filepath.Join(result.SharedPath, "header.h")); err != nil {
		t.Fatalf("header.h not present in shared: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("srcDir still present after AbsorbGeneral: err=%v", err)
	}
}

func TestAbsorbGeneralHandlesNestedShared(t *testing.T) {
	root := t.TempDir()
	s := store.New(filepath.Join(root, "store"))

	src := filepath.Join(root, "src")
	mustWrite(t, filepath.Join(src, store.SharedDir, "header.h"), "x")

	result, err := AbsorbGeneral(src, s, "libfoo", "c1")
	if err != nil {
		t.Fatalf("AbsorbGeneral: %v", err)
	}
	if _, err := os.Stat(filepath.Join(result.SharedPath, "header.h")); err != nil {
		t.Fatalf("header.h not present in shared: %v", err)
	}
	// Must not double-nest: no _shared/_shared.
	if _, err := os.Stat(filepath.Join(result.SharedPath, store.SharedDir)); !os.IsNotExist(err) {
		t.Fatalf("double-nested _shared/_shared created: err=%v", err)
	}
}
