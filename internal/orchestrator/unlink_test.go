package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tanmika/tanmidock/internal/paths"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/registry"
)

func TestUnlinkRestoresDirectoryAndDropsProject(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	writeDepConfig(t, env.projectDir,
		`{"url":"https://example.test/libfoo.git","commit":"c1","branch":"main","dir":"libfoo"}`)

	if _, err := env.orchestator.Link(context.Background(), env.projectDir, platform.NewSet(platform.MacOS)); err != nil {
		t.Fatalf("Link: %v", err)
	}

	report, err := env.orchestator.Unlink(env.projectDir)
	if err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if len(report.Restored) != 1 {
		t.Fatalf("Restored = %v, want 1 entry", report.Restored)
	}

	libPath := filepath.Join(env.projectDir, "libfoo")
	info, err := os.Lstat(filepath.Join(libPath, string(platform.MacOS)))
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Fatal("macOS path is still a symlink after Unlink")
	}
	data, err := os.ReadFile(filepath.Join(libPath, string(platform.MacOS), "lib.a"))
	if err != nil || string(data) != "binary\n" {
		t.Fatalf("restored content = %q, err=%v", data, err)
	}

	reg, err := registry.Load(paths.RegistryFile())
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}
	if _, ok := reg.Project(registry.PathHash(mustAbs(t, env.projectDir))); ok {
		t.Fatal("project record still present after Unlink")
	}
	entry, ok := reg.StoreEntry("libfoo", "c1", platform.MacOS)
	if !ok {
		t.Fatal("store entry disappeared; Unlink should only clear usedBy, not remove the entry")
	}
	if len(entry.UsedBy) != 0 {
		t.Fatalf("UsedBy = %v, want empty after Unlink", entry.UsedBy)
	}
	if entry.UnlinkedAt == nil {
		t.Fatal("UnlinkedAt not set after last reference removed")
	}
}

func TestUnlinkUnknownProjectFails(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	if _, err := env.orchestator.Unlink(env.projectDir); err == nil {
		t.Fatal("Unlink = nil error for a project with no recorded link, want error")
	}
}
