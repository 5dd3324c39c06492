package orchestrator

import (
	"context"
	"os"
	"testing"

	"github.com/tanmika/tanmidock/internal/config"
	"github.com/tanmika/tanmidock/internal/paths"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/registry"
)

func TestCleanUnreferencedRemovesOrphanedEntry(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	writeDepConfig(t, env.projectDir,
		`{"url":"https://example.test/libfoo.git","commit":"c1","branch":"main","dir":"libfoo"}`)

	if _, err := env.orchestator.Link(context.Background(), env.projectDir, platform.NewSet(platform.MacOS)); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if _, err := env.orchestator.Unlink(env.projectDir); err != nil {
		t.Fatalf("Unlink: %v", err)
	}

	report, err := env.orchestator.Clean(nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(report.Removed) != 1 {
		t.Fatalf("Removed = %v, want 1 entry", report.Removed)
	}

	reg, err := registry.Load(paths.RegistryFile())
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}
	if _, ok := reg.StoreEntry("libfoo", "c1", platform.MacOS); ok {
		t.Fatal("store entry still present after Clean")
	}
	if _, err := os.Stat(env.orchestator.store.CommitPathOf("libfoo", "c1")); !os.IsNotExist(err) {
		t.Fatalf("commit directory still present after Clean: err=%v", err)
	}
}

func TestCleanUnusedHonoursAgeThreshold(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	writeDepConfig(t, env.projectDir,
		`{"url":"https://example.test/libfoo.git","commit":"c1","branch":"main","dir":"libfoo"}`)

	if _, err := env.orchestator.Link(context.Background(), env.projectDir, platform.NewSet(platform.MacOS)); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if _, err := env.orchestator.Unlink(env.projectDir); err != nil {
		t.Fatalf("Unlink: %v", err)
	}

	env.orchestator.cfg.CleanStrategy = config.StrategyUnused
	env.orchestator.cfg.UnusedDays = 30

	report, err := env.orchestator.Clean(nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(report.Removed) != 0 {
		t.Fatalf("Removed = %v, want none: entry just unlinked is not yet 30 days stale", report.Removed)
	}
}

func TestCleanLeavesReferencedEntryAlone(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	writeDepConfig(t, env.projectDir,
		`{"url":"https://example.test/libfoo.git","commit":"c1","branch":"main","dir":"libfoo"}`)

	if _, err := env.orchestator.Link(context.Background(), env.projectDir, platform.NewSet(platform.MacOS)); err != nil {
		t.Fatalf("Link: %v", err)
	}

	report, err := env.orchestator.Clean(nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(report.Removed) != 0 {
		t.Fatalf("Removed = %v, want none: entry is still referenced by the linked project", report.Removed)
	}
}
