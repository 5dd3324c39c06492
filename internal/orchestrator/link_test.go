package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tanmika/tanmidock/internal/classify"
	"github.com/tanmika/tanmidock/internal/paths"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/registry"
)

func TestLinkMissingDependencyDownloadsAndLinks(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	writeDepConfig(t, env.projectDir,
		`{"url":"https://example.test/libfoo.git","commit":"c1","branch":"main","dir":"libfoo"}`)

	report, err := env.orchestator.Link(context.Background(), env.projectDir, platform.NewSet(platform.MacOS))
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if len(report.Outcomes) != 1 {
		t.Fatalf("Outcomes = %v, want 1 entry", report.Outcomes)
	}
	out := report.Outcomes[0]
	if out.Status != classify.Missing {
		t.Fatalf("Status = %v, want Missing", out.Status)
	}
	if !out.Linked.Contains(platform.MacOS) {
		t.Fatalf("Linked = %v, want it to contain macOS", out.Linked)
	}

	linkPath := filepath.Join(env.projectDir, "libfoo", string(platform.MacOS))
	if _, err := os.Lstat(linkPath); err != nil {
		t.Fatalf("Lstat(%s): %v", linkPath, err)
	}

	reg, err := registry.Load(paths.RegistryFile())
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}
	if _, ok := reg.Project(registry.PathHash(mustAbs(t, env.projectDir))); !ok {
		t.Fatal("project record missing after Link")
	}
	entry, ok := reg.StoreEntry("libfoo", "c1", platform.MacOS)
	if !ok {
		t.Fatal("store entry missing after Link")
	}
	if len(entry.UsedBy) != 1 {
		t.Fatalf("UsedBy = %v, want exactly the project", entry.UsedBy)
	}
}

func TestLinkSecondRunIsNoopLinked(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	writeDepConfig(t, env.projectDir,
		`{"url":"https://example.test/libfoo.git","commit":"c1","branch":"main","dir":"libfoo"}`)

	if _, err := env.orchestator.Link(context.Background(), env.projectDir, platform.NewSet(platform.MacOS)); err != nil {
		t.Fatalf("first Link: %v", err)
	}

	report, err := env.orchestator.Link(context.Background(), env.projectDir, platform.NewSet(platform.MacOS))
	if err != nil {
		t.Fatalf("second Link: %v", err)
	}
	if report.Outcomes[0].Status != classify.Linked {
		t.Fatalf("Status = %v, want Linked on the second run", report.Outcomes[0].Status)
	}
}

func TestLinkGeneralLibraryCollapsesToSingleSymlink(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	writeDepConfig(t, env.projectDir,
		`{"url":"https://example.test/libheader.git","commit":"c1","branch":"main","dir":"libheader","sparse":{"common":"headers"}}`)

	report, err := env.orchestator.Link(context.Background(), env.projectDir, platform.NewSet(platform.MacOS))
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if !report.Outcomes[0].Linked.Contains(platform.General) {
		t.Fatalf("Linked = %v, want General", report.Outcomes[0].Linked)
	}

	linkPath := filepath.Join(env.projectDir, "libheader")
	info, err := os.Lstat(linkPath)
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("libheader is not a symlink: mode=%v", info.Mode())
	}
}

func TestLinkNoPlatformsRequestedOrRememberedFails(t *testing.T) {
	env := newTestEnv(t, fakeFetcherScript)
	writeDepConfig(t, env.projectDir,
		`{"url":"https://example.test/libfoo.git","commit":"c1","branch":"main","dir":"libfoo"}`)

	if _, err := env.orchestator.Link(context.Background(), env.projectDir, nil); err == nil {
		t.Fatal("Link = nil error with no requested/remembered platforms, want error")
	}
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatalf("Abs(%s): %v", p, err)
	}
	return abs
}
