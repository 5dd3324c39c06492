package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tanmika/tanmidock/internal/platform"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestProbeFound(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "fetcher", "exit 0\n")

	f := New(bin)
	if err := f.Probe(context.Background()); err != nil {
		t.Fatalf("Probe: %v", err)
	}
}

func TestProbeMissing(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := f.Probe(context.Background()); err == nil {
		t.Fatal("Probe = nil for a missing binary, want error")
	}
}

func TestVersion(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "fetcher", "echo fetcher-v1.2.3\n")

	f := New(bin)
	v, err := f.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if strings.TrimSpace(v) != "fetcher-v1.2.3" {
		t.Fatalf("Version = %q, want fetcher-v1.2.3", v)
	}
}

func TestInstallStreamsProgressAndArgs(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "fetcher", `echo "args: $@"
echo "line one"
echo "line two"
exit 0
`)

	f := New(bin)
	var lines []string
	result, err := f.Install(context.Background(), "/target", "/config.json",
		platform.NewSet(platform.MacOS, platform.Ubuntu),
		func(line string) { lines = append(lines, line) })
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("progress lines = %v, want 3", lines)
	}
	if !strings.Contains(result.Stdout, "target") {
		t.Fatalf("Stdout = %q, want it to mention --target", result.Stdout)
	}
	if !strings.Contains(lines[0], "--platform macOS") || !strings.Contains(lines[0], "--platform ubuntu") {
		t.Fatalf("args line = %q, want both platform flags", lines[0])
	}
}

func TestInstallNonZeroExitIsError(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "fetcher", "echo boom 1>&2\nexit 3\n")

	f := New(bin)
	_, err := f.Install(context.Background(), "/target", "/config.json", nil, nil)
	if err == nil {
		t.Fatal("Install = nil error for a non-zero exit, want error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error = %v, want it to include stderr", err)
	}
}
