package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tanmika/tanmidock/internal/config"
	"github.com/tanmika/tanmidock/internal/fetcher"
	"github.com/tanmika/tanmidock/internal/paths"
)

// testEnv wires up a throwaway store root, config home and registry path
// under t.TempDir, isolated from any other test via TANMI_DOCK_HOME.
type testEnv struct {
	storeRoot   string
	projectDir  string
	fetcherBin  string
	orchestator *Orchestrator
}

func newTestEnv(t *testing.T, fetcherScript string) *testEnv {
	t.Helper()
	root := t.TempDir()

	t.Setenv("TANMI_DOCK_HOME", filepath.Join(root, "home"))

	storeRoot := filepath.Join(root, "store")
	projectDir := filepath.Join(root, "project")
	mustMkdir(t, projectDir)

	cfg := config.Default(storeRoot)

	var bin string
	if fetcherScript != "" {
		bin = writeScript(t, root, "fake-fetcher", fetcherScript)
	}

	o := New(cfg, paths.RegistryFile(), fetcher.New(bin))
	return &testEnv{storeRoot: storeRoot, projectDir: projectDir, fetcherBin: bin, orchestator: o}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s): %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	mustMkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

// fakeFetcherScript is a POSIX shell fetcher standing in for the real
// external binary: it parses --target/--platform and writes a dummy
// payload for each requested platform, or a single file at the target
// root when asked for "general".
const fakeFetcherScript = `mode=""
target=""
platforms=""
while [ $# -gt 0 ]; do
  case "$1" in
    install) mode="install"; shift ;;
    version) mode="version"; shift ;;
    --target) target="$2"; shift 2 ;;
    --platform) platforms="$platforms $2"; shift 2 ;;
    *) shift ;;
  esac
done
if [ "$mode" = "version" ]; then
  echo "fake-fetcher-v1"
  exit 0
fi
mkdir -p "$target"
for p in $platforms; do
  if [ "$p" = "general" ]; then
    echo "shared payload" > "$target/manifest.json"
  else
    mkdir -p "$target/$p"
    echo "binary" > "$target/$p/lib.a"
  fi
done
exit 0
`

func writeDepConfig(t *testing.T, projectDir string, repos string) string {
	t.Helper()
	path := filepath.Join(projectDir, "codepac-dep.json")
	mustWriteFile(t, path, `{"version":"1","repos":{"common":[`+repos+`]}}`)
	return path
}
