package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tanmika/tanmidock/internal/config"
	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/paths"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("TANMI_DOCK_HOME", home)
	return home
}

func TestInitWritesConfig(t *testing.T) {
	setHome(t)
	storeRoot := filepath.Join(t.TempDir(), "store")

	cmd := InitCmd{StorePath: storeRoot}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	cfg, err := config.Load(paths.ConfigFile())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorePath != storeRoot {
		t.Errorf("StorePath = %q, want %q", cfg.StorePath, storeRoot)
	}
}

func TestInitRefusesToOverwriteWithoutForce(t *testing.T) {
	setHome(t)
	storeRoot := t.TempDir()

	first := InitCmd{StorePath: storeRoot}
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	second := InitCmd{StorePath: storeRoot}
	err := second.Run(context.Background())
	if !errors.Is(err, errs.ErrInput) {
		t.Fatalf("Run error = %v, want ErrInput", err)
	}
}

func TestInitForceOverwrites(t *testing.T) {
	setHome(t)
	storeRoot := t.TempDir()

	first := InitCmd{StorePath: storeRoot}
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	newRoot := filepath.Join(t.TempDir(), "other")
	second := InitCmd{StorePath: newRoot, Force: true}
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	cfg, err := config.Load(paths.ConfigFile())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorePath != newRoot {
		t.Errorf("StorePath = %q, want %q", cfg.StorePath, newRoot)
	}
}

func TestLinkWithoutInitReportsUninitialised(t *testing.T) {
	setHome(t)

	cmd := LinkCmd{ProjectDir: t.TempDir()}
	err := cmd.Run(context.Background())
	if !errors.Is(err, errs.ErrUninitialised) {
		t.Fatalf("Run error = %v, want ErrUninitialised", err)
	}
}

func TestDiagnosticsOnFreshStore(t *testing.T) {
	setHome(t)
	storeRoot := t.TempDir()

	if err := (&InitCmd{StorePath: storeRoot}).Run(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := (&DiagnosticsCmd{}).Run(context.Background()); err != nil {
		t.Fatalf("Diagnostics: %v", err)
	}
}

func TestParsePlatformsRejectsUnknownTag(t *testing.T) {
	if _, err := parsePlatforms([]string{"macOS", "commodore64"}); !errors.Is(err, errs.ErrInput) {
		t.Fatalf("parsePlatforms error = %v, want ErrInput", err)
	}
}

func TestParsePlatformsAccepts(t *testing.T) {
	set, err := parsePlatforms([]string{"macOS", "ubuntu"})
	if err != nil {
		t.Fatalf("parsePlatforms: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("len(set) = %d, want 2", len(set))
	}
}
