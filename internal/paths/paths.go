package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for the configuration directory.
	appName = "tanmi-dock"

	// Environment variable that overrides ConfigDir, used primarily by
	// tests.
	envHome = "TANMI_DOCK_HOME"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// ConfigDir returns the directory holding config.json, registry.json, the
// global lock file, and the transaction log.
//
//	Default: <home>/.tanmi-dock
//	Override: $TANMI_DOCK_HOME
func ConfigDir() string {
	if v := os.Getenv(envHome); v != "" {
		return v
	}
	return filepath.Join(xdg.Home, "."+appName)
}

// RegistryFile returns the path of the persisted registry document.
func RegistryFile() string {
	return filepath.Join(ConfigDir(), "registry.json")
}

// ConfigFile returns the path of the store-root configuration document.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// LockFile returns the path of the process-global lock file.
func LockFile() string {
	return filepath.Join(ConfigDir(), "tanmidock.lock")
}

// TransactionDir returns the directory holding in-flight transaction logs.
func TransactionDir() string {
	return filepath.Join(ConfigDir(), ".tx")
}
