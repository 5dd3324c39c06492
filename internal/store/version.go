package store

import (
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/platform"
)

// Version names a commit directory's on-disk layout generation.
type Version string

const (
	// V06 is the canonical layout: _shared/ plus flat platform
	// subdirectories, no nesting.
	V06 Version = "v0.6"

	// V05 is the legacy layout, identified by a platform directory that
	// itself contains a nested platform subdirectory.
	V05 Version = "v0.5"

	// Unknown means neither _shared nor any platform subdirectory is
	// present; an empty skeleton, not a layout violation.
	Unknown Version = "unknown"
)

// DetectVersion classifies the layout found at commitPath.
func DetectVersion(commitPath string) (Version, error) {
	entries, err := os.ReadDir(commitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Unknown, nil
		}
		return Unknown, err
	}

	sawContent := false
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() == SharedDir {
			sawContent = true
			continue
		}
		if _, ok := platform.Parse(e.Name()); !ok {
			continue
		}
		sawContent = true

		nested, err := hasNestedPlatform(filepath.Join(commitPath, e.Name()))
		if err != nil {
			return Unknown, err
		}
		if nested {
			return V05, nil
		}
	}

	if sawContent {
		return V06, nil
	}
	return Unknown, nil
}

func hasNestedPlatform(platformPath string) (bool, error) {
	children, err := os.ReadDir(platformPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	for _, c := range children {
		if !c.IsDir() {
			continue
		}
		if _, ok := platform.Parse(c.Name()); ok {
			return true, nil
		}
	}
	return false, nil
}

// EnsureCompatible fails loudly when the commit directory for (lib, commit)
// is in the legacy v0.5 layout. It never migrates automatically.
func (s *Store) EnsureCompatible(lib, commit string) error {
	commitPath := s.CommitPathOf(lib, commit)

	v, err := DetectVersion(commitPath)
	if err != nil {
		return err
	}
	if v != V05 {
		return nil
	}

	return errs.Wrapf(errs.ErrIncompatibleStore,
		"%s@%s is in the legacy v0.5 store layout (nested platform directories); "+
			"remove %s and re-link to migrate to v0.6", lib, commit, commitPath)
}
