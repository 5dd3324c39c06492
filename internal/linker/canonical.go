package linker

import (
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/store"
)

// LinkResult reports what LinkLib actually put on disk.
type LinkResult struct {
	// General is true when the library collapsed to a single symlink.
	General bool
	// Linked lists the platform tags symlinked under localPath, empty
	// when General is true.
	Linked platform.Set
}

// LinkLib realises the canonical link layout for one library commit.
//
// For a general library (storeCommitPath has only _shared, no platform
// subdirectories) localPath itself becomes a single symlink to
// storeCommitPath/_shared.
//
// Otherwise localPath is an ordinary directory: each tag in
// platformsToLink gets a symlink at localPath/<tag> pointing at
// storeCommitPath/<tag>, and every entry under storeCommitPath/_shared is
// copied (not linked) into localPath, since downstream build tools expect
// a real file for the shared manifest.
func LinkLib(localPath, storeCommitPath string, platformsToLink platform.Set, isGeneral bool) (LinkResult, error) {
	if isGeneral {
		sharedPath := filepath.Join(storeCommitPath, store.SharedDir)
		if err := Link(sharedPath, localPath); err != nil {
			return LinkResult{}, err
		}
		return LinkResult{General: true}, nil
	}

	if err := os.MkdirAll(localPath, 0o755); err != nil {
		return LinkResult{}, errs.Wrap(errs.ErrTransaction, err)
	}

	for _, p := range platformsToLink {
		target := filepath.Join(storeCommitPath, string(p))
		linkPath := filepath.Join(localPath, string(p))
		if err := Link(target, linkPath); err != nil {
			return LinkResult{}, err
		}
	}

	sharedPath := filepath.Join(storeCommitPath, store.SharedDir)
	if _, err := os.Stat(sharedPath); err == nil {
		if err := copyTree(sharedPath, localPath); err != nil {
			return LinkResult{}, errs.Wrapf(errs.ErrTransaction, "copy shared content from %s: %w", sharedPath, err)
		}
	} else if !os.IsNotExist(err) {
		return LinkResult{}, errs.Wrap(errs.ErrTransaction, err)
	}

	return LinkResult{Linked: platformsToLink}, nil
}
