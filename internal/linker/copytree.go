package linker

import (
	"os"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/fsutil"
)

// copyTree copies every entry under src into dst, creating dst if needed.
// Nested symlinks are recreated verbatim rather than followed, matching
// the requirement that symlinks inside shared content survive a copy
// unchanged.
func copyTree(src, dst string) error {
	return fsutil.CopyTree(src, dst)
}

// removeAll wraps os.RemoveAll with the tagged error kind for callers that
// treat tree removal as part of a transactional step.
func removeAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	return nil
}
