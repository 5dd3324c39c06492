package orchestrator

import (
	"os"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/registry"
)

// diskSafetyMargin is added on top of the predicted download size.
const diskSafetyMargin int64 = 1 << 30 // 1 GiB

// defaultPlatformSizeEstimate stands in for a platform's download size
// when no store entry for the same library gives a real number to
// extrapolate from: a conservative guess for an as-yet-unseen C/C++
// third-party checkout.
const defaultPlatformSizeEstimate int64 = 256 << 20 // 256 MiB

// checkDiskSpace estimates the bytes a set of pending downloads will
// consume and fails loudly if the store's filesystem does not have that
// much plus the safety margin free.
func (o *Orchestrator) checkDiskSpace(predicted int64) error {
	// A brand-new store root may not exist on disk yet; Statfs needs
	// something to stat.
	if err := os.MkdirAll(o.store.Root, 0o755); err != nil {
		return errs.Wrap(errs.ErrDiskSpace, err)
	}

	free, err := freeBytes(o.store.Root)
	if err != nil {
		return errs.Wrap(errs.ErrDiskSpace, err)
	}
	need := predicted + diskSafetyMargin
	if free < need {
		return errs.Wrapf(errs.ErrDiskSpace, "need %d bytes free at %s (predicted %d + %d safety margin), have %d",
			need, o.store.Root, predicted, diskSafetyMargin, free)
	}
	return nil
}

// estimateDownloadSize predicts the size of downloading missingCount
// platforms of (lib, commit): the per-platform size already recorded for
// a sibling platform of the same library if one exists, otherwise a
// fixed estimate.
func estimateDownloadSize(reg *registry.Registry, lib, commit string, missingCount int) int64 {
	perPlatform := defaultPlatformSizeEstimate
	for _, e := range reg.StoreEntriesForLibrary(lib, commit) {
		if e.Size > 0 {
			perPlatform = e.Size
			break
		}
	}
	return int64(missingCount) * perPlatform
}
