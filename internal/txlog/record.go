package txlog

import (
	"os"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/fsutil"
	"github.com/tanmika/tanmidock/internal/linker"
)

// Operation names one of the mutating filesystem steps a link run can
// take; each has a defined (best-effort) inverse.
type Operation string

const (
	OpUnlink  Operation = "unlink"
	OpLink    Operation = "link"
	OpReplace Operation = "replace"
	OpAbsorb  Operation = "absorb"
)

// Record is one step of a transaction: what happened to move content from
// Source to Target.
type Record struct {
	Operation Operation `json:"operation"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
}

// undo applies r's best-effort inverse. It never returns an error that
// should stop the rest of the replay: failures are reported to the
// caller, which logs and continues.
func (r Record) undo() error {
	switch r.Operation {
	case OpUnlink:
		// A link at Source pointing at Target was removed; recreate it.
		// Target is empty when Source named a partially-linked directory
		// rather than a single symlink: there was no one prior target to
		// capture, so, as with OpReplace, that content is unreversible.
		if r.Target == "" {
			return nil
		}
		return linker.Link(r.Target, r.Source)

	case OpLink:
		// A link was created at Target; remove it.
		return os.RemoveAll(r.Target)

	case OpReplace:
		// The local directory at Source was already deleted before the
		// new link at Target was created: Source cannot be restored, its
		// content was never preserved. Only the new link is reversible.
		return os.RemoveAll(r.Target)

	case OpAbsorb:
		// Content moved from Source into the store at Target; move it
		// back. Safe only while the transaction is still open and
		// nothing else has come to depend on the store path.
		if _, err := os.Stat(r.Target); os.IsNotExist(err) {
			return nil
		}
		if err := os.Rename(r.Target, r.Source); err == nil {
			return nil
		}
		if err := fsutil.CopyTree(r.Target, r.Source); err != nil {
			return err
		}
		return os.RemoveAll(r.Target)

	default:
		return errs.Wrapf(errs.ErrTransaction, "unknown transaction operation %q", r.Operation)
	}
}
