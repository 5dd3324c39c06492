package absorber

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/tanmika/tanmidock/internal/fsutil"
)

// journalEntry records one completed move, so it can be undone in
// reverse order on failure.
type journalEntry struct {
	from string
	to   string
}

// journal accumulates completed moves for a single absorb call.
type journal struct {
	entries []journalEntry
}

func (j *journal) record(from, to string) {
	j.entries = append(j.entries, journalEntry{from: from, to: to})
}

// undo replays every recorded move in reverse (target -> source rename),
// best-effort: it does not stop at the first failure, since the goal is
// to get as much of the source tree back as possible.
func (j *journal) undo() {
	for i := len(j.entries) - 1; i >= 0; i-- {
		e := j.entries[i]
		_ = renameOrCopy(e.to, e.from)
	}
}

// moveEntry moves src to dst with a single rename, falling back to a
// recursive copy-then-remove on EXDEV. If dst already exists, it reports
// conflict=true and leaves both src and dst untouched.
func moveEntry(src, dst string) (conflict bool, err error) {
	if _, statErr := os.Lstat(dst); statErr == nil {
		return true, nil
	} else if !os.IsNotExist(statErr) {
		return false, statErr
	}

	if err := renameOrCopy(src, dst); err != nil {
		return false, err
	}
	return false, nil
}

func renameOrCopy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := fsutil.CopyTree(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}
