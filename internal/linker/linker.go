package linker

import (
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
)

// Status describes the on-disk state of a project's local dependency path
// relative to its expected store target.
type Status int

const (
	// StatusLinked: a link exists and resolves to the expected target.
	StatusLinked Status = iota
	// StatusWrongLink: a link exists but resolves elsewhere.
	StatusWrongLink
	// StatusDirectory: an ordinary directory (or file) occupies the path.
	StatusDirectory
	// StatusMissing: nothing exists at the path.
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusLinked:
		return "linked"
	case StatusWrongLink:
		return "wrong_link"
	case StatusDirectory:
		return "directory"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Link creates a directory link at linkPath pointing at target, creating
// linkPath's parent directory first if needed.
func Link(target, linkPath string) error {
	if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	if err := createLink(target, linkPath); err != nil {
		return errs.Wrapf(errs.ErrTransaction, "link %s -> %s: %w", linkPath, target, err)
	}
	return nil
}

// IsSymlink reports whether p exists and is a symlink (or, on Windows, a
// reparse point of junction kind).
func IsSymlink(p string) (bool, error) {
	info, err := os.Lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return isLinkMode(info), nil
}

// ReadLink returns the raw target a link at p resolves to.
func ReadLink(p string) (string, error) {
	return readLink(p)
}

// IsValid reports whether p is a link whose target currently exists.
func IsValid(p string) (bool, error) {
	isLink, err := IsSymlink(p)
	if err != nil || !isLink {
		return false, err
	}

	target, err := ReadLink(p)
	if err != nil {
		return false, err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(p), target)
	}
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsCorrect reports whether p is a link resolving to expectedTarget, after
// normalising both sides to absolute, cleaned form.
func IsCorrect(p, expectedTarget string) (bool, error) {
	isLink, err := IsSymlink(p)
	if err != nil || !isLink {
		return false, err
	}

	target, err := ReadLink(p)
	if err != nil {
		return false, err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(p), target)
	}

	gotAbs, err := filepath.Abs(target)
	if err != nil {
		return false, err
	}
	wantAbs, err := filepath.Abs(expectedTarget)
	if err != nil {
		return false, err
	}
	return filepath.Clean(gotAbs) == filepath.Clean(wantAbs), nil
}

// GetPathStatus classifies local against the link it would need to be for
// expectedTarget.
func GetPathStatus(local, expectedTarget string) (Status, error) {
	info, err := os.Lstat(local)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusMissing, nil
		}
		return StatusMissing, err
	}

	if !isLinkMode(info) {
		return StatusDirectory, nil
	}

	correct, err := IsCorrect(local, expectedTarget)
	if err != nil {
		return StatusWrongLink, err
	}
	if correct {
		return StatusLinked, nil
	}
	return StatusWrongLink, nil
}
