package linker

import (
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
)

// RestoreFromLink reverses the general-library shape: localPath is itself
// a symlink to the store. Its target's contents are copied out into an
// ordinary directory at localPath, and the link is removed first so the
// copy lands on a clean path.
func RestoreFromLink(localPath string) error {
	isLink, err := IsSymlink(localPath)
	if err != nil {
		return err
	}
	if !isLink {
		return errs.Wrapf(errs.ErrInput, "%s is not a symlink", localPath)
	}

	target, err := resolveAbs(localPath)
	if err != nil {
		return err
	}

	if err := os.Remove(localPath); err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	if err := os.MkdirAll(localPath, 0o755); err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	if err := copyTree(target, localPath); err != nil {
		return errs.Wrapf(errs.ErrTransaction, "restore %s from %s: %w", localPath, target, err)
	}
	return nil
}

// RestoreMultiPlatform reverses the canonical per-platform layout:
// localPath is an ordinary directory whose immediate platform children
// are symlinks into the store. Each such child is replaced by an ordinary
// directory holding a copy of the resolved content; nested symlinks
// inside the resolved content are preserved verbatim. Shared content
// already copied directly into localPath by LinkLib is untouched.
func RestoreMultiPlatform(localPath string) error {
	entries, err := os.ReadDir(localPath)
	if err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}

	for _, e := range entries {
		childPath := filepath.Join(localPath, e.Name())

		isLink, err := IsSymlink(childPath)
		if err != nil {
			return err
		}
		if !isLink {
			continue
		}

		target, err := resolveAbs(childPath)
		if err != nil {
			return err
		}

		if err := os.Remove(childPath); err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}
		if err := os.MkdirAll(childPath, 0o755); err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}
		if err := copyTree(target, childPath); err != nil {
			return errs.Wrapf(errs.ErrTransaction, "restore %s from %s: %w", childPath, target, err)
		}
	}
	return nil
}

func resolveAbs(p string) (string, error) {
	target, err := ReadLink(p)
	if err != nil {
		return "", errs.Wrap(errs.ErrTransaction, err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(p), target)
	}
	return filepath.Clean(target), nil
}
