package store

import (
	"os"

	"github.com/tanmika/tanmidock/internal/platform"
)

// Remove deletes one platform directory. When platform.General is named,
// the whole commit directory is removed outright.
//
// After removing a concrete platform directory, if the commit directory
// then contains at most an empty _shared, the commit directory is removed
// whole; if the library directory is then empty, it is removed too.
func (s *Store) Remove(lib, commit string, p platform.Tag) error {
	commitPath := s.CommitPathOf(lib, commit)

	if p == platform.General {
		if err := os.RemoveAll(commitPath); err != nil {
			return err
		}
		return s.pruneLibraryIfEmpty(lib)
	}

	platformPath := s.StorePathOf(lib, commit, p)
	if err := os.RemoveAll(platformPath); err != nil {
		return err
	}

	empty, err := s.commitIsResidual(commitPath)
	if err != nil {
		return err
	}
	if empty {
		if err := os.RemoveAll(commitPath); err != nil {
			return err
		}
		return s.pruneLibraryIfEmpty(lib)
	}
	return nil
}

// commitIsResidual reports whether commitPath contains nothing but an
// empty (or absent) _shared directory and no platform subdirectories.
func (s *Store) commitIsResidual(commitPath string) (bool, error) {
	entries, err := os.ReadDir(commitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() != SharedDir {
			return false, nil
		}
		nonEmpty, err := dirNonEmpty(commitPath + string(os.PathSeparator) + SharedDir)
		if err != nil {
			return false, err
		}
		if nonEmpty {
			return false, nil
		}
	}
	return true, nil
}

func (s *Store) pruneLibraryIfEmpty(lib string) error {
	libPath := s.LibraryPathOf(lib)

	entries, err := os.ReadDir(libPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	return os.Remove(libPath)
}
