package store

import (
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/platform"
)

// SharedDir is the name of the platform-agnostic subdirectory under every
// commit directory.
const SharedDir = "_shared"

// Store resolves paths under a single store root.
type Store struct {
	Root string
}

// New binds a Store to root.
func New(root string) *Store {
	return &Store{Root: root}
}

// LibraryPathOf returns <root>/<lib>.
func (s *Store) LibraryPathOf(lib string) string {
	return filepath.Join(s.Root, lib)
}

// CommitPathOf returns <root>/<lib>/<commit>.
func (s *Store) CommitPathOf(lib, commit string) string {
	return filepath.Join(s.Root, lib, commit)
}

// StorePathOf returns the on-disk path for (lib, commit, platform). For
// platform.General it is the commit's _shared directory; for any concrete
// platform it is the commit's platform subdirectory.
func (s *Store) StorePathOf(lib, commit string, p platform.Tag) string {
	commitPath := s.CommitPathOf(lib, commit)
	if p == platform.General {
		return filepath.Join(commitPath, SharedDir)
	}
	return filepath.Join(commitPath, string(p))
}

// Exists reports whether the (lib, commit, platform) entry has on-disk
// content. For platform.General it requires _shared to exist and be
// non-empty; a bare empty _shared is a skeleton, not a general library.
func (s *Store) Exists(lib, commit string, p platform.Tag) (bool, error) {
	path := s.StorePathOf(lib, commit, p)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}

	if p != platform.General {
		return true, nil
	}
	return dirNonEmpty(path)
}

func dirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// CheckPlatformCompleteness partitions requested into the platforms that
// already exist on disk and those that don't.
func (s *Store) CheckPlatformCompleteness(lib, commit string, requested platform.Set) (existing, missing platform.Set, err error) {
	for _, p := range requested {
		ok, statErr := s.Exists(lib, commit, p)
		if statErr != nil {
			return nil, nil, statErr
		}
		if ok {
			existing = append(existing, p)
		} else {
			missing = append(missing, p)
		}
	}
	return existing, missing, nil
}

// ListLibraries enumerates every (libName, commit, platform) triple
// currently on disk under the store root. platform.General is reported
// whenever _shared is non-empty, alongside any concrete platform
// subdirectories present.
func (s *Store) ListLibraries() ([]Entry, error) {
	libDirs, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Entry
	for _, libDir := range libDirs {
		if !libDir.IsDir() {
			continue
		}
		lib := libDir.Name()

		commitDirs, err := os.ReadDir(s.LibraryPathOf(lib))
		if err != nil {
			return nil, err
		}
		for _, commitDir := range commitDirs {
			if !commitDir.IsDir() {
				continue
			}
			commit := commitDir.Name()
			commitPath := s.CommitPathOf(lib, commit)

			children, err := os.ReadDir(commitPath)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				if !child.IsDir() {
					continue
				}
				if child.Name() == SharedDir {
					nonEmpty, err := dirNonEmpty(commitPath + string(filepath.Separator) + SharedDir)
					if err != nil {
						return nil, err
					}
					if nonEmpty {
						out = append(out, Entry{Library: lib, Commit: commit, Platform: platform.General})
					}
					continue
				}
				if p, ok := platform.Parse(child.Name()); ok {
					out = append(out, Entry{Library: lib, Commit: commit, Platform: p})
				}
			}
		}
	}
	return out, nil
}

// Entry identifies one on-disk (library, commit, platform) triple.
type Entry struct {
	Library  string
	Commit   string
	Platform platform.Tag
}
