package absorber

import (
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/store"
)

// Result reports where absorbed content landed and what was skipped.
type Result struct {
	PlatformPaths    map[platform.Tag]string
	SharedPath       string
	SkippedPlatforms platform.Set
}

// AbsorbLib moves srcDir's entries into <store>/<libName>/<commit>/...:
// entries whose name is a recognised platform tag in platformsToAbsorb
// become that commit's platform subdirectory; everything else becomes an
// entry under the commit's _shared. Platform entries not named in
// platformsToAbsorb are left untouched in srcDir.
//
// A destination that already exists is skipped, never overwritten, and
// its platform tag (if any) is reported in SkippedPlatforms. On any other
// failure, every move completed so far in this call is undone in reverse
// before the error is returned.
func AbsorbLib(srcDir string, platformsToAbsorb platform.Set, s *store.Store, libName, commit string) (Result, error) {
	result := Result{PlatformPaths: make(map[platform.Tag]string)}
	j := &journal{}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return Result{}, errs.Wrap(errs.ErrInput, err)
	}

	commitPath := s.CommitPathOf(libName, commit)
	sharedPath := filepath.Join(commitPath, store.SharedDir)

	for _, e := range entries {
		name := e.Name()
		src := filepath.Join(srcDir, name)

		if tag, ok := platform.Parse(name); ok && e.IsDir() {
			if !platformsToAbsorb.Contains(tag) {
				continue
			}
			dst := s.StorePathOf(libName, commit, tag)
			conflict, err := moveEntry(src, dst)
			if err != nil {
				j.undo()
				return Result{}, errs.Wrapf(errs.ErrConflict, "absorb %s platform %s: %w", libName, tag, err)
			}
			if conflict {
				result.SkippedPlatforms = append(result.SkippedPlatforms, tag)
				continue
			}
			j.record(src, dst)
			result.PlatformPaths[tag] = dst
			continue
		}

		dst := filepath.Join(sharedPath, name)
		conflict, err := moveEntry(src, dst)
		if err != nil {
			j.undo()
			return Result{}, errs.Wrapf(errs.ErrConflict, "absorb %s shared entry %s: %w", libName, name, err)
		}
		if conflict {
			continue
		}
		j.record(src, dst)
	}

	result.SharedPath = sharedPath
	return result, nil
}

// AbsorbGeneral handles a library with no platform directories: the
// entire srcDir becomes the commit's _shared. If srcDir itself already
// contains a _shared subdirectory, that inner directory is moved directly
// rather than double-nesting a _shared inside _shared.
func AbsorbGeneral(srcDir string, s *store.Store, libName, commit string) (Result, error) {
	commitPath := s.CommitPathOf(libName, commit)
	sharedPath := filepath.Join(commitPath, store.SharedDir)

	inner := filepath.Join(srcDir, store.SharedDir)
	if info, err := os.Stat(inner); err == nil && info.IsDir() {
		if err := os.MkdirAll(commitPath, 0o755); err != nil {
			return Result{}, errs.Wrap(errs.ErrTransaction, err)
		}
		if err := renameOrCopy(inner, sharedPath); err != nil {
			return Result{}, errs.Wrapf(errs.ErrConflict, "absorb general %s: %w", libName, err)
		}
		return Result{SharedPath: sharedPath}, nil
	}

	if err := os.MkdirAll(filepath.Dir(commitPath), 0o755); err != nil {
		return Result{}, errs.Wrap(errs.ErrTransaction, err)
	}
	if err := renameOrCopy(srcDir, sharedPath); err != nil {
		return Result{}, errs.Wrapf(errs.ErrConflict, "absorb general %s: %w", libName, err)
	}
	return Result{SharedPath: sharedPath}, nil
}
