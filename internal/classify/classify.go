package classify

import (
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/linker"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/store"
)

// Status is one of the six outcomes the orchestrator acts on.
type Status int

const (
	Linked Status = iota
	Relink
	Replace
	Absorb
	Missing
	LinkNew
)

func (s Status) String() string {
	switch s {
	case Linked:
		return "LINKED"
	case Relink:
		return "RELINK"
	case Replace:
		return "REPLACE"
	case Absorb:
		return "ABSORB"
	case Missing:
		return "MISSING"
	case LinkNew:
		return "LINK_NEW"
	default:
		return "UNKNOWN"
	}
}

// Decision is the classifier's verdict for one dependency.
type Decision struct {
	Status    Status
	IsGeneral bool
	// Existing and Missing partition the platforms requested for this
	// dependency against what the store currently holds. For a general
	// library these are always either {platform.General} or empty.
	Existing platform.Set
	Missing  platform.Set
}

// Classify inspects one declared dependency's local path against the
// store and decides which of the six actions applies.
//
// isGeneral tells Classify whether this library collapses to the single
// _shared-symlink layout: callers derive this from the store's existing
// layout when the commit directory is already present, or otherwise from
// the dependency's sparse-checkout declaration (a sparse object naming
// only "common" marks a library general before anything has been
// absorbed for it).
func Classify(s *store.Store, lib, commit string, requested platform.Set, localPath string, isGeneral bool) (Decision, error) {
	want := requested
	if isGeneral {
		want = platform.NewSet(platform.General)
	}

	existing, missing, err := s.CheckPlatformCompleteness(lib, commit, want)
	if err != nil {
		return Decision{}, err
	}

	localStatus, err := localLinkStatus(s, lib, commit, requested, localPath, isGeneral)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{IsGeneral: isGeneral, Existing: existing, Missing: missing}

	switch localStatus {
	case linker.StatusLinked:
		d.Status = Linked
	case linker.StatusWrongLink:
		d.Status = Relink
	case linker.StatusDirectory:
		if len(existing) > 0 {
			d.Status = Replace
		} else {
			d.Status = Absorb
		}
	case linker.StatusMissing:
		if len(existing) > 0 {
			d.Status = LinkNew
		} else {
			d.Status = Missing
		}
	}
	return d, nil
}

// localLinkStatus reports the on-disk state of localPath relative to its
// expected store target.
//
// For a general library, localPath itself is expected to be a single
// symlink to the commit's _shared directory, so the underlying linker
// check applies directly.
//
// For a multi-platform library, localPath is expected to be an ordinary
// directory holding one symlink per requested platform: localPath is
// "linked" only when every requested platform subdirectory is a correct
// symlink, and "wrong_link" when at least one platform subdirectory shows
// linkage (correct or not) without all of them being correct: a partial
// link the orchestrator must repair. A directory with no linkage markers
// at all is a virgin local copy, never yet linked.
func localLinkStatus(s *store.Store, lib, commit string, requested platform.Set, localPath string, isGeneral bool) (linker.Status, error) {
	if isGeneral {
		expected := filepath.Join(s.CommitPathOf(lib, commit), store.SharedDir)
		return linker.GetPathStatus(localPath, expected)
	}

	isLink, err := linker.IsSymlink(localPath)
	if err != nil {
		return linker.StatusMissing, err
	}
	if isLink {
		// A bare symlink where a multi-platform directory is expected:
		// never correct, always needs repair.
		return linker.StatusWrongLink, nil
	}

	anyLinked := false
	allCorrect := true
	sawAny := false
	for _, p := range requested {
		sub := filepath.Join(localPath, string(p))
		expected := s.StorePathOf(lib, commit, p)

		status, err := linker.GetPathStatus(sub, expected)
		if err != nil {
			return linker.StatusMissing, err
		}
		switch status {
		case linker.StatusMissing:
			allCorrect = false
		case linker.StatusLinked:
			sawAny = true
			anyLinked = true
		case linker.StatusWrongLink:
			sawAny = true
			allCorrect = false
		case linker.StatusDirectory:
			allCorrect = false
		}
	}

	if !sawAny {
		// No requested platform subdirectory shows any linkage at all.
		// localPath is either absent or a virgin, never-linked copy.
		if exists, err := pathExists(localPath); err != nil {
			return linker.StatusMissing, err
		} else if !exists {
			return linker.StatusMissing, nil
		}
		return linker.StatusDirectory, nil
	}

	if allCorrect && anyLinked {
		return linker.StatusLinked, nil
	}
	return linker.StatusWrongLink, nil
}
