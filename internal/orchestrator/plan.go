package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/classify"
	"github.com/tanmika/tanmidock/internal/depconfig"
	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/platform"
)

// resolvedDependency is one declared repo together with where it lives on
// disk and what the classifier decided about it.
type resolvedDependency struct {
	Repo       depconfig.Repo
	LocalPath  string
	ConfigPath string
	IsGeneral  bool
	Decision   classify.Decision
}

// isGeneralLibrary reports whether (lib, commit) collapses to the
// general, single-symlink layout. The store's own on-disk layout is
// authoritative once the commit directory exists; only for a commit never
// yet absorbed does the dependency's own sparse declaration decide it.
func (o *Orchestrator) isGeneralLibrary(lib, commit string, sparse depconfig.Sparse) (bool, error) {
	commitPath := o.store.CommitPathOf(lib, commit)
	if _, err := os.Stat(commitPath); err != nil {
		if os.IsNotExist(err) {
			return sparse.IsGeneral(), nil
		}
		return false, err
	}
	return o.store.Exists(lib, commit, platform.General)
}

// buildPlan locates and loads the project's dependency configuration,
// classifies each declared repo against requested, and returns the
// resolved list in declaration order.
func (o *Orchestrator) buildPlan(projectDir string, requested platform.Set) ([]resolvedDependency, string, error) {
	configPath, err := depconfig.Locate(projectDir)
	if err != nil {
		return nil, "", err
	}
	file, err := depconfig.Load(configPath)
	if err != nil {
		return nil, "", err
	}

	thirdPartyDir := filepath.Dir(configPath)

	out := make([]resolvedDependency, 0, len(file.Repos.Common))
	for _, repo := range file.Repos.Common {
		if repo.Dir == "" || repo.Commit == "" {
			return nil, "", errs.Wrapf(errs.ErrInput, "dependency entry missing dir or commit in %s", configPath)
		}

		localPath := filepath.Join(thirdPartyDir, repo.Dir)

		isGeneral, err := o.isGeneralLibrary(repo.Dir, repo.Commit, repo.Sparse)
		if err != nil {
			return nil, "", errs.Wrap(errs.ErrTransaction, err)
		}

		decision, err := classify.Classify(o.store, repo.Dir, repo.Commit, requested, localPath, isGeneral)
		if err != nil {
			return nil, "", err
		}

		out = append(out, resolvedDependency{
			Repo:       repo,
			LocalPath:  localPath,
			ConfigPath: configPath,
			IsGeneral:  isGeneral,
			Decision:   decision,
		})
	}

	return out, configPath, nil
}
