package orchestrator

import (
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/depconfig"
	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/linker"
	"github.com/tanmika/tanmidock/internal/lock"
	"github.com/tanmika/tanmidock/internal/registry"
)

// UnlinkReport summarises one Unlink invocation.
type UnlinkReport struct {
	ProjectHash string
	Restored    []string
}

// Unlink reverses Link for projectDir: every dependency currently linked
// from the store is restored to an ordinary directory holding a copy of
// its content, the project's record is dropped, and every store entry the
// project referenced has this project removed from its usedBy set.
func (o *Orchestrator) Unlink(projectDir string) (*UnlinkReport, error) {
	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, err)
	}

	g := lock.NewGlobal()
	if err := g.Acquire(globalLockTimeout); err != nil {
		return nil, err
	}
	defer g.Release()

	reg, err := registry.Load(o.registryPath)
	if err != nil {
		return nil, err
	}

	projectHash := registry.PathHash(absProject)
	project, ok := reg.Project(projectHash)
	if !ok {
		return nil, errs.Wrapf(errs.ErrInput, "no linked project recorded for %s", absProject)
	}

	report := &UnlinkReport{ProjectHash: projectHash}

	for _, dep := range project.Dependencies {
		// The commit directory necessarily already exists (the project has
		// it linked), so isGeneralLibrary's store-layout check decides this
		// without ever falling back to a sparse declaration.
		isGeneral, err := o.isGeneralLibrary(dep.Library, dep.Commit, depconfig.Sparse{})
		if err != nil {
			return nil, errs.Wrap(errs.ErrTransaction, err)
		}

		if isGeneral {
			if err := linker.RestoreFromLink(dep.LinkedPath); err != nil {
				return nil, err
			}
		} else {
			if err := linker.RestoreMultiPlatform(dep.LinkedPath); err != nil {
				return nil, err
			}
		}
		report.Restored = append(report.Restored, dep.LinkedPath)

		for _, e := range reg.StoreEntriesForLibrary(dep.Library, dep.Commit) {
			reg.RemoveStoreReference(e.Library, e.Commit, e.Platform, projectHash)
		}
		syncLibraryRecord(reg, dep.Library, dep.Commit)
	}

	reg.DeleteProject(projectHash)

	if err := reg.Save(); err != nil {
		return nil, err
	}
	return report, nil
}
