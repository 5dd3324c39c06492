package orchestrator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tanmika/tanmidock/internal/absorber"
	"github.com/tanmika/tanmidock/internal/classify"
	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/linker"
	"github.com/tanmika/tanmidock/internal/lock"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/registry"
	"github.com/tanmika/tanmidock/internal/txlog"
)

// DependencyOutcome reports what happened to one declared dependency
// during a link run.
type DependencyOutcome struct {
	Library string
	Commit  string
	Status  classify.Status
	Linked  platform.Set
	Skipped platform.Set
}

// LinkReport summarises one Link invocation.
type LinkReport struct {
	ProjectHash string
	Outcomes    []DependencyOutcome
}

// Link resolves projectDir's dependency configuration against requested
// (or, if empty, the project's previously remembered platforms), and
// brings every declared dependency's local third-party directory into
// agreement with the store, downloading whatever is missing.
func (o *Orchestrator) Link(ctx context.Context, projectDir string, requested platform.Set) (*LinkReport, error) {
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
	existingProject, hadProject := reg.Project(projectHash)

	platforms := o.requestedPlatforms(requested, existingProject.Platforms)
	if len(platforms) == 0 {
		return nil, errs.Wrapf(errs.ErrInput, "no platforms requested for %s and none remembered", absProject)
	}

	if orphan, found, err := txlog.FindOrphan(o.txDir); err != nil {
		return nil, errs.Wrap(errs.ErrTransaction, err)
	} else if found {
		slog.Warn("rolling back orphan transaction from a previous run", "path", orphan)
		if err := txlog.RollbackFile(orphan); err != nil {
			slog.Error("orphan transaction rollback failed", "path", orphan, "error", err)
		}
	}

	deps, configPath, err := o.buildPlan(absProject, platforms)
	if err != nil {
		return nil, err
	}

	var predicted int64
	for _, d := range deps {
		if d.Decision.Status == classify.Missing || d.Decision.Status == classify.LinkNew {
			predicted += estimateDownloadSize(reg, d.Repo.Dir, d.Repo.Commit, len(d.Decision.Missing))
		}
	}
	if predicted > 0 {
		if err := o.checkDiskSpace(predicted); err != nil {
			return nil, err
		}
	}

	tx, err := txlog.Open(o.txDir)
	if err != nil {
		return nil, err
	}

	report := &LinkReport{ProjectHash: projectHash}
	var downloads []downloadTask

	rollback := func(cause error) (*LinkReport, error) {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("transaction rollback failed; inspect the store and the project directory, then run 'tanmidock repair'", "error", rbErr)
		}
		return nil, cause
	}

	for _, d := range deps {
		if err := o.store.EnsureCompatible(d.Repo.Dir, d.Repo.Commit); err != nil {
			return rollback(err)
		}

		if d.Decision.Status == classify.Missing {
			downloads = append(downloads, downloadTask{dep: d, requested: platforms})
			continue
		}

		var outcome DependencyOutcome
		if d.Decision.Status == classify.Linked {
			outcome = DependencyOutcome{Library: d.Repo.Dir, Commit: d.Repo.Commit, Status: d.Decision.Status, Linked: d.Decision.Existing}
		} else {
			outcome, err = o.applySync(ctx, tx, d, platforms)
			if err != nil {
				return rollback(err)
			}
		}

		report.Outcomes = append(report.Outcomes, outcome)
		for _, p := range outcome.Linked {
			if err := o.ensureStoreEntry(reg, d, p); err != nil {
				return rollback(err)
			}
			reg.AddStoreReference(d.Repo.Dir, d.Repo.Commit, p, projectHash)
		}
	}

	if len(downloads) > 0 {
		downloadDeps := make(map[string]resolvedDependency, len(downloads))
		for _, t := range downloads {
			downloadDeps[t.dep.Repo.Dir+":"+t.dep.Repo.Commit] = t.dep
		}

		results, err := o.runDownloads(ctx, tx, downloads)
		if err != nil {
			return rollback(err)
		}
		for _, out := range results {
			report.Outcomes = append(report.Outcomes, out)
			d := downloadDeps[out.Library+":"+out.Commit]
			for _, p := range out.Linked {
				if err := o.ensureStoreEntry(reg, d, p); err != nil {
					return rollback(err)
				}
				reg.AddStoreReference(out.Library, out.Commit, p, projectHash)
			}
		}
	}

	newDeps := make([]registry.ProjectDependency, 0, len(report.Outcomes))
	newPlatformNames := platforms.Strings()
	for _, out := range report.Outcomes {
		if len(out.Linked) == 0 {
			continue
		}
		newDeps = append(newDeps, registry.ProjectDependency{
			Library:         out.Library,
			Commit:          out.Commit,
			PrimaryPlatform: out.Linked[0],
			LinkedPath:      filepath.Join(filepath.Dir(configPath), out.Library),
		})
	}

	if hadProject {
		for _, old := range existingProject.Dependencies {
			if !dependencyStillPresent(old, newDeps) {
				reg.RemoveStoreReference(old.Library, old.Commit, old.PrimaryPlatform, projectHash)
			}
		}
	}

	reg.PutProject(registry.ProjectRecord{
		Hash:         projectHash,
		Path:         absProject,
		ConfigPath:   configPath,
		Platforms:    newPlatformNames,
		Dependencies: newDeps,
	})

	for _, d := range deps {
		syncLibraryRecord(reg, d.Repo.Dir, d.Repo.Commit)
	}

	if err := reg.Save(); err != nil {
		return rollback(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return report, nil
}

// ensureStoreEntry inserts a StoreEntry for (d, p) if the registry does not
// already carry one. AddStoreReference only ever mutates an existing
// entry's usedBy set, so every newly-linked platform needs its entry
// created here first, sized from what absorb/download actually put on
// disk.
func (o *Orchestrator) ensureStoreEntry(reg *registry.Registry, d resolvedDependency, p platform.Tag) error {
	if _, ok := reg.StoreEntry(d.Repo.Dir, d.Repo.Commit, p); ok {
		return nil
	}

	size, err := o.store.GetSize(d.Repo.Dir, d.Repo.Commit, p)
	if err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}

	now := time.Now()
	reg.PutStoreEntry(registry.StoreEntry{
		Library:    d.Repo.Dir,
		Commit:     d.Repo.Commit,
		Platform:   p,
		Branch:     d.Repo.Branch,
		URL:        d.Repo.URL,
		Size:       size,
		CreatedAt:  now,
		LastAccess: now,
	})
	return nil
}

func dependencyStillPresent(old registry.ProjectDependency, newDeps []registry.ProjectDependency) bool {
	for _, n := range newDeps {
		if n.Library == old.Library && n.Commit == old.Commit {
			return true
		}
	}
	return false
}

// linkedPlatformsFor returns the platform set LinkLib actually realises
// for d: a general library always collapses to the single General tag,
// regardless of how many concrete platforms were requested.
func linkedPlatformsFor(d resolvedDependency, platforms platform.Set) platform.Set {
	if d.IsGeneral {
		return platform.NewSet(platform.General)
	}
	return platforms
}

// applySync executes the classifier's action for one non-MISSING,
// non-LINKED dependency, appending transaction records as it goes.
func (o *Orchestrator) applySync(ctx context.Context, tx *txlog.Log, d resolvedDependency, platforms platform.Set) (DependencyOutcome, error) {
	outcome := DependencyOutcome{Library: d.Repo.Dir, Commit: d.Repo.Commit, Status: d.Decision.Status}

	switch d.Decision.Status {
	case classify.Relink:
		var oldTarget string
		if isLink, err := linker.IsSymlink(d.LocalPath); err == nil && isLink {
			if target, err := linker.ReadLink(d.LocalPath); err == nil {
				oldTarget = target
			}
		}
		if err := os.RemoveAll(d.LocalPath); err != nil {
			return outcome, errs.Wrap(errs.ErrTransaction, err)
		}
		if err := tx.Append(txlog.Record{Operation: txlog.OpUnlink, Source: d.LocalPath, Target: oldTarget}); err != nil {
			return outcome, err
		}
		if err := o.linkCommit(tx, d, d.Decision.Existing); err != nil {
			return outcome, err
		}
		outcome.Linked = d.Decision.Existing
		outcome.Skipped = d.Decision.Missing

	case classify.Replace:
		if err := os.RemoveAll(d.LocalPath); err != nil {
			return outcome, errs.Wrap(errs.ErrTransaction, err)
		}
		if err := tx.Append(txlog.Record{Operation: txlog.OpReplace, Source: d.LocalPath}); err != nil {
			return outcome, err
		}
		if err := o.linkCommit(tx, d, d.Decision.Existing); err != nil {
			return outcome, err
		}
		outcome.Linked = d.Decision.Existing
		outcome.Skipped = d.Decision.Missing

	case classify.Absorb:
		commitPath := o.store.CommitPathOf(d.Repo.Dir, d.Repo.Commit)
		var absorbErr error
		if d.IsGeneral {
			_, absorbErr = absorber.AbsorbGeneral(d.LocalPath, o.store, d.Repo.Dir, d.Repo.Commit)
		} else {
			_, absorbErr = absorber.AbsorbLib(d.LocalPath, platforms, o.store, d.Repo.Dir, d.Repo.Commit)
		}
		if absorbErr != nil {
			return outcome, absorbErr
		}
		if err := tx.Append(txlog.Record{Operation: txlog.OpAbsorb, Source: d.LocalPath, Target: commitPath}); err != nil {
			return outcome, err
		}
		if err := os.RemoveAll(d.LocalPath); err != nil {
			return outcome, errs.Wrap(errs.ErrTransaction, err)
		}
		linked := linkedPlatformsFor(d, platforms)
		if err := o.linkCommit(tx, d, linked); err != nil {
			return outcome, err
		}
		outcome.Linked = linked

	case classify.LinkNew:
		usable := d.Decision.Existing
		if len(d.Decision.Missing) > 0 {
			absorbed, skipped, err := o.downloadAndAbsorb(ctx, d, d.Decision.Missing)
			if err != nil {
				return outcome, err
			}
			usable = append(append(platform.Set{}, usable...), absorbed...)
			outcome.Skipped = skipped
		}
		if len(usable) == 0 {
			return outcome, nil
		}
		if err := o.linkCommit(tx, d, usable); err != nil {
			return outcome, err
		}
		outcome.Linked = usable
	}

	return outcome, nil
}

// linkCommit realises the canonical link layout for d against the store
// and appends the matching transaction record.
func (o *Orchestrator) linkCommit(tx *txlog.Log, d resolvedDependency, platforms platform.Set) error {
	commitPath := o.store.CommitPathOf(d.Repo.Dir, d.Repo.Commit)
	if _, err := linker.LinkLib(d.LocalPath, commitPath, platforms, d.IsGeneral); err != nil {
		return err
	}
	return tx.Append(txlog.Record{Operation: txlog.OpLink, Source: commitPath, Target: d.LocalPath})
}
