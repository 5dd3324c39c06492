package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/linker"
	"github.com/tanmika/tanmidock/internal/lock"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/registry"
)

// RepairReport summarises one Repair sweep.
type RepairReport struct {
	VanishedProjects  []string
	BrokenLinks       []string
	UnregisteredStore []string
}

// Repair reconciles the registry against what is actually on disk: a
// project whose path no longer exists is dropped, a dependency whose
// local path is a symlink pointing at a store target the registry no
// longer lists is removed from that project's record, and a commit
// directory on disk with no matching store entries is registered with a
// placeholder branch and URL so it participates in reference counting and
// future eviction instead of silently occupying space forever.
func (o *Orchestrator) Repair() (*RepairReport, error) {
	g := lock.NewGlobal()
	if err := g.Acquire(globalLockTimeout); err != nil {
		return nil, err
	}
	defer g.Release()

	reg, err := registry.Load(o.registryPath)
	if err != nil {
		return nil, err
	}

	report := &RepairReport{}

	for _, p := range reg.Projects() {
		if _, err := os.Stat(p.Path); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			for _, dep := range p.Dependencies {
				reg.RemoveStoreReference(dep.Library, dep.Commit, dep.PrimaryPlatform, p.Hash)
				syncLibraryRecord(reg, dep.Library, dep.Commit)
			}
			reg.DeleteProject(p.Hash)
			report.VanishedProjects = append(report.VanishedProjects, p.Path)
			continue
		}

		kept := p.Dependencies[:0:0]
		changed := false
		for _, dep := range p.Dependencies {
			ok, err := dependencyLinkIsValid(dep, reg)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, dep)
				continue
			}
			changed = true
			reg.RemoveStoreReference(dep.Library, dep.Commit, dep.PrimaryPlatform, p.Hash)
			syncLibraryRecord(reg, dep.Library, dep.Commit)
			report.BrokenLinks = append(report.BrokenLinks, dep.LinkedPath)
		}
		if changed {
			p.Dependencies = kept
			reg.PutProject(p)
		}
	}

	onDisk, err := o.store.ListLibraries()
	if err != nil {
		return nil, err
	}
	for _, e := range onDisk {
		if _, ok := reg.StoreEntry(e.Library, e.Commit, e.Platform); ok {
			continue
		}
		reg.PutStoreEntry(registry.StoreEntry{
			Library:  e.Library,
			Commit:   e.Commit,
			Platform: e.Platform,
			Branch:   "unknown",
			URL:      "unknown",
		})
		report.UnregisteredStore = append(report.UnregisteredStore, registry.StoreKey(e.Library, e.Commit, e.Platform))
		syncLibraryRecord(reg, e.Library, e.Commit)
	}

	if err := reg.Save(); err != nil {
		return nil, err
	}
	return report, nil
}

// dependencyLinkIsValid reports whether dep's local path still resolves
// a working link to a store entry the registry still knows about. A
// general library collapses localPath itself to a symlink; a
// multi-platform library keeps localPath as a directory holding a
// per-platform symlink, so the primary platform's symlink is checked
// there instead.
func dependencyLinkIsValid(dep registry.ProjectDependency, reg *registry.Registry) (bool, error) {
	linkPath := dep.LinkedPath
	if dep.PrimaryPlatform != platform.General {
		linkPath = filepath.Join(dep.LinkedPath, string(dep.PrimaryPlatform))
	}

	valid, err := linker.IsValid(linkPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !valid {
		return false, nil
	}
	_, ok := reg.StoreEntry(dep.Library, dep.Commit, dep.PrimaryPlatform)
	return ok, nil
}
