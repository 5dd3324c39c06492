package orchestrator

import (
	"time"

	"github.com/tanmika/tanmidock/internal/config"
	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/lock"
	"github.com/tanmika/tanmidock/internal/registry"
)

// CleanedEntry reports one store entry an eviction removed.
type CleanedEntry struct {
	Library  string
	Commit   string
	Platform string
	Size     int64
}

// CleanReport summarises one Clean invocation.
type CleanReport struct {
	Strategy config.CleanStrategy
	Removed  []CleanedEntry
	Bytes    int64
}

// Clean evicts store entries under the configured strategy. manualKeys, if
// non-empty, restricts eviction to exactly those "lib:commit:platform"
// keys and is only meaningful for config.StrategyManual; for every other
// strategy the core decides the candidate set on its own and manualKeys is
// ignored.
func (o *Orchestrator) Clean(manualKeys []string) (*CleanReport, error) {
	g := lock.NewGlobal()
	if err := g.Acquire(globalLockTimeout); err != nil {
		return nil, err
	}
	defer g.Release()

	reg, err := registry.Load(o.registryPath)
	if err != nil {
		return nil, err
	}

	strategy := o.cfg.CleanStrategy
	if strategy == "" {
		strategy = config.StrategyUnreferenced
	}

	var candidates []registry.StoreEntry
	switch strategy {
	case config.StrategyUnreferenced, config.StrategyCapacity:
		candidates = reg.UnreferencedStores()
	case config.StrategyUnused:
		candidates = o.unusedStores(reg)
	case config.StrategyManual:
		candidates = selectByKey(reg, manualKeys)
	default:
		return nil, errs.Wrapf(errs.ErrInput, "unsupported clean strategy %q", strategy)
	}

	report := &CleanReport{Strategy: strategy}
	for _, e := range candidates {
		if err := o.store.Remove(e.Library, e.Commit, e.Platform); err != nil {
			return nil, errs.Wrap(errs.ErrTransaction, err)
		}
		reg.DeleteStoreEntry(e.Library, e.Commit, e.Platform)
		syncLibraryRecord(reg, e.Library, e.Commit)

		report.Removed = append(report.Removed, CleanedEntry{
			Library: e.Library, Commit: e.Commit, Platform: string(e.Platform), Size: e.Size,
		})
		report.Bytes += e.Size
	}

	if err := reg.Save(); err != nil {
		return nil, err
	}
	return report, nil
}

// unusedStores returns the unreferenced entries that have sat unlinked
// longer than the configured threshold.
func (o *Orchestrator) unusedStores(reg *registry.Registry) []registry.StoreEntry {
	days := o.cfg.UnusedDays
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var out []registry.StoreEntry
	for _, e := range reg.UnreferencedStores() {
		if e.UnlinkedAt != nil && e.UnlinkedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// selectByKey resolves a caller-provided list of "lib:commit:platform"
// keys against the registry's unreferenced entries; a key naming an entry
// that is still referenced, or that does not exist, is silently skipped.
func selectByKey(reg *registry.Registry, keys []string) []registry.StoreEntry {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	var out []registry.StoreEntry
	for _, e := range reg.UnreferencedStores() {
		if wanted[registry.StoreKey(e.Library, e.Commit, e.Platform)] {
			out = append(out, e)
		}
	}
	return out
}
