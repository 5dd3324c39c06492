package orchestrator

import (
	"github.com/tanmika/tanmidock/internal/lock"
	"github.com/tanmika/tanmidock/internal/registry"
	"github.com/tanmika/tanmidock/internal/txlog"
)

// Diagnostics is a read-only report over the store and registry, meant
// for an operator checking on a store's health without mutating it.
type Diagnostics struct {
	StoreRoot           string
	TotalBytes          int64
	ProjectCount        int
	StoreEntryCount     int
	UnreferencedEntries int
	UnreferencedBytes   int64
	PendingTransaction  string
	LockHeldBy          int
}

// Diagnose gathers a point-in-time report. Unlike Link, Unlink, Clean and
// Repair it does not take the global lock: a concurrent writer may cause
// two successive fields to disagree slightly, which is acceptable for a
// status report.
func (o *Orchestrator) Diagnose() (*Diagnostics, error) {
	reg, err := registry.Load(o.registryPath)
	if err != nil {
		return nil, err
	}

	d := &Diagnostics{StoreRoot: o.store.Root}

	d.ProjectCount = len(reg.Projects())

	entries := reg.StoreEntries()
	d.StoreEntryCount = len(entries)
	for _, e := range entries {
		d.TotalBytes += e.Size
	}

	for _, e := range reg.UnreferencedStores() {
		d.UnreferencedEntries++
		d.UnreferencedBytes += e.Size
	}

	if orphan, found, err := txlog.FindOrphan(o.txDir); err == nil && found {
		d.PendingTransaction = orphan
	}

	if pid, held, err := lock.CurrentHolder(); err == nil && held {
		d.LockHeldBy = pid
	}

	return d, nil
}
