package orchestrator

import (
	"time"

	"github.com/tanmika/tanmidock/internal/config"
	"github.com/tanmika/tanmidock/internal/fetcher"
	"github.com/tanmika/tanmidock/internal/paths"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/store"
)

// globalLockTimeout bounds how long a driving method waits for the
// process-global lock before giving up.
const globalLockTimeout = 30 * time.Second

// Orchestrator sequences the store, registry, classifier, linker,
// absorber, transaction log, lock and fetcher packages against one
// another to implement link, unlink, clean, repair and diagnostics.
//
// It is safe to reuse across multiple driving calls; each call loads its
// own registry snapshot, and each call other than Diagnose acquires and
// releases its own process-global lock.
type Orchestrator struct {
	store        *store.Store
	cfg          *config.Config
	registryPath string
	fetch        *fetcher.Fetcher
	txDir        string

	// OnProgress, if set, receives one call per fetcher stdout line
	// during a download, labelled by library and commit. Left nil,
	// progress lines go to slog.Debug instead.
	OnProgress func(lib, commit, line string)
}

// New binds an Orchestrator to a loaded configuration, the path of the
// registry document it should read and write, and the fetcher used for
// any download a run needs to issue.
func New(cfg *config.Config, registryPath string, fetch *fetcher.Fetcher) *Orchestrator {
	return &Orchestrator{
		store:        store.New(cfg.StorePath),
		cfg:          cfg,
		registryPath: registryPath,
		fetch:        fetch,
		txDir:        paths.TransactionDir(),
	}
}

// concurrencyLimit translates the configured concurrency value into a
// semaphore width; 99 is the sentinel for "unbounded".
func (o *Orchestrator) concurrencyLimit(tasks int) int {
	if o.cfg.Concurrency == 99 || o.cfg.Concurrency > tasks {
		return tasks
	}
	if o.cfg.Concurrency <= 0 {
		return 1
	}
	return o.cfg.Concurrency
}

func (o *Orchestrator) requestedPlatforms(explicit platform.Set, remembered []string) platform.Set {
	if len(explicit) > 0 {
		return explicit
	}
	tags := make(platform.Set, 0, len(remembered))
	for _, s := range remembered {
		if t, ok := platform.Parse(s); ok {
			tags = append(tags, t)
		}
	}
	return tags
}
