package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tanmika/tanmidock/internal/absorber"
	"github.com/tanmika/tanmidock/internal/classify"
	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/platform"
	"github.com/tanmika/tanmidock/internal/txlog"
)

// downloadTask is one MISSING dependency queued for the bounded-concurrency
// download phase.
type downloadTask struct {
	dep       resolvedDependency
	requested platform.Set
}

// downloadResult is what one task's parallel-safe half produced: the temp
// directory the fetcher populated, and which of the missing platforms it
// actually delivered. The registry- and transaction-log-touching half of
// the work happens afterward, sequentially, in runDownloads.
type downloadResult struct {
	task       downloadTask
	tempDir    string
	usable     platform.Set
	fetcherErr error
}

// runDownloads fetches every task's missing platforms under a bounded
// concurrency limiter, then applies each result's absorb-and-link
// sequentially in the calling goroutine so that the transaction log and
// registry only ever see one mutation in flight at a time.
func (o *Orchestrator) runDownloads(ctx context.Context, tx *txlog.Log, tasks []downloadTask) ([]DependencyOutcome, error) {
	if err := o.fetch.Probe(ctx); err != nil {
		return nil, err
	}

	results := cmap.New[downloadResult]()
	sem := semaphore.NewWeighted(int64(o.concurrencyLimit(len(tasks))))
	g, gctx := errgroup.WithContext(ctx)

	for i, t := range tasks {
		key := fmt.Sprintf("%d:%s:%s", i, t.dep.Repo.Dir, t.dep.Repo.Commit)
		task := t
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			res := o.fetchOne(gctx, task)
			results.Set(key, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errs.Wrap(errs.ErrFetcher, err)
	}

	var outcomes []DependencyOutcome
	for item := range results.IterBuffered() {
		outcome, err := o.commitDownload(tx, item.Val)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// fetchOne runs the parallel-safe half of one download: populate a temp
// directory via the external fetcher and work out which requested
// platforms it actually produced. It never touches the registry or the
// transaction log.
func (o *Orchestrator) fetchOne(ctx context.Context, task downloadTask) downloadResult {
	dep := task.dep

	tempDir, err := os.MkdirTemp("", "tanmidock-"+dep.Repo.Dir+"-*")
	if err != nil {
		return downloadResult{task: task, fetcherErr: errs.Wrap(errs.ErrFetcher, err)}
	}

	missing := dep.Decision.Missing
	if dep.IsGeneral {
		missing = platform.NewSet(platform.General)
	}

	progress := func(line string) {
		if o.OnProgress != nil {
			o.OnProgress(dep.Repo.Dir, dep.Repo.Commit, line)
			return
		}
		slog.Debug("fetcher progress", "library", dep.Repo.Dir, "commit", dep.Repo.Commit, "line", line)
	}

	if _, err := o.fetch.Install(ctx, tempDir, dep.ConfigPath, missing, progress); err != nil {
		slog.Warn("fetcher install failed, library will be skipped", "library", dep.Repo.Dir, "commit", dep.Repo.Commit, "error", err)
		return downloadResult{task: task, tempDir: tempDir, fetcherErr: err}
	}

	usable, err := scanDelivered(tempDir, dep.Decision.Missing, dep.IsGeneral)
	if err != nil {
		return downloadResult{task: task, tempDir: tempDir, fetcherErr: errs.Wrap(errs.ErrFetcher, err)}
	}
	return downloadResult{task: task, tempDir: tempDir, usable: usable}
}

// scanDelivered reports which of the missing platforms are actually
// present (as non-empty directories) in a fetcher's output directory.
// For a general library, delivery is all-or-nothing: any non-empty
// content at all counts as the _shared payload having arrived.
func scanDelivered(dir string, missing platform.Set, isGeneral bool) (platform.Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if isGeneral {
		if len(entries) == 0 {
			return nil, nil
		}
		return platform.NewSet(platform.General), nil
	}

	var got platform.Set
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		tag, ok := platform.Parse(e.Name())
		if !ok || !missing.Contains(tag) {
			continue
		}
		nonEmpty, err := dirHasEntries(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if nonEmpty {
			got = append(got, tag)
		}
	}
	return got, nil
}

func dirHasEntries(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// commitDownload applies the sequential half of one completed download:
// absorb what was delivered, link it, append transaction records, and
// clean up the temp directory. A download that failed or delivered nothing
// usable is reported skipped rather than returned as an error; an absorb,
// transaction-log or link failure is returned.
func (o *Orchestrator) commitDownload(tx *txlog.Log, res downloadResult) (DependencyOutcome, error) {
	dep := res.task.dep
	outcome := DependencyOutcome{Library: dep.Repo.Dir, Commit: dep.Repo.Commit, Status: classify.Missing}

	defer func() {
		if res.tempDir != "" {
			os.RemoveAll(res.tempDir)
		}
	}()

	if res.fetcherErr != nil || len(res.usable) == 0 {
		outcome.Skipped = dep.Decision.Missing
		return outcome, nil
	}

	commitPath := o.store.CommitPathOf(dep.Repo.Dir, dep.Repo.Commit)
	var absorbErr error
	if dep.IsGeneral {
		_, absorbErr = absorber.AbsorbGeneral(res.tempDir, o.store, dep.Repo.Dir, dep.Repo.Commit)
	} else {
		_, absorbErr = absorber.AbsorbLib(res.tempDir, res.usable, o.store, dep.Repo.Dir, dep.Repo.Commit)
	}
	if absorbErr != nil {
		return outcome, absorbErr
	}
	if err := tx.Append(txlog.Record{Operation: txlog.OpAbsorb, Source: res.tempDir, Target: commitPath}); err != nil {
		return outcome, err
	}

	if err := o.linkCommit(tx, dep, res.usable); err != nil {
		return outcome, err
	}
	outcome.Linked = res.usable
	outcome.Skipped = dep.Decision.Missing.Minus(res.usable)
	return outcome, nil
}

// downloadAndAbsorb runs a single synchronous download for the LINK_NEW
// case: only the platforms still missing from the store are fetched, and
// the call is made inline (not through the bounded-concurrency pool)
// since LINK_NEW is processed in declared order along with the other
// non-MISSING statuses.
func (o *Orchestrator) downloadAndAbsorb(ctx context.Context, dep resolvedDependency, missing platform.Set) (platform.Set, platform.Set, error) {
	if err := o.fetch.Probe(ctx); err != nil {
		return nil, nil, err
	}
	res := o.fetchOne(ctx, downloadTask{dep: dep, requested: missing})
	defer func() {
		if res.tempDir != "" {
			os.RemoveAll(res.tempDir)
		}
	}()

	if res.fetcherErr != nil || len(res.usable) == 0 {
		return nil, missing, nil
	}

	var absorbErr error
	if dep.IsGeneral {
		_, absorbErr = absorber.AbsorbGeneral(res.tempDir, o.store, dep.Repo.Dir, dep.Repo.Commit)
	} else {
		_, absorbErr = absorber.AbsorbLib(res.tempDir, res.usable, o.store, dep.Repo.Dir, dep.Repo.Commit)
	}
	if absorbErr != nil {
		return nil, nil, absorbErr
	}

	return res.usable, missing.Minus(res.usable), nil
}
