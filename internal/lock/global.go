package lock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/paths"
)

// pollInterval is how often Acquire retries while waiting for the lock.
const pollInterval = 100 * time.Millisecond

// staleGrace is how long a lock file with a dead holder PID must sit
// before a new acquirer is permitted to break it, giving a concurrent
// acquirer time to notice the same staleness and avoid a double-break
// race where both sides think they broke the lock.
const staleGrace = 250 * time.Millisecond

// holder is the content of the global lock file.
type holder struct {
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// Global holds the process-global lock. Only one Global may be acquired at
// a time on a given host; it serialises every mutating link/unlink/clean
// invocation.
type Global struct {
	path     string
	acquired bool
}

// NewGlobal creates a Global bound to the default lock file path.
func NewGlobal() *Global {
	return &Global{path: paths.LockFile()}
}

// Acquire blocks until the lock is obtained or timeout elapses. A stale
// lock (holder PID no longer alive) is broken automatically, once it has
// sat stale for at least staleGrace, so that two acquirers racing to
// notice the same staleness don't both believe they broke it silently;
// the loser simply retries its CreateNew attempt.
func (g *Global) Acquire(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		if err := os.MkdirAll(filepath.Dir(g.path), paths.DefaultDirMode); err != nil {
			return errs.Wrapf(errs.ErrLock, "create lock directory: %w", err)
		}

		ok, err := g.tryCreate()
		if err != nil {
			return errs.Wrap(errs.ErrLock, err)
		}
		if ok {
			g.acquired = true
			return nil
		}

		if g.breakIfStale() {
			continue // retry immediately; don't burn the deadline on a successful break
		}

		if time.Now().After(deadline) {
			return errs.Wrapf(errs.ErrLock, "timed out waiting for lock at %s", g.path)
		}
		time.Sleep(pollInterval)
	}
}

// tryCreate attempts to atomically create the lock file with this
// process's identity. Returns (false, nil) if the file already exists.
func (g *Global) tryCreate() (bool, error) {
	f, err := os.OpenFile(g.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, paths.DefaultFileMode)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	h := holder{PID: os.Getpid(), AcquiredAt: time.Now()}
	return true, json.NewEncoder(f).Encode(h)
}

// breakIfStale removes the lock file if it names a PID that is no longer
// alive and has been stale for at least staleGrace. Returns true if it
// broke the lock (the caller should retry tryCreate immediately).
func (g *Global) breakIfStale() bool {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return false // vanished between our failed create and this read; let the loop retry
	}

	var h holder
	if err := json.Unmarshal(data, &h); err != nil {
		return false // unparseable: leave it for an operator rather than guess
	}

	if alive(h.PID) {
		return false
	}
	if time.Since(h.AcquiredAt) < staleGrace {
		return false
	}

	// Idempotent under concurrent retries: os.Remove on an already-removed
	// path is harmless, and whoever's tryCreate lands first afterward wins.
	os.Remove(g.path)
	return true
}

// CurrentHolder reads the global lock file without acquiring it, for
// reporting purposes. ok is false if no lock is currently held.
func CurrentHolder() (pid int, ok bool, err error) {
	data, err := os.ReadFile(paths.LockFile())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}

	var h holder
	if err := json.Unmarshal(data, &h); err != nil {
		return 0, false, nil
	}
	return h.PID, true, nil
}

// Release removes the lock file. It is a no-op if the lock was never
// acquired by this Global.
func (g *Global) Release() error {
	if !g.acquired {
		return nil
	}
	g.acquired = false
	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrLock, err)
	}
	return nil
}
