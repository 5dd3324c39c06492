// Package errs defines the tagged error kinds the core surfaces to its
// callers, and the Wrap/Wrapf helpers used to attach them to a cause.
//
// Every mutating operation in the core returns one of these sentinels
// (directly, or wrapped around a lower-level cause via Wrap/Wrapf), never a
// bare string or an ad-hoc fmt.Errorf. Callers test for a kind with
// errors.Is.
package errs

import "errors"

var (
	// ErrInput marks a missing or malformed dependency configuration,
	// an unknown platform tag, or a missing required argument.
	ErrInput = errors.New("input error")

	// ErrUninitialised marks an operation attempted before the store
	// root has been configured.
	ErrUninitialised = errors.New("store not initialised")

	// ErrPathSafety marks a candidate path that lies under a forbidden
	// system directory.
	ErrPathSafety = errors.New("unsafe path")

	// ErrIncompatibleStore marks a v0.5 commit directory layout detected
	// where v0.6 is required.
	ErrIncompatibleStore = errors.New("incompatible store layout")

	// ErrDiskSpace marks a pre-flight free-space estimate that exceeds
	// available bytes.
	ErrDiskSpace = errors.New("insufficient disk space")

	// ErrConflict marks an attempt to absorb into an already-populated
	// store target.
	ErrConflict = errors.New("store entry already exists")

	// ErrLock marks a failure to acquire a lock within its timeout, or a
	// failed stale-lock recovery.
	ErrLock = errors.New("lock error")

	// ErrFetcher marks an external fetcher that is missing, exited
	// non-zero, or produced no usable output.
	ErrFetcher = errors.New("fetcher error")

	// ErrTransaction marks a transaction log that could not be
	// persisted or replayed.
	ErrTransaction = errors.New("transaction error")
)
