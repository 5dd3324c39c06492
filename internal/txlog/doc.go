// Package txlog implements the append-only transaction log a link run
// opens before its first mutating filesystem step: one JSON-Lines record
// per step, fsync'd as it is written, replayed in reverse on failure, and
// removed outright on a clean commit.
//
// At most one transaction exists at a time in normal operation, since
// concurrent runs are already serialised by the process-global lock; a
// file left behind after an unclean shutdown is an orphan to be rolled
// back before the next run begins.
package txlog
