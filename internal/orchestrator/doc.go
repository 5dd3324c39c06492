// Package orchestrator drives the link, unlink, clean, repair and
// diagnostics operations: it is the only package that sequences the
// store, registry, classifier, linker, absorber, transaction log, lock
// and fetcher packages against one another.
//
// The orchestrator itself holds no persistent state beyond the handles
// passed to New; the registry document is loaded fresh at the start of
// every driving method, and every method except Diagnose also acquires the
// process-global lock, releasing it (and saving the registry where it
// mutated it) before it returns.
package orchestrator
