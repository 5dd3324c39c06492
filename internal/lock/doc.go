// Package lock implements two locking disciplines: a process-global lock
// serialising every mutating invocation on a host, and a per-file advisory
// lock wrapping a read-modify-write closure for the registry and the
// config file.
//
// Both disciplines are single-host only; neither coordinates across
// machines sharing a network filesystem.
package lock
