package registry

import (
	"sort"
	"time"

	"github.com/tanmika/tanmidock/internal/platform"
)

// AddStoreReference records that projectHash now references the store
// entry named by storeKey. Idempotent: re-adding an existing reference is
// a no-op beyond clearing UnlinkedAt.
func (r *Registry) AddStoreReference(lib, commit string, p platform.Tag, projectHash string) {
	key := storeKey(lib, commit, p)
	e, ok := r.doc.Stores[key]
	if !ok {
		return
	}

	if !containsString(e.UsedBy, projectHash) {
		e.UsedBy = append(e.UsedBy, projectHash)
	}
	e.UnlinkedAt = nil
	r.doc.Stores[key] = e
}

// RemoveStoreReference drops projectHash from the store entry's UsedBy
// set. When UsedBy becomes empty and UnlinkedAt is not already set, it is
// set to now; an existing UnlinkedAt is never overwritten.
func (r *Registry) RemoveStoreReference(lib, commit string, p platform.Tag, projectHash string) {
	key := storeKey(lib, commit, p)
	e, ok := r.doc.Stores[key]
	if !ok {
		return
	}

	e.UsedBy = removeString(e.UsedBy, projectHash)
	if len(e.UsedBy) == 0 && e.UnlinkedAt == nil {
		now := timeNow()
		e.UnlinkedAt = &now
	}
	r.doc.Stores[key] = e
}

// UnreferencedStores returns every store entry with an empty UsedBy set.
func (r *Registry) UnreferencedStores() []StoreEntry {
	var out []StoreEntry
	for _, e := range r.doc.Stores {
		if len(e.UsedBy) == 0 {
			out = append(out, e)
		}
	}
	return out
}

// StoresForHalfClean sorts the unreferenced entries by UnlinkedAt
// ascending (entries with no UnlinkedAt sort last) and returns the prefix
// whose cumulative size first reaches half the unreferenced total. This
// ordering makes eviction LRU-by-unlink-time.
func (r *Registry) StoresForHalfClean() []StoreEntry {
	candidates := r.UnreferencedStores()
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].UnlinkedAt, candidates[j].UnlinkedAt
		if a == nil && b == nil {
			return false
		}
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	var total int64
	for _, e := range candidates {
		total += e.Size
	}
	target := total / 2

	var out []StoreEntry
	var cumulative int64
	for _, e := range candidates {
		if cumulative >= target {
			break
		}
		out = append(out, e)
		cumulative += e.Size
	}
	return out
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(ss []string, s string) []string {
	out := ss[:0:0]
	for _, v := range ss {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// timeNow is a seam so tests can observe the exact timestamp a mutation
// chose without racing a bare time.Now() call.
var timeNow = time.Now
