package orchestrator

import "github.com/tanmika/tanmidock/internal/registry"

// syncLibraryRecord recomputes (lib, commit)'s coarse LibraryRecord from
// its current StoreEntry set, or deletes the record once no platform
// remains. LibraryRecord is a reporting derivative only: the classifier
// and eviction always consult StoreEntry directly, never this record.
func syncLibraryRecord(reg *registry.Registry, lib, commit string) {
	entries := reg.StoreEntriesForLibrary(lib, commit)
	if len(entries) == 0 {
		reg.DeleteLibrary(lib, commit)
		return
	}

	seenRef := map[string]bool{}
	rec := registry.LibraryRecord{Library: lib, Commit: commit}
	for _, e := range entries {
		rec.Size += e.Size
		rec.Platforms = append(rec.Platforms, string(e.Platform))
		for _, ref := range e.UsedBy {
			if !seenRef[ref] {
				seenRef[ref] = true
				rec.ReferencedBy = append(rec.ReferencedBy, ref)
			}
		}
	}
	reg.PutLibrary(rec)
}
