package registry

import (
	"fmt"
	"time"

	"github.com/tanmika/tanmidock/internal/platform"
)

// schemaVersion is the current on-disk document version. Bump this and add
// a migration step in persist.go whenever the document shape changes.
const schemaVersion = 1

// StoreEntry is the registry record for one (library, commit, platform)
// triple: the authoritative source for eviction decisions.
type StoreEntry struct {
	Library    string       `json:"library"`
	Commit     string       `json:"commit"`
	Platform   platform.Tag `json:"platform"`
	Branch     string       `json:"branch"`
	URL        string       `json:"url"`
	Size       int64        `json:"size"`
	UsedBy     []string     `json:"usedBy"`
	CreatedAt  time.Time    `json:"createdAt"`
	LastAccess time.Time    `json:"lastAccess"`
	UnlinkedAt *time.Time   `json:"unlinkedAt,omitempty"`
}

// LibraryRecord is a coarse (library, commit) summary used by legacy paths
// and reporting; the per-platform StoreEntry records are authoritative for
// eviction.
type LibraryRecord struct {
	Library      string   `json:"library"`
	Commit       string   `json:"commit"`
	Size         int64    `json:"size"`
	Platforms    []string `json:"platforms"`
	ReferencedBy []string `json:"referencedBy"`
}

// ProjectDependency describes what a project linked for one library.
type ProjectDependency struct {
	Library         string       `json:"library"`
	Commit          string       `json:"commit"`
	PrimaryPlatform platform.Tag `json:"primaryPlatform"`
	LinkedPath      string       `json:"linkedPath"`
}

// ProjectRecord is keyed by path_hash(Path).
type ProjectRecord struct {
	Hash         string              `json:"hash"`
	Path         string              `json:"path"`
	ConfigPath   string              `json:"configPath"`
	Platforms    []string            `json:"platforms"`
	Dependencies []ProjectDependency `json:"dependencies"`
}

// document is the on-disk shape, versioned for forward-only migration.
type document struct {
	SchemaVersion int                      `json:"version"`
	Projects      map[string]ProjectRecord `json:"projects"`
	Libraries     map[string]LibraryRecord `json:"libraries"`
	Stores        map[string]StoreEntry    `json:"stores"`
}

func newDocument() *document {
	return &document{
		SchemaVersion: schemaVersion,
		Projects:      make(map[string]ProjectRecord),
		Libraries:     make(map[string]LibraryRecord),
		Stores:        make(map[string]StoreEntry),
	}
}

// Registry is the in-memory graph. The zero value is not usable; build one
// with New or Load.
type Registry struct {
	path string
	doc  *document
}

// New creates an empty Registry bound to path, not yet persisted.
func New(path string) *Registry {
	return &Registry{path: path, doc: newDocument()}
}

// libraryKey formats the key libraries are stored under: lib:commit.
func libraryKey(lib, commit string) string {
	return fmt.Sprintf("%s:%s", lib, commit)
}

// storeKey formats the key store entries are stored under:
// lib:commit:platform.
func storeKey(lib, commit string, p platform.Tag) string {
	return fmt.Sprintf("%s:%s:%s", lib, commit, p)
}

// StoreKey is the exported form of storeKey, for callers that need to name
// an entry without going through a mutator.
func StoreKey(lib, commit string, p platform.Tag) string {
	return storeKey(lib, commit, p)
}

// LibraryKey is the exported form of libraryKey.
func LibraryKey(lib, commit string) string {
	return libraryKey(lib, commit)
}

// Project returns the project record for hash, if any.
func (r *Registry) Project(hash string) (ProjectRecord, bool) {
	p, ok := r.doc.Projects[hash]
	return p, ok
}

// PutProject overwrites (or creates) the project record for p.Hash.
func (r *Registry) PutProject(p ProjectRecord) {
	r.doc.Projects[p.Hash] = p
}

// DeleteProject removes the project record for hash.
func (r *Registry) DeleteProject(hash string) {
	delete(r.doc.Projects, hash)
}

// Projects returns every project record, in no particular order.
func (r *Registry) Projects() []ProjectRecord {
	out := make([]ProjectRecord, 0, len(r.doc.Projects))
	for _, p := range r.doc.Projects {
		out = append(out, p)
	}
	return out
}

// Library returns the library record for (lib, commit), if any.
func (r *Registry) Library(lib, commit string) (LibraryRecord, bool) {
	l, ok := r.doc.Libraries[libraryKey(lib, commit)]
	return l, ok
}

// PutLibrary overwrites (or creates) a library record.
func (r *Registry) PutLibrary(l LibraryRecord) {
	r.doc.Libraries[libraryKey(l.Library, l.Commit)] = l
}

// DeleteLibrary removes the library record for (lib, commit).
func (r *Registry) DeleteLibrary(lib, commit string) {
	delete(r.doc.Libraries, libraryKey(lib, commit))
}

// StoreEntry returns the store entry for (lib, commit, platform), if any.
func (r *Registry) StoreEntry(lib, commit string, p platform.Tag) (StoreEntry, bool) {
	e, ok := r.doc.Stores[storeKey(lib, commit, p)]
	return e, ok
}

// PutStoreEntry overwrites (or creates) a store entry.
func (r *Registry) PutStoreEntry(e StoreEntry) {
	r.doc.Stores[storeKey(e.Library, e.Commit, e.Platform)] = e
}

// DeleteStoreEntry removes the store entry for (lib, commit, platform).
func (r *Registry) DeleteStoreEntry(lib, commit string, p platform.Tag) {
	delete(r.doc.Stores, storeKey(lib, commit, p))
}

// StoreEntries returns every store entry, in no particular order.
func (r *Registry) StoreEntries() []StoreEntry {
	out := make([]StoreEntry, 0, len(r.doc.Stores))
	for _, e := range r.doc.Stores {
		out = append(out, e)
	}
	return out
}

// StoreEntriesForLibrary returns every store entry for (lib, commit),
// across all platforms.
func (r *Registry) StoreEntriesForLibrary(lib, commit string) []StoreEntry {
	var out []StoreEntry
	for _, e := range r.doc.Stores {
		if e.Library == lib && e.Commit == commit {
			out = append(out, e)
		}
	}
	return out
}
